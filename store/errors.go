package store

import "github.com/treywint/hourly/internal/apperr"

var (
	errHourlyRunning = &apperr.Error{
		Message: "is hourly already running? Only one instance can be active at a time",
	}

	errActivityNotFound = &apperr.Error{
		Message: "activity not found: %s",
	}

	errProjectNotFound = &apperr.Error{
		Message: "project not found: %s",
	}

	errSessionNotFound = &apperr.Error{
		Message: "session not found: %s",
	}

	errInvalidCategory = &apperr.Error{
		Message: "invalid activity category: %s",
	}
)
