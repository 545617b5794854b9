package app

import "github.com/treywint/hourly/internal/apperr"

var (
	errActivityNameRequired = &apperr.Error{
		Message: "an activity name is required",
	}

	errProjectNameRequired = &apperr.Error{
		Message: "a project name is required",
	}

	errProjectNameUnknown = &apperr.Error{
		Message: "project not found: %s",
	}

	errNoPausedSession = &apperr.Error{
		Message: "there is no paused session to resume",
	}

	errInvalidWindow = &apperr.Error{
		Message: "invalid reporting window: %s",
	}

	errInvalidMode = &apperr.Error{
		Message: "invalid reporting mode: %s",
	}

	errInvalidStartDate = &apperr.Error{
		Message: "user.tracking_start_date must be a YYYY-MM-DD date",
	}
)
