package tracker

import "github.com/treywint/hourly/internal/apperr"

var errSessionNotResumable = &apperr.Error{
	Message: "session %s is not open: please start a new session",
}
