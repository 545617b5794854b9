package config

import "github.com/treywint/hourly/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidInterval = &apperr.Error{
		Message: "%s reminder interval must be one of the supported presets, got %v",
	}
)
