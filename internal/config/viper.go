package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyDefaultHourlyRate   = "user.default_hourly_rate"
	keyCurrency            = "user.currency"
	keyTrackingStartDate   = "user.tracking_start_date"
	keyInactivityEnabled   = "reminders.inactivity.enabled"
	keyInactivityInterval  = "reminders.inactivity.interval"
	keyLongSessionEnabled  = "reminders.long_session.enabled"
	keyLongSessionInterval = "reminders.long_session.interval"
	keySessionCmd          = "settings.session_cmd"
	keyTwentyFourHour      = "settings.24hr_clock"
	keyDarkTheme           = "display.dark_theme"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing a default config file if none exists yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return v.Unmarshal(c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return v.Unmarshal(c)
	}
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keyDefaultHourlyRate, 0)
	v.SetDefault(keyCurrency, "")
	v.SetDefault(keyTrackingStartDate, "")
	v.SetDefault(keyInactivityEnabled, false)
	v.SetDefault(keyInactivityInterval, DefaultInactivityInterval.String())
	v.SetDefault(keyLongSessionEnabled, true)
	v.SetDefault(keyLongSessionInterval, DefaultLongSessionInterval.String())
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyDarkTheme, true)
}
