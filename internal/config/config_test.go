package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treywint/hourly/internal/config"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t,
		config.DefaultInactivityInterval,
		cfg.Reminders.Inactivity.Interval,
	)
	assert.Equal(t,
		config.DefaultLongSessionInterval,
		cfg.Reminders.LongSession.Interval,
	)
	assert.False(t, cfg.Reminders.Inactivity.Enabled)
}

func TestValidateRejectsNonPresetIntervals(t *testing.T) {
	_, err := config.New(func(c *config.Config) error {
		c.Reminders.Inactivity.Enabled = true
		c.Reminders.Inactivity.Interval = 7 * time.Minute

		return nil
	})
	assert.Error(t, err)

	_, err = config.New(func(c *config.Config) error {
		c.Reminders.LongSession.Enabled = true
		c.Reminders.LongSession.Interval = 13 * time.Minute

		return nil
	})
	assert.Error(t, err)
}

func TestValidateIgnoresDisabledReminders(t *testing.T) {
	_, err := config.New(func(c *config.Config) error {
		c.Reminders.Inactivity.Interval = 7 * time.Minute
		return nil
	})
	assert.NoError(t, err)
}

func TestValidPreset(t *testing.T) {
	assert.True(t,
		config.ValidPreset(config.InactivityPresets, 30*time.Minute),
	)
	assert.False(t,
		config.ValidPreset(config.InactivityPresets, 31*time.Minute),
	)
}

func TestWithViperConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := config.New(config.WithViperConfig(path))
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "a default config file is written on first run")

	assert.True(t, cfg.Reminders.LongSession.Enabled)
	assert.Equal(t,
		config.DefaultLongSessionInterval,
		cfg.Reminders.LongSession.Interval,
	)
}

func TestWithViperConfigReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	contents := []byte(`user:
  default_hourly_rate: 35
  currency: EUR
  tracking_start_date: "2024-01-01"
reminders:
  inactivity:
    enabled: true
    interval: 15m
  long_session:
    enabled: false
    interval: 1h
settings:
  session_cmd: "afplay done.wav"
  24hr_clock: true
display:
  dark_theme: false
`)

	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := config.New(config.WithViperConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 35.0, cfg.User.DefaultHourlyRate)
	assert.Equal(t, "EUR", cfg.User.Currency)
	assert.Equal(t, "2024-01-01", cfg.User.TrackingStartDate)
	assert.True(t, cfg.Reminders.Inactivity.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reminders.Inactivity.Interval)
	assert.False(t, cfg.Reminders.LongSession.Enabled)
	assert.Equal(t, "afplay done.wav", cfg.Settings.SessionCmd)
	assert.True(t, cfg.Settings.TwentyFourHour)
	assert.False(t, cfg.Display.DarkTheme)
}
