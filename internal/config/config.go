// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

const Version = "v0.3.1"

type (
	// Config holds all configuration settings.
	Config struct {
		User      UserConfig
		Reminders RemindersConfig
		Settings  SettingsConfig
		Display   DisplayConfig
	}

	// UserConfig seeds the stored user record. Zero values leave the
	// stored record untouched.
	UserConfig struct {
		DefaultHourlyRate float64 `mapstructure:"default_hourly_rate"`
		Currency          string
		TrackingStartDate string `mapstructure:"tracking_start_date"`
	}

	// RemindersConfig holds the inactivity and long-session reminder
	// settings.
	RemindersConfig struct {
		Inactivity  ReminderConfig
		LongSession ReminderConfig `mapstructure:"long_session"`
	}

	// ReminderConfig holds the settings for a single reminder timer.
	ReminderConfig struct {
		Interval time.Duration
		Enabled  bool
	}

	// SettingsConfig holds general program settings.
	SettingsConfig struct {
		// SessionCmd is an arbitrary command executed after a session is
		// stopped.
		SessionCmd     string `mapstructure:"session_cmd"`
		TwentyFourHour bool   `mapstructure:"24hr_clock"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const (
	DefaultInactivityInterval  = 30 * time.Minute
	DefaultLongSessionInterval = 60 * time.Minute
)

// Interval presets selectable for each reminder type.
var (
	InactivityPresets = []time.Duration{
		5 * time.Minute,
		15 * time.Minute,
		30 * time.Minute,
		time.Hour,
		2 * time.Hour,
		4 * time.Hour,
		8 * time.Hour,
	}

	LongSessionPresets = []time.Duration{
		time.Minute,
		5 * time.Minute,
		15 * time.Minute,
		30 * time.Minute,
		time.Hour,
		2 * time.Hour,
		4 * time.Hour,
		8 * time.Hour,
	}
)

var (
	configDir      = "hourly"
	configFileName = "config.yml"
	dbFileName     = "hourly.db"
	statusFileName = "status.json"
	logFileName    = "hourly.log"
	dbFilePath     string
	configFilePath string
	statusFilePath string
	logFilePath    string
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func StatusFilePath() string {
	return statusFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the config, database, status, and log file
// locations. HOURLY_ENV suffixes the file names so that development and
// test data stay separate from real data.
func InitializePaths() {
	hourlyEnv := strings.TrimSpace(os.Getenv("HOURLY_ENV"))
	if hourlyEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", hourlyEnv)
		dbFileName = fmt.Sprintf("hourly_%s.db", hourlyEnv)
		statusFileName = fmt.Sprintf("status_%s.json", hourlyEnv)
		logFileName = fmt.Sprintf("hourly_%s.log", hourlyEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	statusFilePath = filepath.Join(dataDir, statusFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// ValidPreset reports whether interval is one of the selectable presets
// for the given reminder.
func ValidPreset(presets []time.Duration, interval time.Duration) bool {
	for _, p := range presets {
		if p == interval {
			return true
		}
	}

	return false
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{
		Reminders: RemindersConfig{
			Inactivity: ReminderConfig{
				Interval: DefaultInactivityInterval,
			},
			LongSession: ReminderConfig{
				Interval: DefaultLongSessionInterval,
			},
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Reminders.Inactivity.Enabled &&
		!ValidPreset(InactivityPresets, c.Reminders.Inactivity.Interval) {
		return errInvalidInterval.Fmt(
			"inactivity",
			c.Reminders.Inactivity.Interval,
		)
	}

	if c.Reminders.LongSession.Enabled &&
		!ValidPreset(LongSessionPresets, c.Reminders.LongSession.Interval) {
		return errInvalidInterval.Fmt(
			"long_session",
			c.Reminders.LongSession.Interval,
		)
	}

	return nil
}
