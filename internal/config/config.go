// Package config loads the monitor's thresholds and intervals.
//
// Values come from built-in defaults, an optional configs/config.yml and the
// process environment, in increasing order of precedence. A loaded Config is
// immutable for the rest of the run.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hydration_monitor/internal/logger"

	"github.com/spf13/viper"
)

// Config holds every tunable of the engine plus the process surface around it.
type Config struct {
	DrinkReminderBase        int `mapstructure:"drink_reminder_base"`
	DrinkReminderLimit       int `mapstructure:"drink_reminder_limit"`
	DrinkReminderRampMinutes int `mapstructure:"drink_reminder_ramp_minutes"`
	RandomThresholdMinutes   int `mapstructure:"random_threshold_minutes"`

	MinWeight                float64 `mapstructure:"min_weight"`
	MaxWeight                float64 `mapstructure:"max_weight"`
	EmptyThreshold           float64 `mapstructure:"empty_threshold"`
	VeryEmptyThreshold       float64 `mapstructure:"very_empty_threshold"`
	FillThresholdPercent     float64 `mapstructure:"fill_threshold_percent"`
	DrinkCorrectionThreshold float64 `mapstructure:"drink_correction_threshold"`
	// MaxSampleWeight is the heaviest reading accepted. Zero means
	// MAX_WEIGHT plus one bottle capacity.
	MaxSampleWeight          float64 `mapstructure:"max_sample_weight"`

	DailyGoalML         float64 `mapstructure:"daily_goal_in_ml"`
	HydrationStartHour  int     `mapstructure:"hydration_start_hour"`
	HydrationEndHour    int     `mapstructure:"hydration_end_hour"`
	ReasonableMLPerHour float64 `mapstructure:"reasonable_ml_per_hour"`

	BadOrientationInterval  int     `mapstructure:"bad_orientation_interval"`
	EmptyReminderInterval   int     `mapstructure:"empty_reminder_interval"`
	RecalibrateReminderDays int     `mapstructure:"recalibrate_reminder_days"`
	MinTimerGapMinutes      int     `mapstructure:"min_timer_gap_minutes"`
	OrientationThreshold    float64 `mapstructure:"orientation_threshold"`

	Port        string `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	TickSeconds int    `mapstructure:"tick_seconds"`

	DB   DBConfig   `mapstructure:"db"`
	MQTT MQTTConfig `mapstructure:"mqtt"`
}

// DBConfig points the event archive at a sqlite database.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MQTTConfig configures the optional sample subscriber. An empty broker disables it.
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

// Error is returned for invalid or contradictory settings. It is fatal at startup.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// ArchiveMemoryDSN keeps the archive inside the process.
const ArchiveMemoryDSN = "file:hydration?mode=memory&cache=shared"

var defaults = map[string]any{
	"drink_reminder_base":         45,
	"drink_reminder_limit":        10,
	"drink_reminder_ramp_minutes": 180,
	"random_threshold_minutes":    5,
	"min_weight":                  710,
	"max_weight":                  1810,
	"empty_threshold":             50,
	"very_empty_threshold":        10,
	"fill_threshold_percent":      10,
	"drink_correction_threshold":  10,
	"max_sample_weight":           0,
	"daily_goal_in_ml":            2000,
	"hydration_start_hour":        7,
	"hydration_end_hour":          22,
	"reasonable_ml_per_hour":      130,
	"bad_orientation_interval":    10,
	"empty_reminder_interval":     10,
	"recalibrate_reminder_days":   2,
	"min_timer_gap_minutes":       1,
	"orientation_threshold":       10,
	"port":                        "8080",
	"log_level":                   "info",
	"tick_seconds":                5,
	"db.dsn":                      ArchiveMemoryDSN,
	"mqtt.broker":                 "",
	"mqtt.topic":                  "bottle/samples",
	"mqtt.client_id":              "hydration-monitor",
}

// New returns a viper instance with defaults, the config search path and
// environment binding applied.
func New() *viper.Viper {
	v := withDefaults()
	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func withDefaults() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Default returns the built-in configuration. The environment is not consulted.
func Default() Config {
	cfg, err := Load(withDefaults())
	if err != nil {
		// defaults are valid by construction
		panic(err)
	}
	return cfg
}

// ReadFile reads the config file if one is present. A missing file is not an error.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MinWeight < 0:
		return &Error{Key: "MIN_WEIGHT", Reason: "must not be negative"}
	case c.MinWeight >= c.MaxWeight:
		return &Error{Key: "MIN_WEIGHT", Reason: fmt.Sprintf("%.0f must be below MAX_WEIGHT %.0f", c.MinWeight, c.MaxWeight)}
	case c.DrinkReminderLimit < 1:
		return &Error{Key: "DRINK_REMINDER_LIMIT", Reason: "must be at least 1 minute"}
	case c.DrinkReminderLimit > c.DrinkReminderBase:
		return &Error{Key: "DRINK_REMINDER_LIMIT", Reason: fmt.Sprintf("%d exceeds DRINK_REMINDER_BASE %d", c.DrinkReminderLimit, c.DrinkReminderBase)}
	case c.DrinkReminderRampMinutes < 1:
		return &Error{Key: "DRINK_REMINDER_RAMP_MINUTES", Reason: "must be at least 1 minute"}
	case c.RandomThresholdMinutes < 0:
		return &Error{Key: "RANDOM_THRESHOLD_MINUTES", Reason: "must not be negative"}
	case c.VeryEmptyThreshold < 0:
		return &Error{Key: "VERY_EMPTY_THRESHOLD", Reason: "must not be negative"}
	case c.VeryEmptyThreshold > c.EmptyThreshold:
		return &Error{Key: "VERY_EMPTY_THRESHOLD", Reason: "exceeds EMPTY_THRESHOLD"}
	case c.EmptyThreshold >= c.MaxWeight-c.MinWeight:
		return &Error{Key: "EMPTY_THRESHOLD", Reason: "must be below the bottle capacity"}
	case c.MaxSampleWeight != 0 && c.MaxSampleWeight < c.MaxWeight:
		return &Error{Key: "MAX_SAMPLE_WEIGHT", Reason: fmt.Sprintf("%.0f is below MAX_WEIGHT %.0f", c.MaxSampleWeight, c.MaxWeight)}
	case c.FillThresholdPercent < 0 || c.FillThresholdPercent > 100:
		return &Error{Key: "FILL_THRESHOLD_PERCENT", Reason: "must be within 0..100"}
	case c.DrinkCorrectionThreshold < 0:
		return &Error{Key: "DRINK_CORRECTION_THRESHOLD", Reason: "must not be negative"}
	case c.DailyGoalML <= 0:
		return &Error{Key: "DAILY_GOAL_IN_ML", Reason: "must be positive"}
	case c.ReasonableMLPerHour < 0:
		return &Error{Key: "REASONABLE_ML_PER_HOUR", Reason: "must not be negative"}
	case !validHour(c.HydrationStartHour):
		return &Error{Key: "HYDRATION_START_HOUR", Reason: "must be within 0..23"}
	case !validHour(c.HydrationEndHour):
		return &Error{Key: "HYDRATION_END_HOUR", Reason: "must be within 0..23"}
	case c.HydrationStartHour == c.HydrationEndHour:
		return &Error{Key: "HYDRATION_END_HOUR", Reason: "must differ from HYDRATION_START_HOUR"}
	case c.BadOrientationInterval < 1:
		return &Error{Key: "BAD_ORIENTATION_INTERVAL", Reason: "must be at least 1 minute"}
	case c.EmptyReminderInterval < 1:
		return &Error{Key: "EMPTY_REMINDER_INTERVAL", Reason: "must be at least 1 minute"}
	case c.RecalibrateReminderDays < 1:
		return &Error{Key: "RECALIBRATE_REMINDER_DAYS", Reason: "must be at least 1 day"}
	case c.MinTimerGapMinutes < 0:
		return &Error{Key: "MIN_TIMER_GAP_MINUTES", Reason: "must not be negative"}
	case c.OrientationThreshold < 0 || c.OrientationThreshold > 180:
		return &Error{Key: "ORIENTATION_THRESHOLD", Reason: "must be within 0..180 degrees"}
	case c.TickSeconds < 1:
		return &Error{Key: "TICK_SECONDS", Reason: "must be at least 1 second"}
	case !logger.ValidLevel(c.LogLevel):
		return &Error{Key: "LOG_LEVEL", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

// Capacity is the drinkable mass of a full bottle.
func (c Config) Capacity() float64 { return c.MaxWeight - c.MinWeight }

// SampleCeiling is the heaviest weight a sample may report.
func (c Config) SampleCeiling() float64 {
	if c.MaxSampleWeight > 0 {
		return c.MaxSampleWeight
	}
	return c.MaxWeight + c.Capacity()
}

// FullLevel is the drink level at and above which the bottle counts as filled up.
func (c Config) FullLevel() float64 {
	return (1 - c.FillThresholdPercent/100) * c.Capacity()
}

func (c Config) BadOrientationEvery() time.Duration { return minutes(c.BadOrientationInterval) }
func (c Config) EmptyReminderEvery() time.Duration  { return minutes(c.EmptyReminderInterval) }
func (c Config) MinTimerGap() time.Duration         { return minutes(c.MinTimerGapMinutes) }
func (c Config) Tick() time.Duration                { return time.Duration(c.TickSeconds) * time.Second }

func (c Config) RecalibrateAfter() time.Duration {
	return time.Duration(c.RecalibrateReminderDays) * 24 * time.Hour
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
