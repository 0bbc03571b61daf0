package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.DrinkReminderBase)
	assert.Equal(t, 10, cfg.DrinkReminderLimit)
	assert.Equal(t, 5, cfg.RandomThresholdMinutes)
	assert.Equal(t, 710.0, cfg.MinWeight)
	assert.Equal(t, 1810.0, cfg.MaxWeight)
	assert.Equal(t, 50.0, cfg.EmptyThreshold)
	assert.Equal(t, 10.0, cfg.VeryEmptyThreshold)
	assert.Equal(t, 10.0, cfg.FillThresholdPercent)
	assert.Equal(t, 10.0, cfg.DrinkCorrectionThreshold)
	assert.Equal(t, 2000.0, cfg.DailyGoalML)
	assert.Equal(t, 7, cfg.HydrationStartHour)
	assert.Equal(t, 22, cfg.HydrationEndHour)
	assert.Equal(t, 130.0, cfg.ReasonableMLPerHour)
	assert.Equal(t, 10, cfg.BadOrientationInterval)
	assert.Equal(t, 10, cfg.EmptyReminderInterval)
	assert.Equal(t, 2, cfg.RecalibrateReminderDays)
	assert.Equal(t, 1, cfg.MinTimerGapMinutes)
	assert.Equal(t, 10.0, cfg.OrientationThreshold)
	assert.Equal(t, ArchiveMemoryDSN, cfg.DB.DSN)
	assert.Empty(t, cfg.MQTT.Broker)

	assert.Equal(t, 1100.0, cfg.Capacity())
	assert.Equal(t, 2910.0, cfg.SampleCeiling())
	assert.InDelta(t, 990.0, cfg.FullLevel(), 1e-9)
	assert.Equal(t, 48*time.Hour, cfg.RecalibrateAfter())
	assert.Equal(t, time.Minute, cfg.MinTimerGap())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DRINK_REMINDER_BASE", "60")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.DrinkReminderBase)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
}

func TestLoad_ExplicitSampleCeiling(t *testing.T) {
	t.Setenv("MAX_SAMPLE_WEIGHT", "2000")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, cfg.SampleCeiling())
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("DRINK_REMINDER_BASE", "60")
	t.Setenv("HYDRATION_START_HOUR", "9")

	cfg := Default()
	assert.Equal(t, 45, cfg.DrinkReminderBase)
	assert.Equal(t, 7, cfg.HydrationStartHour)
}

func TestLoad_RejectsContradictions(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		key  string
	}{
		{
			name: "limit above base",
			env:  map[string]string{"DRINK_REMINDER_LIMIT": "50"},
			key:  "DRINK_REMINDER_LIMIT",
		},
		{
			name: "min weight not below max",
			env:  map[string]string{"MIN_WEIGHT": "1810"},
			key:  "MIN_WEIGHT",
		},
		{
			name: "very empty above empty",
			env:  map[string]string{"VERY_EMPTY_THRESHOLD": "60"},
			key:  "VERY_EMPTY_THRESHOLD",
		},
		{
			name: "hour out of range",
			env:  map[string]string{"HYDRATION_END_HOUR": "24"},
			key:  "HYDRATION_END_HOUR",
		},
		{
			name: "empty hydration window",
			env:  map[string]string{"HYDRATION_START_HOUR": "9", "HYDRATION_END_HOUR": "9"},
			key:  "HYDRATION_END_HOUR",
		},
		{
			name: "sample ceiling below max weight",
			env:  map[string]string{"MAX_SAMPLE_WEIGHT": "1500"},
			key:  "MAX_SAMPLE_WEIGHT",
		},
		{
			name: "zero goal",
			env:  map[string]string{"DAILY_GOAL_IN_ML": "0"},
			key:  "DAILY_GOAL_IN_ML",
		},
		{
			name: "unknown log level",
			env:  map[string]string{"LOG_LEVEL": "chatty"},
			key:  "LOG_LEVEL",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(New())
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "want *config.Error, got %T", err)
			assert.Equal(t, tc.key, cfgErr.Key)
		})
	}
}

func TestReadFile_MissingFileIsNotAnError(t *testing.T) {
	v := New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("does-not-exist")
	assert.NoError(t, ReadFile(v))
}
