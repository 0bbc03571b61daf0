package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `
start: 2026-03-02T23:00:00Z
duration: 15m
steps:
  - at: 0s
    weight_g: 1200
  - at: 1m
    weight_g: 740
`

func TestRunSimulation_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSimulation(&out, config.Default(), strings.NewReader(scenario), false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "partial_fill")
	assert.Contains(t, lines[1], "empty")
	assert.Contains(t, lines[2], "empty_reminder")
	assert.Contains(t, lines[3], "events=3")
}

func TestRunSimulation_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSimulation(&out, config.Default(), strings.NewReader(scenario), true))

	var kinds []models.EventKind
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var rec models.EventRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		kinds = append(kinds, rec.Kind)
	}
	assert.Equal(t, []models.EventKind{models.EventPartialFill, models.EventEmpty, models.EventEmptyReminder}, kinds)
}

func TestSimulateCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("empty_reminder_interval: 3\n"), 0o600))
	scPath := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(scPath, []byte(scenario), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--config", cfgPath, scPath})
	require.NoError(t, root.Execute())

	// reminders every 3 minutes from 1m: 4m, 7m, 10m, 13m
	assert.Equal(t, 4, strings.Count(out.String(), "empty_reminder"))
}

func TestSimulateCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("drink_reminder_limit: 90\n"), 0o600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"simulate", "--config", cfgPath, "unused.yml"})
	err := root.Execute()

	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "DRINK_REMINDER_LIMIT", cfgErr.Key)
}
