package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	s, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, s.Source)
	assert.Equal(t, zerolog.InfoLevel, s.LogLevel)
	assert.Equal(t, filepath.Join(DefaultDir(), "timeweave.db"), s.DBPath)
	assert.Equal(t, 90, s.Engine.MaxDaysAhead)
	assert.Equal(t, 12, s.Engine.MaxWeeksToSearch)
	assert.Equal(t, 100, s.Engine.MaxIterationsPerTask)
	assert.Equal(t, 1.0, s.Engine.StrategyWeights.Urgency)
	assert.Equal(t, 0.5, s.Engine.StrategyWeights.Earliest)
	assert.Equal(t, "UTC", s.Engine.Location.String())
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "timeweave.yaml", `
db_path: /tmp/tw/events.db
log_level: debug
engine:
  buffer_time_minutes: 15
  max_weeks_to_search: 4
  timezone: Europe/Lisbon
  weights:
    energy: 0.25
  energy_peak:
    start: "07:30"
    end: "10:00"
`)

	s, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "timeweave.yaml"), s.Source)
	assert.Equal(t, "/tmp/tw/events.db", s.DBPath)
	assert.Equal(t, zerolog.DebugLevel, s.LogLevel)
	assert.Equal(t, 15, s.Engine.BufferTimeMinutes)
	assert.Equal(t, 4, s.Engine.MaxWeeksToSearch)
	assert.Equal(t, 90, s.Engine.MaxDaysAhead, "unset keys keep defaults")
	assert.Equal(t, "Europe/Lisbon", s.Engine.Location.String())
	assert.Equal(t, 0.25, s.Engine.StrategyWeights.Energy)
	assert.Equal(t, 1.0, s.Engine.StrategyWeights.Urgency)
	assert.Equal(t, "07:30", s.Engine.EnergyPeakStart)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "timeweave.yaml", "engine:\n  buffer_time_minutes: 15\n")
	t.Setenv("TIMEWEAVE_ENGINE_BUFFER_TIME_MINUTES", "5")
	t.Setenv("TIMEWEAVE_DB_PATH", "/var/lib/tw.db")

	s, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Engine.BufferTimeMinutes)
	assert.Equal(t, "/var/lib/tw.db", s.DBPath)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yml", "log_level: warn\n")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, s.LogLevel)

	_, err = Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err, "a named config file must exist")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad timezone", "engine:\n  timezone: Atlantis/Capital\n", "engine.timezone"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"negative buffer", "engine:\n  buffer_time_minutes: -3\n", "buffer_time_minutes"},
		{"bad peak", "engine:\n  energy_peak:\n    start: \"9am\"\n", "energy_peak.start"},
		{"malformed yaml", "engine: [\n", "reading config"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "timeweave.yaml", tc.content)

			_, err := Load("", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestLoad_NormalizesLimits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "timeweave.yaml", "engine:\n  max_days_ahead: 0\n  max_iterations_per_task: -1\n")

	s, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, 90, s.Engine.MaxDaysAhead)
	assert.Equal(t, 100, s.Engine.MaxIterationsPerTask)
}
