package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheduler_config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writeConfigFile(t, `
serverAddr: ":9090"
databaseURL: "postgres://localhost:5432/scheduler"
exportDir: "/tmp/exports"
coverageOverrides:
  - rrule: "FREQ=WEEKLY;BYDAY=MO"
    shiftID: "day"
    minEmployees: 2
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "postgres://localhost:5432/scheduler", cfg.DatabaseURL)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	require.Len(t, cfg.CoverageOverrides, 1)
	assert.Equal(t, "day", cfg.CoverageOverrides[0].ShiftID)
	assert.Equal(t, 2, cfg.CoverageOverrides[0].MinEmployees)
}

func TestLoadFromPath_Defaults(t *testing.T) {
	path := writeConfigFile(t, `databaseURL: "postgres://localhost:5432/scheduler"`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, ".", cfg.ExportDir)
}

func TestLoadFromPath_DatabaseURLEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override:5432/other")
	path := writeConfigFile(t, `databaseURL: "postgres://file:5432/scheduler"`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://override:5432/other", cfg.DatabaseURL)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfigFile(t, `
coverageOverrides:
  - rrule: "not an rrule"
    shiftID: "day"
    minEmployees: 1
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_MissingOverrideFields(t *testing.T) {
	path := writeConfigFile(t, `
coverageOverrides:
  - rrule: "FREQ=WEEKLY;BYDAY=MO"
    minEmployees: 1
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromPath_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "serverAddr: [unclosed")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
