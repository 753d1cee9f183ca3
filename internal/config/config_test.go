package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"HABITS_CONFIG_PATH",
	"HABITS_STORAGE_BACKEND",
	"HABITS_DATA_FILE",
	"HABITS_REMINDER_INTERVAL",
	"HABITS_REMINDER_ENABLED",
	"HABITS_PROFILE_NAME",
	"HABITS_LOG_LEVEL",
	"HABITS_LOG_FORMAT",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
	testChdir(t, t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, 10*time.Second, cfg.Reminder.Interval.Std())
	assert.True(t, cfg.Reminder.Enabled)
	assert.Empty(t, cfg.Profile.Name)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", `
storage:
  backend: sqlite
  path: /tmp/habits-test.db
reminder:
  interval: 1m30s
  enabled: false
profile:
  name: Ada
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/habits-test.db", cfg.DataPath())
	assert.Equal(t, 90*time.Second, cfg.Reminder.Interval.Std())
	assert.False(t, cfg.Reminder.Enabled)
	assert.Equal(t, "Ada", cfg.Profile.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "custom.yaml", "profile:\n  name: FromEnvPath\n")
	t.Setenv("HABITS_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "FromEnvPath", cfg.Profile.Name)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", "reminder:\n  interval: 5s\nprofile:\n  name: Yaml\n")
	t.Setenv("HABITS_REMINDER_INTERVAL", "2s")
	t.Setenv("HABITS_REMINDER_ENABLED", "0")
	t.Setenv("HABITS_PROFILE_NAME", "Env")
	t.Setenv("HABITS_DATA_FILE", "/tmp/elsewhere.json")
	t.Setenv("HABITS_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Reminder.Interval.Std())
	assert.False(t, cfg.Reminder.Enabled)
	assert.Equal(t, "Env", cfg.Profile.Name)
	assert.Equal(t, "/tmp/elsewhere.json", cfg.DataPath())
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_InvalidEnvDurationIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("HABITS_REMINDER_INTERVAL", "soon")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Reminder.Interval.Std())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".env"), []byte("HABITS_PROFILE_NAME=Dotenv\n"), 0o644))

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Dotenv", cfg.Profile.Name)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "storage:\n  backend: postgres\n"},
		{"zero interval", "reminder:\n  interval: 0s\n"},
		{"negative interval", "reminder:\n  interval: -1s\n"},
		{"unknown log format", "log:\n  format: xml\n"},
		{"bad duration", "reminder:\n  interval: forever\n"},
		{"malformed yaml", "storage: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, "config.yaml", tt.yaml)

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_BackendIsNormalized(t *testing.T) {
	clearEnv(t)
	t.Setenv("HABITS_STORAGE_BACKEND", " SQLite ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestDataPath_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := newDefaults()
	assert.Equal(t, filepath.Join(home, ".habits", DefaultDataFile), cfg.DataPath())

	cfg.Storage.Backend = BackendSQLite
	assert.Equal(t, filepath.Join(home, ".habits", DefaultSQLiteFile), cfg.DataPath())

	cfg.Storage.Path = "~/custom.json"
	assert.Equal(t, filepath.Join(home, "custom.json"), cfg.DataPath())
}

func TestDuration_MarshalYAML(t *testing.T) {
	v, err := Duration(90 * time.Second).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", v)
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, unavailable before Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
