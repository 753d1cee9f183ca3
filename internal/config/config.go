package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	DefaultDataFile   = "habits-data.json"
	DefaultSQLiteFile = "habits.db"
	appDir            = ".habits"
)

// Config is the root configuration structure. It is read-only after Load returns.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Reminder ReminderConfig `yaml:"reminder"`
	Profile  ProfileConfig  `yaml:"profile"`
	Log      LogConfig      `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path overrides the backend's default file location.
	Path string `yaml:"path"`
}

type ReminderConfig struct {
	Interval Duration `yaml:"interval"`
	Enabled  bool     `yaml:"enabled"`
}

type ProfileConfig struct {
	Name string `yaml:"name"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load builds the configuration with precedence:
// defaults → .env → YAML file → env vars.
// An empty path falls back to HABITS_CONFIG_PATH, then $HOME/.habits/config.yaml.
// A missing YAML or .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := newDefaults()

	if path == "" {
		path = getEnv("HABITS_CONFIG_PATH", defaultConfigPath())
	}

	if err := loadYAMLFile(cfg, path); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newDefaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
		},
		Reminder: ReminderConfig{
			Interval: Duration(10 * time.Second),
			Enabled:  true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HABITS_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("HABITS_DATA_FILE"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("HABITS_REMINDER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Reminder.Interval = Duration(d)
		}
	}
	if v := os.Getenv("HABITS_REMINDER_ENABLED"); v != "" {
		cfg.Reminder.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("HABITS_PROFILE_NAME"); v != "" {
		cfg.Profile.Name = v
	}

	if v := os.Getenv("HABITS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HABITS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func (c *Config) validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendJSON, BackendSQLite)
	}

	if c.Reminder.Interval.Std() <= 0 {
		return errors.New("reminder.interval must be positive")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// DataPath returns the storage file, falling back to a per-backend default
// under the user's home directory.
func (c *Config) DataPath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}

	name := DefaultDataFile
	if c.Storage.Backend == BackendSQLite {
		name = DefaultSQLiteFile
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return name
	}
	return filepath.Join(home, appDir, name)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "config.yaml"
	}
	return filepath.Join(home, appDir, "config.yaml")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
