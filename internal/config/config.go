package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appDirName = "wrangle"

type Config struct {
	DatabasePath string             `yaml:"database_path"`
	Log          LogConfig          `yaml:"log"`
	Calendar     CalendarConfig     `yaml:"calendar"`
	Notification NotificationConfig `yaml:"notifications"`
	Defaults     DefaultsConfig     `yaml:"defaults"`
	UI           UIConfig           `yaml:"ui"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type CalendarConfig struct {
	Enabled bool `yaml:"enabled"`
	// CalendarName selects the external calendar by display name; empty means
	// the account's primary calendar.
	CalendarName   string `yaml:"calendar_name"`
	CredentialsDir string `yaml:"credentials_dir"`
}

type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DefaultsConfig struct {
	ReminderMinutes int `yaml:"reminder_minutes"`
}

type UIConfig struct {
	DayStartHour int `yaml:"day_start_hour"`
	DayEndHour   int `yaml:"day_end_hour"`
}

// Dir returns the per-user config directory (~/.config/wrangle).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// Load reads config.yaml from the config dir, falling back to defaults when
// the file does not exist.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

func LoadFile(path string) (Config, error) {
	cfg := defaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyFallbacks(cfg)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return applyFallbacks(cfg)
}

func defaultConfig() Config {
	return Config{
		Log:          LogConfig{Level: "info"},
		Notification: NotificationConfig{Enabled: true},
		Defaults:     DefaultsConfig{ReminderMinutes: 15},
		UI:           UIConfig{DayStartHour: 6, DayEndHour: 22},
	}
}

func applyFallbacks(cfg Config) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(dir, "wrangle.db")
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = filepath.Join(dir, "wrangle.log")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Calendar.CredentialsDir == "" {
		cfg.Calendar.CredentialsDir = dir
	}
	if cfg.Defaults.ReminderMinutes < 0 {
		return Config{}, fmt.Errorf("config: reminder_minutes must be >= 0, got %d", cfg.Defaults.ReminderMinutes)
	}
	if cfg.UI.DayStartHour < 0 || cfg.UI.DayEndHour > 24 || cfg.UI.DayStartHour >= cfg.UI.DayEndHour {
		return Config{}, fmt.Errorf("config: invalid day bounds %d-%d", cfg.UI.DayStartHour, cfg.UI.DayEndHour)
	}
	return cfg, nil
}

// EnsureDirs creates the directories the config points at so first run does
// not fail on a missing ~/.config/wrangle.
func EnsureDirs(cfg Config) error {
	for _, p := range []string{cfg.DatabasePath, cfg.Log.Path} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", p, err)
		}
	}
	return nil
}
