package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultStorageKey is the slot name the document is stored under
const DefaultStorageKey = "liftlog-workout-store"

type Config struct {
	Data     DataConfig     `yaml:"data"`
	Log      LogConfig      `yaml:"log"`
	Progress ProgressConfig `yaml:"progress"`
}

type DataConfig struct {
	DBPath     string `yaml:"db_path"`
	StorageKey string `yaml:"storage_key"`
	BackupDir  string `yaml:"backup_dir"`
	Seed       bool   `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ProgressConfig struct {
	RecentSessions int `yaml:"recent_sessions"`
}

// Dir returns ~/.liftlog, the home of every default path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".liftlog"), nil
}

// DefaultPath returns the config file location used when none is given
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Data: DataConfig{
			DBPath:     filepath.Join(dir, "liftlog.db"),
			StorageKey: DefaultStorageKey,
			BackupDir:  filepath.Join(dir, "backups"),
			Seed:       true,
		},
		Log:      LogConfig{Level: "warn"},
		Progress: ProgressConfig{RecentSessions: 10},
	}, nil
}

// Load reads config from a YAML file on top of the defaults, then applies
// environment variable overrides. A missing file is not an error.
// An empty path means DefaultPath.
//
//	LIFTLOG_DB_PATH, LIFTLOG_STORAGE_KEY, LIFTLOG_BACKUP_DIR, LIFTLOG_SEED,
//	LIFTLOG_LOG_LEVEL, LIFTLOG_LOG_FILE, LIFTLOG_RECENT_SESSIONS
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_DB_PATH"); v != "" {
		cfg.Data.DBPath = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE_KEY"); v != "" {
		cfg.Data.StorageKey = v
	}
	if v := os.Getenv("LIFTLOG_BACKUP_DIR"); v != "" {
		cfg.Data.BackupDir = v
	}
	if v := os.Getenv("LIFTLOG_SEED"); v != "" {
		if seed, err := strconv.ParseBool(v); err == nil {
			cfg.Data.Seed = seed
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LIFTLOG_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("LIFTLOG_RECENT_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Progress.RecentSessions = n
		}
	}
}

func (c *Config) validate() error {
	if c.Data.DBPath == "" {
		return fmt.Errorf("data.db_path is required")
	}
	if c.Data.StorageKey == "" {
		return fmt.Errorf("data.storage_key is required")
	}
	if c.Progress.RecentSessions < 1 || c.Progress.RecentSessions > 100 {
		return fmt.Errorf("progress.recent_sessions must be between 1 and 100, got %d", c.Progress.RecentSessions)
	}
	return nil
}
