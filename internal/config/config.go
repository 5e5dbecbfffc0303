// Package config resolves process configuration from defaults, the YAML
// config file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/fieldlog/internal/db"
)

// DefaultListenAddr is where the API server listens when nothing is set.
const DefaultListenAddr = ":8080"

// Config holds process configuration. A non-empty DatabaseURL selects the
// PostgreSQL backend; otherwise the SQLite file at DBPath is used.
type Config struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
	DBPath      string `yaml:"db_path,omitempty"`
	DevMode     bool   `yaml:"dev_mode,omitempty"`
	ListenAddr  string `yaml:"listen_addr,omitempty"`

	// DefaultTechnician preselects the technician for new visits.
	DefaultTechnician int64 `yaml:"default_technician,omitempty"`
}

// DBOptions returns the backend selection for db.Open.
func (c Config) DBOptions() db.Options {
	return db.Options{URL: c.DatabaseURL, Path: c.DBPath}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fl", "config.yaml"), nil
}

// Load returns defaults overlaid with the config file, then the environment.
func Load() (Config, error) {
	cfg, err := ReadFile()
	if err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile reads the config file alone.
// Returns a zero-value config if the file doesn't exist.
func ReadFile() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the config file, readable by the owner only.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("FL_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FL_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("FL_DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing FL_DEV_MODE: %w", err)
		}
		cfg.DevMode = dev
	}
	return nil
}
