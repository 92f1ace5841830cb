package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"reqwestur/internal/logger"
	"reqwestur/internal/storage"
)

const (
	// DirName is the data directory created under the user's home
	DirName  = ".reqwestur"
	FileName = "config.yaml"
)

// Config is the on-disk configuration
type Config struct {
	DataDir string        `yaml:"-"`
	Storage string        `yaml:"storage"`
	Log     logger.Config `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// HTTPConfig tunes the transport
type HTTPConfig struct {
	// Timeout of zero keeps the transport defaults
	Timeout time.Duration `yaml:"timeout"`

	// MaxResponseSize in bytes; zero keeps the 50MB default
	MaxResponseSize int64 `yaml:"max_response_size"`
}

// Default returns the configuration used when no file exists
func Default(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		Storage: storage.BackendSQLite,
		Log:     logger.DefaultConfig(),
	}
}

// DefaultDir returns ~/.reqwestur
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Load reads dataDir/config.yaml over the defaults. A missing file is not an error.
func Load(dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.DataDir = dataDir

	if cfg.Storage != storage.BackendSQLite && cfg.Storage != storage.BackendJSON {
		return nil, fmt.Errorf("config %q: unknown storage backend %q", path, cfg.Storage)
	}
	if cfg.HTTP.Timeout < 0 {
		return nil, fmt.Errorf("config %q: negative http timeout", path)
	}
	if cfg.HTTP.MaxResponseSize < 0 {
		return nil, fmt.Errorf("config %q: negative http max_response_size", path)
	}
	return cfg, nil
}
