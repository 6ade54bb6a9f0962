package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/didudo/didudo/storage"
)

// Backend names accepted in Config.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config selects and locates the persistence backend. It is typically
// loaded from a YAML file by the application's composition root.
type Config struct {
	// Backend is "json" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the data file location.
	Path string `yaml:"path"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// NewBackend constructs the backend the config names.
func (c Config) NewBackend(ctx context.Context) (storage.Backend, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("config: path is required")
	}
	switch c.Backend {
	case BackendJSON, "":
		return storage.NewJSONBackend(c.Path), nil
	case BackendSQLite:
		return storage.NewSQLiteBackend(ctx, c.Path)
	default:
		return nil, fmt.Errorf("config: unknown backend %q", c.Backend)
	}
}
