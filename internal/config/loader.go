package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultLoader reads the config file from the user's config directory.
type DefaultLoader struct {
	// path overrides the default location when non-empty (used by tests).
	path string
}

// NewDefaultLoader returns a loader bound to ~/.config/stackscan/config.yaml.
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{}
}

// NewLoaderWithPath returns a loader bound to an explicit file path.
func NewLoaderWithPath(path string) *DefaultLoader {
	return &DefaultLoader{path: path}
}

// ConfigPath implements Loader.
func (l *DefaultLoader) ConfigPath() string {
	if l.path != "" {
		return l.path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stackscan", "config.yaml")
}

// Load implements Loader. A missing file yields the zero Config.
func (l *DefaultLoader) Load() (*Config, error) {
	path := l.ConfigPath()
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
