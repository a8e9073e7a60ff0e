package policy

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads and parses a policy file. Only version 1 is accepted.
// Unknown categories or rule IDs are not rejected here; use Validate to lint
// a policy file against the registered rule set.
func LoadPolicy(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, errors.New("unsupported policy version")
	}

	if cfg.Categories == nil {
		cfg.Categories = make(map[string]CategoryConfig)
	}

	return &cfg, nil
}
