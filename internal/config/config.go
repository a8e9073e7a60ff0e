package config

// Config is the top-level application configuration.
// It supplies defaults for flags the user does not pass on the command line.
type Config struct {
	// DefaultPolicyPath is used when no --policy flag is provided.
	DefaultPolicyPath string `yaml:"default_policy_path" json:"default_policy_path"`

	Output OutputConfig `yaml:"output" json:"output"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	// Format is the default report format: "table" or "json".
	Format string `yaml:"format" json:"format"`

	// Colored enables ANSI severity colouring in table output.
	Colored bool `yaml:"colored" json:"colored"`
}

// Loader is the interface for reading Config from disk.
// Default implementation reads from ~/.config/stackscan/config.yaml.
type Loader interface {
	// Load reads and parses the configuration file. A missing file is not an
	// error; it yields the zero Config.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}
