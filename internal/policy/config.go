package policy

// Config is the scan policy file. Every gate defaults to enabled: a missing
// category, a missing rule key, or a nil Enabled all resolve to true, so an
// empty (or absent) policy file runs the full rule catalogue.
type Config struct {
	Version    int                       `yaml:"version"`
	Categories map[string]CategoryConfig `yaml:"categories"`
	// Enforcement controls the CLI exit code after a scan.
	Enforcement EnforcementConfig `yaml:"enforcement"`
}

// CategoryConfig gates one rule category (e.g. "RDS") and its individual rules.
type CategoryConfig struct {
	// Enabled disables the whole category when explicitly false.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Rules maps rule IDs (e.g. "RDS.3") to per-rule gates.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`
}

// RuleConfig gates a single rule.
type RuleConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// EnforcementConfig makes the CLI exit non-zero when findings at or above
// FailOnSeverity are present. Empty means never fail the process.
type EnforcementConfig struct {
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}
