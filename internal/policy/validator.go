package policy

import (
	"fmt"
	"strings"
)

// validSeverities is the set of allowed fail_on_severity values
// (upper-case canonical form).
var validSeverities = map[string]struct{}{
	"ERROR":   {},
	"WARNING": {},
}

// Validate checks cfg for semantic correctness and returns all validation
// errors found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - category names must match a category of some registered rule
//   - rule IDs must appear in availableRuleIDs and under their own category
//   - enforcement fail_on_severity must be ERROR or WARNING if set
//
// All errors are collected before returning; Validate never stops at the
// first error. The scanner itself is lenient about unknown keys (they simply
// have no effect); Validate exists so the CLI can lint a policy file.
func Validate(cfg *Config, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	knownCategories := make(map[string]struct{})
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
		knownCategories[Category(id)] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	for name, cat := range cfg.Categories {
		if _, ok := knownCategories[name]; !ok {
			errs = append(errs, fmt.Errorf("categories.%s: unknown category", name))
		}
		for ruleID := range cat.Rules {
			if _, ok := knownIDs[ruleID]; !ok {
				errs = append(errs, fmt.Errorf("categories.%s.rules.%s: unknown rule ID", name, ruleID))
				continue
			}
			if Category(ruleID) != name {
				errs = append(errs, fmt.Errorf("categories.%s.rules.%s: rule belongs to category %s", name, ruleID, Category(ruleID)))
			}
		}
	}

	if cfg.Enforcement.FailOnSeverity != "" {
		upper := strings.ToUpper(cfg.Enforcement.FailOnSeverity)
		if _, ok := validSeverities[upper]; !ok {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_severity: invalid value %q; valid values: ERROR, WARNING", cfg.Enforcement.FailOnSeverity))
		}
	}

	return errs
}
