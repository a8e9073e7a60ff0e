package policy

import "strings"

// Category returns the category component of a rule ID: everything before the
// first dot, so "RDS.16" belongs to category "RDS". A rule ID without a dot is
// its own category.
func Category(ruleID string) string {
	if i := strings.IndexByte(ruleID, '.'); i >= 0 {
		return ruleID[:i]
	}
	return ruleID
}

// Ruleset is the resolved enable/disable state for a fixed rule catalogue.
// It is built once at scanner construction and is immutable afterwards: every
// registered rule ID maps to a concrete boolean, so rule evaluation never
// consults the raw Config again.
type Ruleset struct {
	enabled map[string]bool
}

// NewRuleset resolves cfg against the registered rule IDs. For each rule the
// gate is, in order: category-level Enabled == false, rule-level
// Enabled == false, otherwise true. A nil cfg enables everything.
func NewRuleset(cfg *Config, ruleIDs []string) *Ruleset {
	rs := &Ruleset{enabled: make(map[string]bool, len(ruleIDs))}
	for _, id := range ruleIDs {
		rs.enabled[id] = resolve(cfg, id)
	}
	return rs
}

// Enabled reports whether the rule may run. Rule IDs that were not part of
// the catalogue at construction default to true.
func (rs *Ruleset) Enabled(ruleID string) bool {
	v, ok := rs.enabled[ruleID]
	if !ok {
		return true
	}
	return v
}

func resolve(cfg *Config, ruleID string) bool {
	if cfg == nil {
		return true
	}
	cat, ok := cfg.Categories[Category(ruleID)]
	if !ok {
		return true
	}
	if cat.Enabled != nil && !*cat.Enabled {
		return false
	}
	rc, ok := cat.Rules[ruleID]
	if !ok {
		return true
	}
	if rc.Enabled != nil && !*rc.Enabled {
		return false
	}
	return true
}
