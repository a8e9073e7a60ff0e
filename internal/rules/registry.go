package rules

import (
	"fmt"

	"github.com/opsaudit/stackscan/internal/resource"
)

// Registry is an ordered, in-memory rule registry indexed by node kind.
// Rules are evaluated in registration order. Register panics on duplicate
// rule IDs to catch wiring mistakes at startup.
type Registry struct {
	rules  []Rule
	index  map[string]struct{}
	byKind map[resource.Kind][]Rule
}

// NewRegistry returns an empty registry ready for rule registration.
func NewRegistry() *Registry {
	return &Registry{
		index:  make(map[string]struct{}),
		byKind: make(map[resource.Kind][]Rule),
	}
}

// Register adds rule under every kind it declares.
// Panics if the same ID is registered twice.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID()))
	}
	r.rules = append(r.rules, rule)
	r.index[rule.ID()] = struct{}{}
	for _, k := range rule.Kinds() {
		r.byKind[k] = append(r.byKind[k], rule)
	}
}

// All returns all registered rules in registration order.
func (r *Registry) All() []Rule {
	return r.rules
}

// RuleIDs returns the IDs of all registered rules in registration order.
func (r *Registry) RuleIDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}

// ForKind returns the rules registered for the given node kind, in
// registration order. A kind with no rules returns nil; the scanner treats
// such nodes as unrecognized and skips them.
func (r *Registry) ForKind(k resource.Kind) []Rule {
	return r.byKind[k]
}
