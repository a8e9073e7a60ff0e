// Package scan contains the dispatcher that drives rule evaluation over a
// stream of resource nodes supplied by an external traversal.
package scan

import (
	"github.com/opsaudit/stackscan/internal/policy"
	"github.com/opsaudit/stackscan/internal/resource"
	"github.com/opsaudit/stackscan/internal/rules"
)

// Scanner routes each visited node to the rules registered for its kind,
// consulting the resolved policy before every rule. It holds no per-visit
// state: the registry, ruleset, and sink are bound at construction and the
// scanner only reads them, so Visit is safe to call concurrently for
// different nodes.
type Scanner struct {
	registry *rules.Registry
	ruleset  *policy.Ruleset
	sink     Sink
}

// NewScanner binds a registry, a resolved ruleset, and a sink.
// A nil ruleset enables every rule.
func NewScanner(registry *rules.Registry, ruleset *policy.Ruleset, sink Sink) *Scanner {
	if ruleset == nil {
		ruleset = policy.NewRuleset(nil, registry.RuleIDs())
	}
	return &Scanner{registry: registry, ruleset: ruleset, sink: sink}
}

// Visit evaluates every enabled rule registered for the node's kind and
// forwards each finding to the sink. Nodes of kinds with no registered rules
// are ignored; Visit never fails for any input. Malformed property values are
// the rules' concern, not the dispatcher's.
func (s *Scanner) Visit(node resource.Node) {
	for _, rule := range s.registry.ForKind(node.Kind()) {
		if !s.ruleset.Enabled(rule.ID()) {
			continue
		}
		for _, finding := range rule.Evaluate(node) {
			s.sink.Emit(node, finding)
		}
	}
}

// VisitAll visits each node in order.
func (s *Scanner) VisitAll(nodes []resource.Node) {
	for _, node := range nodes {
		s.Visit(node)
	}
}
