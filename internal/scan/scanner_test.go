package scan

import (
	"reflect"
	"testing"

	"github.com/opsaudit/stackscan/internal/policy"
	"github.com/opsaudit/stackscan/internal/resource"
	"github.com/opsaudit/stackscan/internal/rulepacks/securityhub"
	"github.com/opsaudit/stackscan/internal/rules"
)

func packRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	reg := rules.NewRegistry()
	for _, rule := range securityhub.New() {
		reg.Register(rule)
	}
	return reg
}

func boolPtr(b bool) *bool { return &b }

func TestScannerVisitEmitsFindings(t *testing.T) {
	sink := &CollectingSink{}
	scanner := NewScanner(packRegistry(t), nil, sink)

	scanner.Visit(&resource.S3Bucket{ID: "DataBucket"})

	findings := sink.Findings()
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].RuleID != "S3.4" || findings[0].ResourceID != "DataBucket" {
		t.Errorf("unexpected finding: %+v", findings[0])
	}
}

// A disabled rule produces nothing at all for its nodes.
func TestScannerDisabledRuleSilent(t *testing.T) {
	reg := packRegistry(t)
	cfg := &policy.Config{
		Version: 1,
		Categories: map[string]policy.CategoryConfig{
			"S3": {Rules: map[string]policy.RuleConfig{"S3.4": {Enabled: boolPtr(false)}}},
		},
	}
	sink := &CollectingSink{}
	scanner := NewScanner(reg, policy.NewRuleset(cfg, reg.RuleIDs()), sink)

	scanner.Visit(&resource.S3Bucket{ID: "DataBucket"})
	if len(sink.Findings()) != 0 {
		t.Errorf("disabled rule must emit nothing, got %d findings", len(sink.Findings()))
	}
}

func TestScannerCategoryDisable(t *testing.T) {
	reg := packRegistry(t)
	cfg := &policy.Config{
		Version: 1,
		Categories: map[string]policy.CategoryConfig{
			"RDS": {Enabled: boolPtr(false)},
		},
	}
	sink := &CollectingSink{}
	scanner := NewScanner(reg, policy.NewRuleset(cfg, reg.RuleIDs()), sink)

	scanner.Visit(&resource.RdsInstance{ID: "Database"})
	scanner.Visit(&resource.S3Bucket{ID: "DataBucket"})

	for _, f := range sink.Findings() {
		if f.ResourceID == "Database" {
			t.Fatalf("disabled category still raised %s", f.RuleID)
		}
	}
	if len(sink.Findings()) != 1 {
		t.Errorf("S3 checks must be unaffected, got %d findings", len(sink.Findings()))
	}
}

// Variants with no registered rules are skipped, not an error.
func TestScannerUnrecognizedVariantIgnored(t *testing.T) {
	sink := &CollectingSink{}
	scanner := NewScanner(packRegistry(t), nil, sink)

	scanner.Visit(&resource.S3BucketPolicy{ID: "BucketPolicy"})
	if len(sink.Findings()) != 0 {
		t.Errorf("bucket policy must draw no findings, got %d", len(sink.Findings()))
	}
}

// Two identical declarations under different logical IDs yield identical
// finding sets; evaluation has no cross-node state.
func TestScannerIdempotentAcrossIdenticalNodes(t *testing.T) {
	scanner := func(sink *CollectingSink) *Scanner {
		return NewScanner(packRegistry(t), nil, sink)
	}

	first := &CollectingSink{}
	scanner(first).Visit(&resource.RdsInstance{ID: "DB"})
	second := &CollectingSink{}
	scanner(second).Visit(&resource.RdsInstance{ID: "DB"})

	stripTimes := func(sink *CollectingSink) []string {
		var msgs []string
		for _, f := range sink.Findings() {
			msgs = append(msgs, f.RuleID+"|"+f.ResourceID+"|"+f.Message)
		}
		return msgs
	}
	if !reflect.DeepEqual(stripTimes(first), stripTimes(second)) {
		t.Error("identical nodes must produce identical finding sets")
	}
}

// A two-member cluster draws per-instance findings once per member.
func TestScannerClusterFanOut(t *testing.T) {
	sink := &CollectingSink{}
	scanner := NewScanner(packRegistry(t), nil, sink)

	member := func(id string) *resource.RdsInstance {
		return &resource.RdsInstance{
			ID:                      id,
			Engine:                  resource.Known("aurora-mysql"),
			DBClusterIdentifier:     resource.Known("AuroraCluster"),
			AutoMinorVersionUpgrade: resource.Known(true),
		}
	}
	scanner.VisitAll([]resource.Node{member("WriterInstance"), member("ReaderInstance")})

	monitoring := 0
	for _, f := range sink.Findings() {
		if f.RuleID == "RDS.6" {
			monitoring++
		}
	}
	if monitoring != 2 {
		t.Errorf("want one RDS.6 finding per cluster member, got %d", monitoring)
	}
}
