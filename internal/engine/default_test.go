package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/policy"
	"github.com/opsaudit/stackscan/internal/rulepacks/securityhub"
	"github.com/opsaudit/stackscan/internal/rules"
)

const testTemplate = `
Resources:
  DataBucket:
    Type: AWS::S3::Bucket
  AuroraCluster:
    Type: AWS::RDS::DBCluster
    Properties:
      Engine: aurora-mysql
      DeletionProtection: true
      EnableIAMDatabaseAuthentication: true
      EnableCloudwatchLogsExports:
        - audit
        - error
`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stack.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func packRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	reg := rules.NewRegistry()
	for _, rule := range securityhub.New() {
		reg.Register(rule)
	}
	return reg
}

func TestRunScan(t *testing.T) {
	eng := NewDefaultEngine(packRegistry(t), nil)
	report, err := eng.RunScan(context.Background(), ScanOptions{
		TemplatePath: writeTemplate(t, testTemplate),
	})
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}

	if report.ReportID == "" {
		t.Error("report must carry an ID")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("report must carry a timestamp")
	}
	if report.Summary.ResourcesScanned != 2 {
		t.Errorf("resources scanned: got %d; want 2", report.Summary.ResourcesScanned)
	}

	// The bucket has no encryption (S3.4) and the cluster does not copy tags
	// to snapshots (RDS.16).
	want := map[string]models.Severity{
		"S3.4":   models.SeverityError,
		"RDS.16": models.SeverityWarning,
	}
	if len(report.Findings) != len(want) {
		t.Fatalf("want %d findings, got %d: %+v", len(want), len(report.Findings), report.Findings)
	}
	for _, f := range report.Findings {
		sev, ok := want[f.RuleID]
		if !ok {
			t.Errorf("unexpected finding %s", f.RuleID)
			continue
		}
		if f.Severity != sev {
			t.Errorf("%s severity: got %q; want %q", f.RuleID, f.Severity, sev)
		}
	}
	if report.Summary.TotalFindings != 2 || report.Summary.ErrorFindings != 1 || report.Summary.WarningFindings != 1 {
		t.Errorf("summary: %+v", report.Summary)
	}
}

func TestRunScanFindingsSorted(t *testing.T) {
	eng := NewDefaultEngine(packRegistry(t), nil)
	report, err := eng.RunScan(context.Background(), ScanOptions{
		TemplatePath: writeTemplate(t, `
Resources:
  ZBucket:
    Type: AWS::S3::Bucket
  ABucket:
    Type: AWS::S3::Bucket
  Database:
    Type: AWS::RDS::DBInstance
`),
	})
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}
	sorted := sort.SliceIsSorted(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		return a.RuleID < b.RuleID
	})
	if !sorted {
		t.Error("findings must be ordered by resource ID then rule ID")
	}
}

func TestRunScanPolicyApplied(t *testing.T) {
	disabled := false
	cfg := &policy.Config{
		Version: 1,
		Categories: map[string]policy.CategoryConfig{
			"S3": {Enabled: &disabled},
		},
	}
	eng := NewDefaultEngine(packRegistry(t), cfg)
	report, err := eng.RunScan(context.Background(), ScanOptions{
		TemplatePath: writeTemplate(t, "Resources:\n  DataBucket:\n    Type: AWS::S3::Bucket\n"),
	})
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Errorf("disabled category must yield no findings, got %d", len(report.Findings))
	}
}

func TestRunScanMissingTemplate(t *testing.T) {
	eng := NewDefaultEngine(packRegistry(t), nil)
	if _, err := eng.RunScan(context.Background(), ScanOptions{TemplatePath: "/does/not/exist.yaml"}); err == nil {
		t.Error("want error for missing template")
	}
}

func TestRunScanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := NewDefaultEngine(packRegistry(t), nil)
	if _, err := eng.RunScan(ctx, ScanOptions{TemplatePath: "ignored.yaml"}); err == nil {
		t.Error("want error for cancelled context")
	}
}
