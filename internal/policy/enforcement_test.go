package policy

import (
	"testing"

	"github.com/opsaudit/stackscan/internal/models"
)

func TestShouldFailNilConfig(t *testing.T) {
	findings := []models.Finding{{Severity: models.SeverityError}}
	if ShouldFail(findings, nil) {
		t.Error("nil config must never fail the run")
	}
}

func TestShouldFailNoEnforcement(t *testing.T) {
	cfg := &Config{Version: 1}
	findings := []models.Finding{{Severity: models.SeverityError}}
	if ShouldFail(findings, cfg) {
		t.Error("empty fail_on_severity must never fail the run")
	}
}

func TestShouldFailErrorThreshold(t *testing.T) {
	cfg := &Config{Version: 1, Enforcement: EnforcementConfig{FailOnSeverity: "error"}}

	if ShouldFail([]models.Finding{{Severity: models.SeverityWarning}}, cfg) {
		t.Error("warnings must not trip an ERROR threshold")
	}
	if !ShouldFail([]models.Finding{{Severity: models.SeverityError}}, cfg) {
		t.Error("errors must trip an ERROR threshold")
	}
}

func TestShouldFailWarningThreshold(t *testing.T) {
	cfg := &Config{Version: 1, Enforcement: EnforcementConfig{FailOnSeverity: "warning"}}

	if !ShouldFail([]models.Finding{{Severity: models.SeverityWarning}}, cfg) {
		t.Error("warnings must trip a WARNING threshold")
	}
	if !ShouldFail([]models.Finding{{Severity: models.SeverityError}}, cfg) {
		t.Error("errors must trip a WARNING threshold")
	}
	if ShouldFail(nil, cfg) {
		t.Error("no findings must never fail the run")
	}
}

func TestShouldFailUnknownThreshold(t *testing.T) {
	cfg := &Config{Version: 1, Enforcement: EnforcementConfig{FailOnSeverity: "fatal"}}
	if ShouldFail([]models.Finding{{Severity: models.SeverityError}}, cfg) {
		t.Error("unrecognised threshold must never fail the run")
	}
}
