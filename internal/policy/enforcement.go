package policy

import (
	"strings"

	"github.com/opsaudit/stackscan/internal/models"
)

// severityRank orders severities for enforcement threshold comparison.
var severityRank = map[models.Severity]int{
	models.SeverityError:   2,
	models.SeverityWarning: 1,
}

// ShouldFail reports whether any finding has a severity at or above the
// configured fail_on_severity threshold.
//
// It returns false when:
//   - cfg is nil (no policy loaded)
//   - fail_on_severity is empty or an unrecognised value
//   - findings is empty
func ShouldFail(findings []models.Finding, cfg *Config) bool {
	if cfg == nil || cfg.Enforcement.FailOnSeverity == "" {
		return false
	}
	threshold, ok := severityRank[models.Severity(strings.ToUpper(cfg.Enforcement.FailOnSeverity))]
	if !ok {
		return false
	}
	for _, f := range findings {
		if r, ok := severityRank[f.Severity]; ok && r >= threshold {
			return true
		}
	}
	return false
}
