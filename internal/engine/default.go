package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/policy"
	"github.com/opsaudit/stackscan/internal/rules"
	"github.com/opsaudit/stackscan/internal/scan"
	"github.com/opsaudit/stackscan/internal/template"
)

// DefaultEngine runs compliance scans over template files. The registry and
// policy are bound at construction; each RunScan resolves the policy into a
// concrete ruleset once and holds no state across runs.
type DefaultEngine struct {
	registry *rules.Registry
	policy   *policy.Config
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied rule
// registry and (possibly nil) policy configuration.
func NewDefaultEngine(registry *rules.Registry, policyCfg *policy.Config) *DefaultEngine {
	return &DefaultEngine{
		registry: registry,
		policy:   policyCfg,
	}
}

// RunScan implements Engine.
func (e *DefaultEngine) RunScan(ctx context.Context, opts ScanOptions) (*models.ScanReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes, err := template.Load(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", opts.TemplatePath, err)
	}

	ruleset := policy.NewRuleset(e.policy, e.registry.RuleIDs())
	sink := &scan.CollectingSink{}
	scanner := scan.NewScanner(e.registry, ruleset, sink)
	scanner.VisitAll(nodes)

	findings := sink.Findings()
	sortFindings(findings)

	return &models.ScanReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Template:    opts.TemplatePath,
		Summary:     computeSummary(findings, len(nodes)),
		Findings:    findings,
	}, nil
}

// sortFindings orders findings by resource, then rule ID, so report output
// is stable regardless of registration order changes.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].ResourceID != findings[j].ResourceID {
			return findings[i].ResourceID < findings[j].ResourceID
		}
		return findings[i].RuleID < findings[j].RuleID
	})
}

// computeSummary aggregates severity counts across findings.
func computeSummary(findings []models.Finding, resources int) models.ScanSummary {
	s := models.ScanSummary{
		TotalFindings:    len(findings),
		ResourcesScanned: resources,
	}
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityError:
			s.ErrorFindings++
		case models.SeverityWarning:
			s.WarningFindings++
		}
	}
	return s
}
