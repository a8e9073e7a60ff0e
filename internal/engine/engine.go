package engine

import (
	"context"

	"github.com/opsaudit/stackscan/internal/models"
)

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// ScanOptions configures a single scan run.
// It is the sole input to Engine.RunScan.
type ScanOptions struct {
	// TemplatePath is the template file to scan.
	TemplatePath string

	// ReportFormat controls how the CLI renders the returned report.
	ReportFormat ReportFormat
}

// Engine is the central orchestration interface. It coordinates template
// loading, rule evaluation, and report assembly, returning a fully populated
// ScanReport. Rule evaluation itself is delegated to the scanner; the engine
// never inspects resource properties directly.
type Engine interface {
	RunScan(ctx context.Context, opts ScanOptions) (*models.ScanReport, error)
}
