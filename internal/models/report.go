package models

import "time"

// ScanSummary aggregates counts across all findings of one scan.
type ScanSummary struct {
	TotalFindings    int `json:"total_findings"`
	ErrorFindings    int `json:"error_findings"`
	WarningFindings  int `json:"warning_findings"`
	ResourcesScanned int `json:"resources_scanned"`
}

// ScanReport is the top-level output of a template scan.
type ScanReport struct {
	ReportID    string      `json:"report_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Template    string      `json:"template"`
	Summary     ScanSummary `json:"summary"`
	Findings    []Finding   `json:"findings"`
	// Metadata carries optional scan-specific key/value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}
