package scan

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

// Sink receives every finding the scanner produces, in emission order.
// There is no buffering and no deduplication: each failing check produces
// exactly one Emit call, even across repeated visits of identical nodes.
type Sink interface {
	Emit(node resource.Node, finding models.Finding)
}

// CollectingSink is the default in-process sink; it appends findings to a
// slice for report assembly.
type CollectingSink struct {
	findings []models.Finding
}

// Emit implements Sink.
func (s *CollectingSink) Emit(_ resource.Node, finding models.Finding) {
	s.findings = append(s.findings, finding)
}

// Findings returns the collected findings in emission order.
func (s *CollectingSink) Findings() []models.Finding {
	return s.findings
}
