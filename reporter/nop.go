package reporter

import "go-portprobe/models"

// Nop discards everything.
type Nop struct{}

// Start does nothing.
func (Nop) Start(models.ScanTarget) {}

// Result does nothing.
func (Nop) Result(models.ProbeResult) {}

// Summary does nothing.
func (Nop) Summary(models.ScanSummary) {}

// Failure does nothing.
func (Nop) Failure(error) {}
