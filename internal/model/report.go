package model

import "time"

// Report is the outcome of one analysis run.
type Report struct {
	GeneratedAt   time.Time
	FilesAnalyzed int
	Findings      []Finding
}

// CountBySeverity tallies findings per severity.
func (r Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}

	return counts
}

// Worst returns the highest severity present, or "" for an empty report.
func (r Report) Worst() Severity {
	var worst Severity

	for _, f := range r.Findings {
		if f.Severity.Rank() > worst.Rank() {
			worst = f.Severity
		}
	}

	return worst
}
