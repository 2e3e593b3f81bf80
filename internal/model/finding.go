// Package model defines the data shared between analysis, storage and output.
package model

import (
	"fmt"
	"strings"
)

// Severity ranks a finding.
type Severity string

// Available severities, lowest first.
const (
	SeverityInfo    Severity = "INFO"
	SeverityAdvice  Severity = "ADVICE"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

var severityRank = map[Severity]int{
	SeverityInfo:    1,
	SeverityAdvice:  2,
	SeverityWarning: 3,
	SeverityError:   4,
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severityRank[sev]; !ok {
		return "", fmt.Errorf("unknown severity %q", s)
	}

	return sev, nil
}

// Rank orders severities; unknown values rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Finding is a single diagnostic produced by a rule.
type Finding struct {
	RuleID   string
	Severity Severity
	Message  string
	FilePath Path
	Line     int // 1-based
	Column   int // 1-based, 0 when unknown
}

// Location formats the finding position as path:line[:column].
func (f Finding) Location() string {
	if f.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", f.FilePath, f.Line, f.Column)
	}

	return fmt.Sprintf("%s:%d", f.FilePath, f.Line)
}

// Less orders findings by file, line, column, then rule.
func (f Finding) Less(other Finding) bool {
	if f.FilePath != other.FilePath {
		return f.FilePath < other.FilePath
	}

	if f.Line != other.Line {
		return f.Line < other.Line
	}

	if f.Column != other.Column {
		return f.Column < other.Column
	}

	return f.RuleID < other.RuleID
}
