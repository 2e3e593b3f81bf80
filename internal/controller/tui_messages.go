package controller

import (
	"fmt"

	m "github.com/mouse-blink/auditor/internal/model"
)

// Message types.
type runInfoMsg struct {
	files   int
	rules   int
	threads int
}

type findingsMsg struct {
	report m.Report
}

type rulesMsg struct {
	rules []m.RuleInfo
}

// List item types.
type findingItem struct {
	finding m.Finding
}

func (f findingItem) FilterValue() string {
	return f.finding.RuleID + " " + string(f.finding.FilePath) + " " + f.finding.Message
}

func (f findingItem) badge() m.Severity { return f.finding.Severity }

func (f findingItem) title() string { return f.finding.Location() }

func (f findingItem) detail() string {
	return fmt.Sprintf("%s: %s", f.finding.RuleID, f.finding.Message)
}

type ruleItem struct {
	rule m.RuleInfo
}

func (r ruleItem) FilterValue() string { return r.rule.ID + " " + r.rule.Description }

func (r ruleItem) badge() m.Severity { return r.rule.Severity }

func (r ruleItem) title() string {
	if r.rule.Enabled {
		return r.rule.ID
	}

	return r.rule.ID + " (disabled)"
}

func (r ruleItem) detail() string { return r.rule.Description }

// row is what the list delegate renders.
type row interface {
	FilterValue() string
	badge() m.Severity
	title() string
	detail() string
}
