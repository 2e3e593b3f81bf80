package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/auditor/internal/model"
)

// DefaultMessageWidth bounds the message column of plain tables.
const DefaultMessageWidth = 100

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd          *cobra.Command
	messageWidth int
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, messageWidth: DefaultMessageWidth}
}

// Start initializes the UI.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {

}

// Wait returns immediately; plain output needs no interaction.
func (s *SimpleUI) Wait() {

}

// DisplayRunInfo prints what is about to be analysed.
func (s *SimpleUI) DisplayRunInfo(files, rules, threads int) {
	s.printf("Analyzing %d files with %d rules (%d workers)\n", files, rules, threads)
}

// DisplayRules prints the rule table.
func (s *SimpleUI) DisplayRules(rules []m.RuleInfo) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Kind", "Severity", "Enabled", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	enabled := 0

	for _, r := range rules {
		state := "no"
		if r.Enabled {
			state = "yes"
			enabled++
		}

		table.Append([]string{r.ID, r.Kind, severityLabel(r.Severity), state, s.truncate(r.Description)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Rules %d", len(rules)), "", "", fmt.Sprintf("%d", enabled), ""})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayFindings prints the findings table and a per-severity summary.
func (s *SimpleUI) DisplayFindings(report m.Report) error {
	if len(report.Findings) == 0 {
		s.printf("No findings in %d files.\n", report.FilesAnalyzed)
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Severity", "Rule", "Location", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, f := range report.Findings {
		table.Append([]string{severityLabel(f.Severity), f.RuleID, f.Location(), s.truncate(f.Message)})
	}

	table.Render()
	s.printf("\n%s\n%s\n", tableBuffer.String(), summaryLine(report))

	return nil
}

// DisplayIntakeWarning prints every skipped input on the error stream.
func (s *SimpleUI) DisplayIntakeWarning(err error) {
	if err == nil {
		return
	}

	for _, e := range flattenErrors(err) {
		_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "warning: %v\n", e)
	}
}

func (s *SimpleUI) truncate(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if s.messageWidth <= 0 {
		return text
	}

	return runewidth.Truncate(text, s.messageWidth, "…")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

var severityColors = map[m.Severity]*color.Color{
	m.SeverityError:   color.New(color.FgRed, color.Bold),
	m.SeverityWarning: color.New(color.FgYellow),
	m.SeverityAdvice:  color.New(color.FgCyan),
	m.SeverityInfo:    color.New(color.Faint),
}

func severityLabel(sev m.Severity) string {
	if c, ok := severityColors[sev]; ok {
		return c.Sprint(string(sev))
	}

	return string(sev)
}

// summaryLine reads like "3 findings in 2 files: 1 ERROR, 2 ADVICE".
func summaryLine(report m.Report) string {
	counts := report.CountBySeverity()
	parts := make([]string, 0, len(counts))

	for _, sev := range []m.Severity{m.SeverityError, m.SeverityWarning, m.SeverityAdvice, m.SeverityInfo} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}

	line := fmt.Sprintf("%d findings in %d files", len(report.Findings), report.FilesAnalyzed)
	if len(parts) > 0 {
		line += ": " + strings.Join(parts, ", ")
	}

	return line
}

func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}

	joined, ok := err.(interface{ Unwrap() []error }) //nolint:errorlint // only joins are split
	if !ok {
		return []error{err}
	}

	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flattenErrors(e)...)
	}

	return out
}
