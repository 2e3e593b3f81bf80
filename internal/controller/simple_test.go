package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/auditor/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return NewSimpleUI(cmd), &out, &errOut
}

func TestSimpleUI_DisplayFindings_PrintsTable(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	report := m.Report{
		GeneratedAt:   time.Now(),
		FilesAnalyzed: 2,
		Findings: []m.Finding{
			{RuleID: "ScriptFunctionParameterCountRule", Severity: m.SeverityWarning, Message: "too many", FilePath: "pages/a.pmd", Line: 4, Column: 7},
			{RuleID: "PMDSectionOrderingRule", Severity: m.SeverityInfo, Message: "order", FilePath: "pages/b.pmd", Line: 1},
			{RuleID: "ScriptLongBlockRule", Severity: m.SeverityAdvice, Message: "long", FilePath: "pages/b.pmd", Line: 9},
		},
	}

	if err := ui.DisplayFindings(report); err != nil {
		t.Fatalf("DisplayFindings() error = %v", err)
	}

	output := out.String()

	for _, want := range []string{
		"pages/a.pmd:4:7",
		"pages/b.pmd:1",
		"ScriptFunctionParameterCountRule",
		"WARNING",
		"too many",
		"3 findings in 2 files: 1 WARNING, 1 ADVICE, 1 INFO",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayFindings_Empty(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	if err := ui.DisplayFindings(m.Report{FilesAnalyzed: 5}); err != nil {
		t.Fatalf("DisplayFindings() error = %v", err)
	}

	if got := out.String(); got != "No findings in 5 files.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestSimpleUI_DisplayFindings_TruncatesMessages(t *testing.T) {
	ui, out, _ := newTestSimpleUI()
	ui.messageWidth = 10

	report := m.Report{Findings: []m.Finding{
		{RuleID: "R", Severity: m.SeverityError, Message: "abcdefghijklmnopqrstuvwxyz", FilePath: "x.pod", Line: 1},
	}}

	if err := ui.DisplayFindings(report); err != nil {
		t.Fatalf("DisplayFindings() error = %v", err)
	}

	output := out.String()
	if strings.Contains(output, "abcdefghijk") || !strings.Contains(output, "abcdefghi…") {
		t.Fatalf("message not truncated\noutput:\n%s", output)
	}
}

func TestSimpleUI_DisplayRules(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	rules := []m.RuleInfo{
		{ID: "A", Kind: "script", Severity: m.SeverityAdvice, Enabled: true, Description: "first"},
		{ID: "B", Kind: "structure", Severity: m.SeverityInfo, Enabled: false, Description: "second"},
	}

	if err := ui.DisplayRules(rules); err != nil {
		t.Fatalf("DisplayRules() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"first", "second", "structure", "yes", "no", "TOTAL RULES 2"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayIntakeWarning(t *testing.T) {
	ui, out, errOut := newTestSimpleUI()

	ui.DisplayIntakeWarning(errors.Join(errors.New("a.pmd: too large"), errors.New("b.zip: invalid")))
	ui.DisplayIntakeWarning(nil)

	if out.Len() != 0 {
		t.Fatalf("warnings written to stdout: %q", out.String())
	}

	want := "warning: a.pmd: too large\nwarning: b.zip: invalid\n"
	if got := errOut.String(); got != want {
		t.Fatalf("stderr = %q, want %q", got, want)
	}
}

func TestSimpleUI_DisplayRunInfo(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	ui.DisplayRunInfo(3, 6, 2)

	if got := out.String(); got != "Analyzing 3 files with 6 rules (2 workers)\n" {
		t.Fatalf("output = %q", got)
	}
}
