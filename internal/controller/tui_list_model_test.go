package controller

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/auditor/internal/model"
)

func TestAnimateScroll_Edges(t *testing.T) {
	if got := animateScroll("hello", 0, 0); got != "" {
		t.Fatalf("animateScroll width 0 = %q, want empty", got)
	}

	if got := animateScroll("hi", 5, 0); got != "hi" {
		t.Fatalf("animateScroll short text = %q, want hi", got)
	}

	if got := animateScroll("abcdef", 3, 0); got != "ab…" {
		t.Fatalf("animateScroll pause = %q, want ab…", got)
	}

	got := animateScroll("abcdef", 3, 10)
	if got == "ab…" || len([]rune(got)) != 3 {
		t.Fatalf("animateScroll scrolled = %q, want len 3 and not truncated", got)
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("hello", 0); got != "" {
		t.Fatalf("truncateToWidth width 0 = %q, want empty", got)
	}

	if got := truncateToWidth("hello", 10); got != "hello" {
		t.Fatalf("truncateToWidth no truncation = %q", got)
	}

	if got := truncateToWidth("hello", 1); got != "…" {
		t.Fatalf("truncateToWidth width 1 = %q, want ellipsis", got)
	}

	if got := truncateToWidth("hello", 2); got != "h…" {
		t.Fatalf("truncateToWidth width 2 = %q, want h…", got)
	}
}

func sampleReport() m.Report {
	return m.Report{
		FilesAnalyzed: 2,
		Findings: []m.Finding{
			{RuleID: "ScriptLongBlockRule", Severity: m.SeverityAdvice, Message: "long block", FilePath: "a.pmd", Line: 2},
			{RuleID: "HardcodedWidRule", Severity: m.SeverityWarning, Message: "wid", FilePath: "b.pod", Line: 7, Column: 3},
		},
	}
}

func TestListModel_Lifecycle(t *testing.T) {
	model := newListModel("Auditor Findings")

	if got := model.View(); got != "Loading…\n" {
		t.Fatalf("View() before render = %q", got)
	}

	cmd := model.Init()
	if cmd == nil {
		t.Fatalf("Init() returned nil")
	}

	if _, ok := cmd().(tickMsg); !ok {
		t.Fatalf("Init() cmd did not return tickMsg")
	}

	updated, _ := model.Update(runInfoMsg{files: 2, rules: 6, threads: 1})
	model = updated.(listModel)

	if got := model.View(); !strings.Contains(got, "Analyzing 2 files with 6 rules") {
		t.Fatalf("View() during run = %q", got)
	}

	updated, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model = updated.(listModel)

	updated, _ = model.Update(findingsMsg{report: sampleReport()})
	model = updated.(listModel)

	if !model.rendered || model.lastSelected != 0 {
		t.Fatalf("findings not applied: rendered=%v lastSelected=%d", model.rendered, model.lastSelected)
	}

	view := model.View()
	for _, want := range []string{"Auditor Findings", "2 findings in 2 files", "a.pmd:2", "q quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q\n%s", want, view)
		}
	}

	updated, cmd = model.Update(tickMsg(time.Now()))
	model = updated.(listModel)

	if cmd == nil || model.animOffset != 1 {
		t.Fatalf("tick did not advance animation: offset=%d", model.animOffset)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(listModel)

	if model.lastSelected != 1 || model.animOffset != 0 {
		t.Fatalf("selection change: lastSelected=%d animOffset=%d", model.lastSelected, model.animOffset)
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q did not quit")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q returned %T, want tea.QuitMsg", cmd())
	}
}

func TestListModel_Fits(t *testing.T) {
	model := newListModel("t").withFindings(sampleReport())

	if model.fits() {
		t.Fatalf("fits() = true without a known height")
	}

	model.height = 2 + staticChrome
	if !model.fits() {
		t.Fatalf("fits() = false with room for every row")
	}

	model.height = 1 + staticChrome
	if model.fits() {
		t.Fatalf("fits() = true with one row too few")
	}
}

func TestListModel_WithRules(t *testing.T) {
	model := newListModel("Rules").withRules([]m.RuleInfo{
		{ID: "A", Enabled: true, Severity: m.SeverityInfo},
		{ID: "B", Enabled: false, Severity: m.SeverityError},
	})

	if model.summary != "2 rules, 1 enabled" {
		t.Fatalf("summary = %q", model.summary)
	}

	if got := len(model.rows.Items()); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
}

func TestFindingItem_FilterValue(t *testing.T) {
	item := findingItem{finding: m.Finding{RuleID: "R", FilePath: "p.pmd", Message: "msg", Line: 1}}

	if got := item.FilterValue(); got != "R p.pmd msg" {
		t.Fatalf("FilterValue() = %q", got)
	}

	if got := item.title(); got != "p.pmd:1" {
		t.Fatalf("title() = %q", got)
	}
}
