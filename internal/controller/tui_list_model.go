package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/auditor/internal/model"
)

type tickMsg time.Time

const badgeWidth = 9

var badgeColors = map[m.Severity]lipgloss.Color{
	m.SeverityError:   lipgloss.Color("9"),
	m.SeverityWarning: lipgloss.Color("11"),
	m.SeverityAdvice:  lipgloss.Color("14"),
	m.SeverityInfo:    lipgloss.Color("8"),
}

// rowDelegate renders one row: severity badge, title, detail.
type rowDelegate struct {
	offset int
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}

	selected := index == lm.Index()
	width := lm.Width() - badgeWidth - 2

	_, _ = fmt.Fprint(w, renderRow(r, width, selected, d.offset))
}

func renderRow(r row, width int, selected bool, offset int) string {
	badgeStyle := lipgloss.NewStyle().
		Foreground(badgeColor(r.badge())).
		Bold(true).
		Width(badgeWidth)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	text := r.title() + "  " + r.detail()

	if selected {
		badgeStyle = badgeStyle.Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0"))
		textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		text = animateScroll(text, width, offset)
	} else {
		text = truncateToWidth(text, width)
	}

	return fmt.Sprintf("%s  %s", badgeStyle.Render(string(r.badge())), textStyle.Render(text))
}

func badgeColor(sev m.Severity) lipgloss.Color {
	if c, ok := badgeColors[sev]; ok {
		return c
	}

	return lipgloss.Color("7")
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// listModel shows findings or rules in a filterable list.
type listModel struct {
	width        int
	height       int
	title        string
	summary      string
	status       string
	rows         list.Model
	delegate     rowDelegate
	rendered     bool
	animOffset   int
	lastSelected int
}

func newListModel(title string) listModel {
	delegate := rowDelegate{}
	rows := list.New([]list.Item{}, delegate, 80, 20)
	rows.SetShowPagination(false)
	rows.SetShowFilter(true)
	rows.SetShowHelp(false)
	rows.SetShowTitle(false)
	rows.SetShowStatusBar(false)
	rows.FilterInput.Placeholder = "Filter by rule, path or message…"

	return listModel{
		title:        title,
		rows:         rows,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (lm listModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (lm listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lm.width = msg.Width
		lm.height = msg.Height
		lm.rows.SetWidth(lm.width)

	case tickMsg:
		if lm.rows.FilterState() != list.Filtering && lm.rendered {
			lm.animOffset++
			lm.delegate.offset = lm.animOffset
			lm.rows.SetDelegate(lm.delegate)
		}

		return lm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if lm.rows.FilterState() != list.Filtering || msg.String() == "ctrl+c" {
				return lm, tea.Quit
			}
		}

		lm.rows, cmd = lm.rows.Update(msg)

		// Reset the scroll animation when the selection moves.
		if lm.rows.Index() != lm.lastSelected {
			lm.lastSelected = lm.rows.Index()
			lm.animOffset = 0
			lm.delegate.offset = 0
			lm.rows.SetDelegate(lm.delegate)
		}

		return lm, cmd

	case runInfoMsg:
		lm.status = fmt.Sprintf("Analyzing %d files with %d rules (%d workers)…", msg.files, msg.rules, msg.threads)

	case findingsMsg:
		lm = lm.withFindings(msg.report)

	case rulesMsg:
		lm = lm.withRules(msg.rules)
	}

	return lm, cmd
}

func (lm listModel) withFindings(report m.Report) listModel {
	items := make([]list.Item, 0, len(report.Findings))
	for _, f := range report.Findings {
		items = append(items, findingItem{finding: f})
	}

	lm.summary = summaryLine(report)

	return lm.withItems(items)
}

func (lm listModel) withRules(rules []m.RuleInfo) listModel {
	items := make([]list.Item, 0, len(rules))
	enabled := 0

	for _, r := range rules {
		items = append(items, ruleItem{rule: r})

		if r.Enabled {
			enabled++
		}
	}

	lm.summary = fmt.Sprintf("%d rules, %d enabled", len(rules), enabled)

	return lm.withItems(items)
}

func (lm listModel) withItems(items []list.Item) listModel {
	lm.rows.SetItems(items)
	lm.rendered = true
	lm.status = ""

	if len(items) > 0 && lm.lastSelected == -1 {
		lm.lastSelected = 0
	}

	return lm
}

// fits reports whether every row can be shown without scrolling.
func (lm listModel) fits() bool {
	return lm.height > 0 && len(lm.rows.Items())+staticChrome <= lm.height
}

// Lines used around the rows by renderStatic.
const staticChrome = 5

func (lm listModel) header() (string, string) {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	return titleStyle.Render(lm.title), summaryStyle.Render(lm.summary)
}

// renderStatic prints every row once, for output that needs no interaction.
func (lm listModel) renderStatic() string {
	title, summary := lm.header()

	width := lm.width
	if width <= 0 {
		width = 120
	}

	var b strings.Builder

	b.WriteString(title + "\n" + summary + "\n")

	for _, item := range lm.rows.Items() {
		if r, ok := item.(row); ok {
			b.WriteString("  " + renderRow(r, width-badgeWidth-6, false, 0) + "\n")
		}
	}

	return b.String()
}

func (lm listModel) View() string {
	if !lm.rendered {
		if lm.status != "" {
			return lm.status + "\n"
		}

		return "Loading…\n"
	}

	title, summary := lm.header()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(lm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		lm.renderTable(),
		footer,
	)
}

func (lm listModel) renderTable() string {
	listHeight := max(lm.height-9, 5)
	listWidth := lm.width - 6

	lm.rows.SetHeight(listHeight)
	lm.rows.SetWidth(listWidth)

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(lm.rows.View())
}
