package controller

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/mouse-blink/auditor/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. Results that
// fit the terminal are printed once instead.
type TUI struct {
	output  io.Writer
	mode    StartMode
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start records the mode; the program itself starts on first display.
func (t *TUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options)
	t.mode = cfg.mode

	return nil
}

// Close stops a running program and waits for it to exit.
func (t *TUI) Close() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user leaves the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// DisplayRunInfo shows progress while an interactive program is running.
func (t *TUI) DisplayRunInfo(files, rules, threads int) {
	if !t.send(runInfoMsg{files: files, rules: rules, threads: threads}) {
		_, _ = fmt.Fprintf(t.output, "Analyzing %d files with %d rules (%d workers)\n", files, rules, threads)
	}
}

// DisplayRules shows the rule list.
func (t *TUI) DisplayRules(rules []m.RuleInfo) error {
	model := newListModel("Auditor Rules").withRules(rules)

	return t.present(model)
}

// DisplayFindings shows the findings of a report.
func (t *TUI) DisplayFindings(report m.Report) error {
	title := "Auditor Findings"
	if t.mode == ModeView && !report.GeneratedAt.IsZero() {
		title = fmt.Sprintf("Auditor Findings (saved %s)", report.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}

	if len(report.Findings) == 0 {
		_, err := fmt.Fprintf(t.output, "No findings in %d files.\n", report.FilesAnalyzed)
		return err
	}

	return t.present(newListModel(title).withFindings(report))
}

// DisplayIntakeWarning prints skipped inputs before any program starts.
func (t *TUI) DisplayIntakeWarning(err error) {
	for _, e := range flattenErrors(err) {
		_, _ = fmt.Fprintf(t.output, "warning: %v\n", e)
	}
}

func (t *TUI) present(model listModel) error {
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	if model.height == 0 || model.fits() {
		_, err := fmt.Fprint(t.output, model.renderStatic())
		return err
	}

	return t.startWithModel(model)
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	done := make(chan struct{})

	t.program = program
	t.done = done
	t.started = true

	go func() {
		defer close(done)

		_, _ = program.Run()
	}()

	return nil
}

// send delivers msg to a running program and reports whether there was one.
func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}
