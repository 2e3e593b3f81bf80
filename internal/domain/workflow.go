package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"slices"
	"time"

	"github.com/mouse-blink/auditor/internal/adapter"
	"github.com/mouse-blink/auditor/internal/controller"
	m "github.com/mouse-blink/auditor/internal/model"
)

// ErrThresholdExceeded is returned when a run produces a finding at or above
// the configured fail-on severity.
var ErrThresholdExceeded = errors.New("findings at or above fail threshold")

// AnalyzeArgs holds the arguments for one analysis run.
type AnalyzeArgs struct {
	Paths   []m.Path
	Exclude []string // regular expressions matched against file paths
	Config  m.Config
	Threads int
	Reports m.Path
}

// RulesArgs holds the arguments for listing rules.
type RulesArgs struct {
	Config m.Config
}

// ViewArgs holds the arguments for showing a saved report.
type ViewArgs struct {
	Reports m.Path
	FailOn  m.Severity
}

// Workflow composes intake, analysis, storage and presentation.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) error
	Rules(args RulesArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	loader      adapter.DocumentLoader
	reportStore adapter.ReportStore
	ui          controller.UI
	analyzer    Analyzer
	logger      *slog.Logger
}

// NewWorkflow creates a Workflow from its collaborators. A nil logger discards output.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	loader adapter.DocumentLoader,
	reportStore adapter.ReportStore,
	ui controller.UI,
	analyzer Analyzer,
	logger *slog.Logger,
) Workflow {
	if logger == nil {
		logger = discardLogger()
	}

	return &workflow{
		fsAdapter:   fsAdapter,
		loader:      loader,
		reportStore: reportStore,
		ui:          ui,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// Analyze collects files, runs the enabled rules and shows the findings.
// Intake errors end the run only when no file could be read.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) error {
	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return err
	}

	files, err := w.fsAdapter.Get(args.Paths, args.Config.Intake)
	files = filterExcluded(files, exclude)
	if err != nil {
		if len(files) == 0 {
			return fmt.Errorf("get sources: %w", err)
		}

		w.logger.Warn("some inputs were skipped", "error", err)
		w.ui.DisplayIntakeWarning(err)
	}

	project := w.loader.Load(files, args.Config.ApplicationID)
	cache := NewMemoryCache(0)
	rules, _ := Configure(DefaultRules(cache, w.logger), args.Config.Rules, w.logger)

	if err := w.ui.Start(controller.WithAnalyzeMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.ui.Close()

	threads := args.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	w.ui.DisplayRunInfo(len(project.Documents), len(rules), threads)

	findings, err := w.analyzer.Analyze(ctx, project, rules, threads)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	w.logger.Debug("analysis finished",
		"documents", len(project.Documents),
		"findings", len(findings),
		"fragments_parsed", cache.Len())

	report := m.Report{
		GeneratedAt:   time.Now().UTC(),
		FilesAnalyzed: len(project.Documents),
		Findings:      findings,
	}

	if args.Reports != "" {
		if err := w.reportStore.SaveReport(args.Reports, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if err := w.ui.DisplayFindings(report); err != nil {
		return fmt.Errorf("display findings: %w", err)
	}

	w.ui.Wait()

	return checkThreshold(report, args.Config.FailOn)
}

// Rules lists every built-in rule with its effective configuration.
func (w *workflow) Rules(args RulesArgs) error {
	_, infos := Configure(DefaultRules(nil, w.logger), args.Config.Rules, w.logger)

	if err := w.ui.Start(controller.WithListMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayRules(infos); err != nil {
		return fmt.Errorf("display rules: %w", err)
	}

	w.ui.Wait()

	return nil
}

// View shows the last saved report.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.reportStore.LoadReport(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayFindings(report); err != nil {
		return fmt.Errorf("display findings: %w", err)
	}

	w.ui.Wait()

	return checkThreshold(report, args.FailOn)
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

func filterExcluded(files []m.SourceFile, exclude []*regexp.Regexp) []m.SourceFile {
	if len(exclude) == 0 {
		return files
	}

	kept := files[:0:0]

	for _, f := range files {
		if !slices.ContainsFunc(exclude, func(re *regexp.Regexp) bool { return re.MatchString(string(f.Path)) }) {
			kept = append(kept, f)
		}
	}

	return kept
}

func checkThreshold(report m.Report, failOn m.Severity) error {
	if failOn == "" || len(report.Findings) == 0 {
		return nil
	}

	if worst := report.Worst(); worst.AtLeast(failOn) {
		return fmt.Errorf("%w: worst finding is %s (threshold %s)", ErrThresholdExceeded, worst, failOn)
	}

	return nil
}
