package domain

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	m "github.com/mouse-blink/auditor/internal/model"
)

// Analyzer runs rules over the documents of a project.
type Analyzer interface {
	Analyze(ctx context.Context, project *m.ProjectContext, rules []Rule, threads int) ([]m.Finding, error)
}

type analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger discards output.
func NewAnalyzer(logger *slog.Logger) Analyzer {
	if logger == nil {
		logger = discardLogger()
	}

	return &analyzer{logger: logger}
}

// Analyze processes documents in parallel, at most threads at a time, and
// returns every finding sorted by file, line, column and rule. A panicking
// rule loses its findings for that document only.
func (a *analyzer) Analyze(ctx context.Context, project *m.ProjectContext, rules []Rule, threads int) ([]m.Finding, error) {
	if project == nil {
		return nil, nil
	}

	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Applies(project) {
			active = append(active, r)
		}
	}

	var (
		mu       sync.Mutex
		findings []m.Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for _, doc := range project.Sorted() {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var local []m.Finding
			for _, rule := range active {
				local = append(local, a.run(rule, doc, project)...)
			}

			mu.Lock()
			findings = append(findings, local...)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	slices.SortStableFunc(findings, func(x, y m.Finding) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		}

		return 0
	})

	return findings, nil
}

func (a *analyzer) run(rule Rule, doc *m.Document, project *m.ProjectContext) (out []m.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Warn("rule failed", "rule", rule.ID(), "path", doc.Path, "panic", rec)
			out = nil
		}
	}()

	for f := range rule.Run(doc, project) {
		out = append(out, f)
	}

	return out
}
