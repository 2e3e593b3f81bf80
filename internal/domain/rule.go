// Package domain contains the rule framework and the analysis workflow.
package domain

import (
	"iter"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/mouse-blink/auditor/internal/domain/detectors"
	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// RuleKind tells script rules from structure rules.
type RuleKind int

// Available RuleKind values.
const (
	ScriptKind RuleKind = iota
	StructureKind
)

func (k RuleKind) String() string {
	if k == ScriptKind {
		return "script"
	}

	return "structure"
}

// Rule is a named diagnostic. Settings and severity are applied once before
// any Run; Run must not change the rule afterwards so one rule can serve
// several documents at the same time.
type Rule interface {
	ID() string
	Describe() string
	Kind() RuleKind
	Severity() m.Severity
	Applies(project *m.ProjectContext) bool
	SetSeverity(severity m.Severity)
	ApplySettings(settings m.RuleSettings)
	Run(doc *m.Document, project *m.ProjectContext) iter.Seq[m.Finding]
}

// RuleOption configures a rule at construction.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	cache          ASTCache
	logger         *slog.Logger
	kinds          []m.DocumentKind
	gate           func(*m.ProjectContext) bool
	skipStandalone bool
}

// WithCache shares parsed fragments between script rules.
func WithCache(cache ASTCache) RuleOption {
	return func(c *ruleConfig) {
		c.cache = cache
	}
}

// WithLogger sets the logger used for skipped fragments.
func WithLogger(logger *slog.Logger) RuleOption {
	return func(c *ruleConfig) {
		c.logger = logger
	}
}

// ForKinds limits a rule to the given document kinds.
func ForKinds(kinds ...m.DocumentKind) RuleOption {
	return func(c *ruleConfig) {
		c.kinds = kinds
	}
}

// When runs the rule only for projects accepted by gate.
func When(gate func(*m.ProjectContext) bool) RuleOption {
	return func(c *ruleConfig) {
		c.gate = gate
	}
}

// SkipStandalone keeps a script rule away from standalone script files.
func SkipStandalone() RuleOption {
	return func(c *ruleConfig) {
		c.skipStandalone = true
	}
}

func newRuleConfig(opts []RuleOption) ruleConfig {
	var c ruleConfig
	for _, opt := range opts {
		opt(&c)
	}

	if c.logger == nil {
		c.logger = discardLogger()
	}

	return c
}

func (c ruleConfig) accepts(kind m.DocumentKind) bool {
	return len(c.kinds) == 0 || slices.Contains(c.kinds, kind)
}

type baseRule struct {
	id          string
	description string
	severity    m.Severity
	ruleConfig
}

func (r *baseRule) ID() string                 { return r.id }
func (r *baseRule) Describe() string           { return r.description }
func (r *baseRule) Severity() m.Severity       { return r.severity }
func (r *baseRule) SetSeverity(sev m.Severity) { r.severity = sev }

// Applies reports whether the rule has anything to check in project.
func (r *baseRule) Applies(project *m.ProjectContext) bool {
	return r.gate == nil || r.gate(project)
}

func (r *baseRule) finding(doc *m.Document, v detectors.Violation) m.Finding {
	return m.Finding{
		RuleID:   r.id,
		Severity: r.severity,
		Message:  v.Message,
		FilePath: doc.Path,
		Line:     max(v.Line, 1),
		Column:   v.Column,
	}
}

// ScriptRule runs a ScriptDetector over every script fragment of a document.
type ScriptRule struct {
	baseRule
	detector detectors.ScriptDetector
}

// NewScriptRule constructs a ScriptRule.
func NewScriptRule(id, description string, severity m.Severity, detector detectors.ScriptDetector, opts ...RuleOption) *ScriptRule {
	r := &ScriptRule{
		baseRule: baseRule{id: id, description: description, severity: severity, ruleConfig: newRuleConfig(opts)},
		detector: detector,
	}

	if r.cache == nil {
		r.cache = NewMemoryCache(0)
	}

	return r
}

// Kind returns ScriptKind.
func (r *ScriptRule) Kind() RuleKind { return ScriptKind }

// ApplySettings configures the detector.
func (r *ScriptRule) ApplySettings(settings m.RuleSettings) {
	r.detector.Configure(settings)
}

// Run parses each fragment through the cache and converts detector
// violations into findings. A fragment that cannot be parsed is skipped, and
// violations covered by an auditor:ignore comment are dropped.
func (r *ScriptRule) Run(doc *m.Document, project *m.ProjectContext) iter.Seq[m.Finding] {
	return func(yield func(m.Finding) bool) {
		if !r.Applies(project) || !r.accepts(doc.Kind) || (r.skipStandalone && doc.Kind == m.KindScript) {
			return
		}

		for frag := range Fragments(doc) {
			prog, err := r.cache.Parse(doc.Path, frag.Code)
			if err != nil {
				r.logger.Debug("skipping unparsable script",
					"rule", r.id, "path", doc.Path, "field", frag.Field, "line", frag.Line, "error", err)

				continue
			}

			ignored := buildIgnoreIndex(frag)

			for _, v := range r.detector.Detect(prog, frag) {
				if ignored.suppresses(r.id, v.Line) {
					continue
				}

				if !yield(r.finding(doc, v)) {
					return
				}
			}
		}
	}
}

// Fragments yields the script fragments of a document: the whole file for a
// standalone script, and every string value holding <% %> otherwise.
func Fragments(doc *m.Document) iter.Seq[script.Fragment] {
	return func(yield func(script.Fragment) bool) {
		if doc.Kind == m.KindScript {
			name := filepath.Base(string(doc.Path))
			yield(script.NewFragment(doc.Source, name, 1))

			return
		}

		if doc.Tree == nil || doc.Tree.Root == nil {
			return
		}

		walkFragments(doc.Tree.Root, "", yield)
	}
}

func walkFragments(v *keytree.Value, field string, yield func(script.Fragment) bool) bool {
	switch v.Kind {
	case keytree.Object:
		for _, member := range v.Members {
			if !walkFragments(member.Value, member.Key, yield) {
				return false
			}
		}
	case keytree.Array:
		for _, item := range v.Items {
			if !walkFragments(item, field, yield) {
				return false
			}
		}
	case keytree.Scalar:
		if v.Type != keytree.String || !script.HasScript(v.Text) {
			return true
		}

		for _, frag := range script.Fragments(v.Text, field, v.Line) {
			if !yield(frag) {
				return false
			}
		}
	}

	return true
}

// StructureRule runs a StructureDetector over whole documents.
type StructureRule struct {
	baseRule
	detector detectors.StructureDetector
}

// NewStructureRule constructs a StructureRule.
func NewStructureRule(id, description string, severity m.Severity, detector detectors.StructureDetector, opts ...RuleOption) *StructureRule {
	return &StructureRule{
		baseRule: baseRule{id: id, description: description, severity: severity, ruleConfig: newRuleConfig(opts)},
		detector: detector,
	}
}

// Kind returns StructureKind.
func (r *StructureRule) Kind() RuleKind { return StructureKind }

// ApplySettings configures the detector.
func (r *StructureRule) ApplySettings(settings m.RuleSettings) {
	r.detector.Configure(settings)
}

// Run skips documents of other kinds and documents that could not be decoded.
func (r *StructureRule) Run(doc *m.Document, project *m.ProjectContext) iter.Seq[m.Finding] {
	return func(yield func(m.Finding) bool) {
		if !r.Applies(project) || !r.accepts(doc.Kind) {
			return
		}

		if doc.DecodeErr != nil && !keytree.Recoverable(doc.DecodeErr) {
			r.logger.Debug("skipping undecodable document", "rule", r.id, "path", doc.Path, "error", doc.DecodeErr)
			return
		}

		for _, v := range r.detector.Detect(doc, project) {
			if !yield(r.finding(doc, v)) {
				return
			}
		}
	}
}
