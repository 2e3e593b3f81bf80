// Package detectors holds the analysis passes behind each rule. Detectors are
// pure: they read an AST or a document and return violations.
package detectors

import (
	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// Violation is a detector result positioned in the host document.
type Violation struct {
	Message string
	Line    int
	Column  int // 0 when unknown
}

// ScriptDetector inspects one parsed script fragment.
type ScriptDetector interface {
	Configure(settings m.RuleSettings)
	Detect(prog *script.Program, frag script.Fragment) []Violation
}

// StructureDetector inspects a whole host document.
type StructureDetector interface {
	Configure(settings m.RuleSettings)
	Detect(doc *m.Document, project *m.ProjectContext) []Violation
}

// positive returns v when it is a usable limit and def otherwise.
func positive(v, def int) int {
	if v < 1 {
		return def
	}

	return v
}
