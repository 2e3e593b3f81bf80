package detectors

import (
	"fmt"

	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// DefaultMaxBlockLines is the script block limit when none is configured.
const DefaultMaxBlockLines = 30

// BlockLength reports script blocks that run longer than MaxLines. Lines
// inside function bodies belong to the functions, not the block.
type BlockLength struct {
	MaxLines       int
	SkipComments   bool
	SkipBlankLines bool
}

// NewBlockLength returns a detector with default settings.
func NewBlockLength() *BlockLength {
	return &BlockLength{MaxLines: DefaultMaxBlockLines}
}

// Configure reads maxLines, skipComments and skipBlankLines.
func (d *BlockLength) Configure(s m.RuleSettings) {
	d.MaxLines = positive(s.Int(DefaultMaxBlockLines, "maxLines", "max_lines"), DefaultMaxBlockLines)
	d.SkipComments = s.Bool(false, "skipComments", "skip_comments")
	d.SkipBlankLines = s.Bool(false, "skipBlankLines", "skip_blank_lines")
}

// Detect emits at most one violation for the fragment, at the line of its
// first statement.
func (d *BlockLength) Detect(prog *script.Program, frag script.Fragment) []Violation {
	if len(prog.Stmts) == 0 || allFunctions(prog) {
		return nil
	}

	lm := newLineMap(frag.Code)

	first, last := lm.extent()
	if first == 0 {
		return nil
	}

	excluded := make(map[int]bool)

	script.Walk(prog, func(n script.Node) bool {
		_, body, ok := script.FuncParts(n)
		if !ok {
			return true
		}

		if _, isBlock := body.(*script.BlockStmt); isBlock {
			from, to := lm.bodyInterior(body)
			for line := from; line <= to; line++ {
				excluded[line] = true
			}
		}

		return false
	})

	limit := positive(d.MaxLines, DefaultMaxBlockLines)
	count := lm.count(first, last, lineFilter{skipComments: d.SkipComments, skipBlankLines: d.SkipBlankLines}, excluded)

	if count <= limit {
		return nil
	}

	return []Violation{{
		Message: fmt.Sprintf("Script block in '%s' has %d lines (max recommended: %d). "+
			"Consider breaking it into smaller functions or extracting logic to separate methods.",
			frag.Field, count, limit),
		Line: frag.Translator().Line(prog.Stmts[0].Span()),
	}}
}

// allFunctions reports whether every top-level statement defines a function.
func allFunctions(prog *script.Program) bool {
	for _, s := range prog.Stmts {
		if !script.IsFunction(s) {
			return false
		}
	}

	return true
}
