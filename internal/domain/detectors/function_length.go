package detectors

import (
	"fmt"

	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// DefaultMaxFunctionLines is the function body limit when none is configured.
const DefaultMaxFunctionLines = 50

// FunctionLength reports functions whose bodies run longer than MaxLines.
// Nested functions are measured on their own and count toward their parent.
type FunctionLength struct {
	MaxLines       int
	SkipComments   bool
	SkipBlankLines bool
}

// NewFunctionLength returns a detector with default settings.
func NewFunctionLength() *FunctionLength {
	return &FunctionLength{MaxLines: DefaultMaxFunctionLines}
}

// Configure reads maxLines, skipComments and skipBlankLines.
func (d *FunctionLength) Configure(s m.RuleSettings) {
	d.MaxLines = positive(s.Int(DefaultMaxFunctionLines, "maxLines", "max_lines"), DefaultMaxFunctionLines)
	d.SkipComments = s.Bool(false, "skipComments", "skip_comments")
	d.SkipBlankLines = s.Bool(false, "skipBlankLines", "skip_blank_lines")
}

// Detect emits one violation per oversized function at its declaration line.
func (d *FunctionLength) Detect(prog *script.Program, frag script.Fragment) []Violation {
	limit := positive(d.MaxLines, DefaultMaxFunctionLines)
	filter := lineFilter{skipComments: d.SkipComments, skipBlankLines: d.SkipBlankLines}
	names := functionNames(prog)
	tr := frag.Translator()

	var lm *lineMap

	var out []Violation

	script.Inspect(prog, func(n script.Node) {
		_, body, ok := script.FuncParts(n)
		if !ok {
			return
		}

		if lm == nil {
			lm = newLineMap(frag.Code)
		}

		span := body.Span()
		count := lm.count(lm.line(span.Start), lm.line(max(span.Start, span.End-1)), filter, nil)

		if count <= limit {
			return
		}

		name := names[n]
		if name == "" {
			name = "anonymous"
		}

		out = append(out, Violation{
			Message: fmt.Sprintf("File section '%s' contains function '%s' with %d lines (max recommended: %d). "+
				"Consider breaking it into smaller functions.", frag.Field, name, count, limit),
			Line: tr.Line(n.Span()),
		})
	})

	return out
}
