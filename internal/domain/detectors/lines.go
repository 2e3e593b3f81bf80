package detectors

import (
	"github.com/mouse-blink/auditor/internal/script"
	"github.com/mouse-blink/auditor/internal/source"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
)

// lineMap classifies every line of a fragment's code as blank, comment-only
// or code.
type lineMap struct {
	index *source.LineIndex
	kinds []lineKind // indexed by 1-based line
}

func newLineMap(code string) *lineMap {
	index := source.NewLineIndex(code)
	lm := &lineMap{index: index, kinds: make([]lineKind, index.LineCount()+1)}

	for _, tok := range script.Tokenize(code) {
		var kind lineKind

		switch tok.Kind {
		case script.EOF, script.Whitespace:
			continue
		case script.Comment:
			kind = lineComment
		default:
			kind = lineCode
		}

		end := tok.End
		if end > tok.Start {
			end--
		}

		for line := index.Line(tok.Start); line <= index.Line(end); line++ {
			if kind > lm.kinds[line] {
				lm.kinds[line] = kind
			}
		}
	}

	return lm
}

// lineFilter decides which lines count toward a length limit.
type lineFilter struct {
	skipComments   bool
	skipBlankLines bool
}

// count returns how many lines in [first, last] pass the filter, leaving out
// any line in excluded.
func (lm *lineMap) count(first, last int, f lineFilter, excluded map[int]bool) int {
	n := 0

	for line := first; line <= last && line < len(lm.kinds); line++ {
		if excluded[line] {
			continue
		}

		switch lm.kinds[line] {
		case lineBlank:
			if f.skipBlankLines {
				continue
			}
		case lineComment:
			if f.skipComments {
				continue
			}
		}

		n++
	}

	return n
}

// extent returns the first and last non-blank line, or 0, 0 for empty code.
func (lm *lineMap) extent() (int, int) {
	first, last := 0, 0

	for line := 1; line < len(lm.kinds); line++ {
		if lm.kinds[line] == lineBlank {
			continue
		}

		if first == 0 {
			first = line
		}

		last = line
	}

	return first, last
}

func (lm *lineMap) line(offset int) int {
	return lm.index.Line(offset)
}

// bodyInterior returns the lines strictly between a function body's opening
// and closing braces.
func (lm *lineMap) bodyInterior(body script.Node) (int, int) {
	span := body.Span()
	open := lm.line(span.Start)
	closing := lm.line(max(span.Start, span.End-1))

	return open + 1, closing - 1
}
