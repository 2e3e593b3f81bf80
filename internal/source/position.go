// Package source maps byte offsets in text to 1-based line/column positions.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) within a text.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Position is a 1-based line and column. Columns count code points, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex records where each line begins in a text.
type LineIndex struct {
	text   string
	starts []int
}

// NewLineIndex scans text once and records the offset of every line start.
// "\n" ends a line; a preceding "\r" stays part of the line it terminates.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of lines in the text. Empty text has one line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Line returns the 1-based line containing offset.
func (li *LineIndex) Line(offset int) int {
	offset = li.clamp(offset)

	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
}

// Position returns the 1-based line and column of offset. Offsets outside the
// text clamp to its bounds.
func (li *LineIndex) Position(offset int) Position {
	offset = li.clamp(offset)
	line := li.Line(offset)
	start := li.starts[line-1]

	return Position{
		Line:   line,
		Column: utf8.RuneCountInString(li.text[start:offset]) + 1,
	}
}

func (li *LineIndex) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if offset > len(li.text) {
		return len(li.text)
	}

	return offset
}
