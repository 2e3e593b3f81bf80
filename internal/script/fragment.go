package script

import (
	"strings"
	"unicode"

	"github.com/mouse-blink/auditor/internal/source"
)

const (
	openDelim  = "<%"
	closeDelim = "%>"
)

// Unwrap strips the <% and %> delimiters around a script value. It returns the
// code between them and the number of bytes removed before it. Text that is
// not a single <% %> pair is returned unchanged with a zero prefix.
func Unwrap(raw string) (code string, prefix int) {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	lead := len(raw) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)

	if len(trimmed) < len(openDelim)+len(closeDelim) ||
		!strings.HasPrefix(trimmed, openDelim) || !strings.HasSuffix(trimmed, closeDelim) {
		return raw, 0
	}

	code = trimmed[len(openDelim) : len(trimmed)-len(closeDelim)]
	if strings.Contains(code, closeDelim) {
		return raw, 0
	}

	return code, lead + len(openDelim)
}

// HasScript reports whether a value contains an embedded script.
func HasScript(value string) bool {
	i := strings.Index(value, openDelim)

	return i >= 0 && strings.Contains(value[i+len(openDelim):], closeDelim)
}

// Fragment is one script value taken from a host document.
type Fragment struct {
	Raw    string // value text, delimiters included
	Code   string // text handed to the parser
	Prefix int    // bytes of Raw preceding Code
	Field  string // key the value was found under
	Line   int    // host line where Raw starts, 1-based
}

// NewFragment unwraps raw and records where it sits in the host document.
func NewFragment(raw, field string, line int) Fragment {
	code, prefix := Unwrap(raw)
	if line < 1 {
		line = 1
	}

	return Fragment{Raw: raw, Code: code, Prefix: prefix, Field: field, Line: line}
}

// Translator maps offsets in Fragment.Code to host-document positions.
// It never touches the AST, so cached programs stay shared and unchanged.
type Translator struct {
	index  *source.LineIndex
	prefix int
	base   int
}

// Translator returns a position translator for the fragment.
func (f Fragment) Translator() *Translator {
	return &Translator{
		index:  source.NewLineIndex(f.Raw),
		prefix: f.Prefix,
		base:   f.Line,
	}
}

// WithBase returns a copy of t that places the fragment at another host line.
func (t *Translator) WithBase(line int) *Translator {
	c := *t
	c.base = line

	return &c
}

// Position maps a code offset to a host position. The line is shifted by the
// fragment's host line; the column is the column within the fragment text.
func (t *Translator) Position(offset int) source.Position {
	pos := t.index.Position(offset + t.prefix)
	pos.Line += t.base - 1

	return pos
}

// Line returns the host line of a span's start.
func (t *Translator) Line(span source.Span) int {
	return t.Position(span.Start).Line
}

// Fragments returns the scripts embedded in a value. A value wrapped in a
// single <% %> pair yields one fragment; otherwise every <% ... %> segment
// becomes its own fragment over the same raw text.
func Fragments(raw, field string, line int) []Fragment {
	if _, prefix := Unwrap(raw); prefix > 0 {
		return []Fragment{NewFragment(raw, field, line)}
	}

	if line < 1 {
		line = 1
	}

	var out []Fragment

	for pos := 0; pos < len(raw); {
		open := strings.Index(raw[pos:], openDelim)
		if open < 0 {
			break
		}

		codeStart := pos + open + len(openDelim)

		closing := strings.Index(raw[codeStart:], closeDelim)
		if closing < 0 {
			break
		}

		out = append(out, Fragment{
			Raw:    raw,
			Code:   raw[codeStart : codeStart+closing],
			Prefix: codeStart,
			Field:  field,
			Line:   line,
		})

		pos = codeStart + closing + len(closeDelim)
	}

	return out
}
