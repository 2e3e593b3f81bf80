package domain

import (
	"strings"

	"github.com/mouse-blink/auditor/internal/script"
)

const ignoreDirective = "auditor:ignore"

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(ruleID string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[strings.ToLower(ruleID)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

// parseIgnoreDirective reads "auditor:ignore" optionally followed by a comma
// separated list of rule ids. Without ids every rule is ignored.
func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

// ignoreIndex holds the directives of one fragment. A directive before the
// first statement covers the whole fragment; one alone on its line covers the
// next line; a trailing one covers its own line. Lines are host lines.
type ignoreIndex struct {
	fragment ignoreRule
	line     map[int]ignoreRule
}

func buildIgnoreIndex(frag script.Fragment) ignoreIndex {
	idx := ignoreIndex{}
	if !strings.Contains(frag.Code, ignoreDirective) {
		return idx
	}

	tr := frag.Translator()
	seenCode := false

	for _, tok := range script.Tokenize(frag.Code) {
		if tok.Kind == script.Whitespace {
			continue
		}

		if tok.Kind != script.Comment {
			seenCode = true
			continue
		}

		r, ok := parseIgnoreDirective(tok.Text)
		if !ok {
			continue
		}

		if !seenCode {
			mergeIgnoreRule(&idx.fragment, r)
			continue
		}

		target := tr.Line(tok.Span())
		if isLeadingComment(frag.Code, tok.Start) {
			target++
		}

		if idx.line == nil {
			idx.line = make(map[int]ignoreRule)
		}

		current := idx.line[target]
		mergeIgnoreRule(&current, r)
		idx.line[target] = current
	}

	return idx
}

func (idx ignoreIndex) suppresses(ruleID string, line int) bool {
	if idx.fragment.ignores(ruleID) {
		return true
	}

	r, ok := idx.line[line]

	return ok && r.ignores(ruleID)
}

func isLeadingComment(code string, offset int) bool {
	lineStart := strings.LastIndexByte(code[:offset], '\n') + 1

	return strings.TrimSpace(code[lineStart:offset]) == ""
}
