package detectors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/source"
)

// DefaultContextWindow is how many characters around a match are searched
// for a suppressing token.
const DefaultContextWindow = 50

// LiteralPattern finds hardcoded literals in a document. A match is dropped
// when any Suppress token occurs within Window characters before or after
// it, or when Allow rejects the matched text.
type LiteralPattern struct {
	Window   int
	Suppress []string
	// Pattern builds the matcher for a project; a nil result disables the scan.
	Pattern func(project *m.ProjectContext) *regexp.Regexp
	// Allow reports whether a matched literal is acceptable.
	Allow func(match string) bool
	// Message formats a violation; field is empty for raw-text matches.
	Message func(match, field string, project *m.ProjectContext) string
}

// Configure reads contextWindow.
func (d *LiteralPattern) Configure(s m.RuleSettings) {
	d.Window = positive(s.Int(DefaultContextWindow, "contextWindow", "context_window"), DefaultContextWindow)
}

// Detect scans the raw document text when it is available and otherwise
// walks the decoded tree.
func (d *LiteralPattern) Detect(doc *m.Document, project *m.ProjectContext) []Violation {
	if d.Pattern == nil {
		return nil
	}

	re := d.Pattern(project)
	if re == nil {
		return nil
	}

	if doc.Source != "" {
		return d.scanText(re, doc.Source, "", 1, project)
	}

	if doc.Tree == nil || doc.Tree.Root == nil {
		return nil
	}

	var out []Violation

	d.walk(re, doc.Tree.Root, "", project, &out)

	return out
}

func (d *LiteralPattern) walk(re *regexp.Regexp, v *keytree.Value, field string, project *m.ProjectContext, out *[]Violation) {
	switch v.Kind {
	case keytree.Object:
		for _, member := range v.Members {
			d.walk(re, member.Value, member.Key, project, out)
		}
	case keytree.Array:
		for i, item := range v.Items {
			d.walk(re, item, fmt.Sprintf("[%d]", i), project, out)
		}
	case keytree.Scalar:
		if v.Type == keytree.String {
			*out = append(*out, d.scanText(re, v.Text, field, v.Line, project)...)
		}
	}
}

// scanText reports every unsuppressed match in text. baseLine is the host
// line of the text's first line.
func (d *LiteralPattern) scanText(re *regexp.Regexp, text, field string, baseLine int, project *m.ProjectContext) []Violation {
	var (
		out   []Violation
		index *source.LineIndex
	)

	window := positive(d.Window, DefaultContextWindow)

	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		match := text[start:end]

		if d.Allow != nil && !d.Allow(match) {
			continue
		}

		if d.suppressed(before(text, start, window)) || d.suppressed(after(text, end, window)) {
			continue
		}

		if index == nil {
			index = source.NewLineIndex(text)
		}

		pos := index.Position(start)

		out = append(out, Violation{
			Message: d.message(match, field, project),
			Line:    pos.Line + baseLine - 1,
			Column:  pos.Column,
		})
	}

	return out
}

func (d *LiteralPattern) suppressed(context string) bool {
	for _, token := range d.Suppress {
		if strings.Contains(context, token) {
			return true
		}
	}

	return false
}

func (d *LiteralPattern) message(match, field string, project *m.ProjectContext) string {
	if d.Message != nil {
		return d.Message(match, field, project)
	}

	if field != "" {
		return fmt.Sprintf("Hardcoded literal '%s' found in %s.", match, field)
	}

	return fmt.Sprintf("Hardcoded literal '%s' found.", match)
}

// before returns up to n characters of text preceding offset.
func before(text string, offset, n int) string {
	i := offset
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}

	return text[i:offset]
}

// after returns up to n characters of text following offset.
func after(text string, offset, n int) string {
	i := offset
	for ; n > 0 && i < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}

	return text[offset:i]
}

// NewHardcodedApplicationID detects the project's application id written as a
// literal instead of read from site.applicationId.
func NewHardcodedApplicationID() *LiteralPattern {
	return &LiteralPattern{
		Window:   DefaultContextWindow,
		Suppress: []string{"site.applicationId"},
		Pattern: func(project *m.ProjectContext) *regexp.Regexp {
			if project == nil || strings.TrimSpace(project.ApplicationID) == "" {
				return nil
			}

			return regexp.MustCompile(`(?i)(?:["']applicationId["']\s*:\s*)?["']?` +
				regexp.QuoteMeta(project.ApplicationID) + `["']?`)
		},
		Message: func(_, field string, project *m.ProjectContext) string {
			id := project.ApplicationID

			if field != "" {
				return fmt.Sprintf("Hardcoded applicationId '%s' found in %s. Use site.applicationId instead.", id, field)
			}

			return fmt.Sprintf("Hardcoded applicationId '%s' found. Use site.applicationId instead.", id)
		},
	}
}

// Workday ids that may appear literally.
var allowedWIDs = map[string]bool{
	"d9e41a8c446c11de98360015c5e6daf6": true,
	"d9e4223e446c11de98360015c5e6daf6": true,
}

var widPattern = regexp.MustCompile(`(?i)\b[a-f0-9]{32}\b`)

// NewHardcodedWID detects 32-character Workday ids written as literals.
func NewHardcodedWID() *LiteralPattern {
	return &LiteralPattern{
		Window:  DefaultContextWindow,
		Pattern: func(*m.ProjectContext) *regexp.Regexp { return widPattern },
		Allow: func(match string) bool {
			return !allowedWIDs[strings.ToLower(match)]
		},
		Message: func(match, field string, _ *m.ProjectContext) string {
			if field == "" {
				field = "document"
			}

			return fmt.Sprintf("Hardcoded WID '%s' found in %s. "+
				"Consider configuring WIDs in app attributes instead of hardcoding them.", match, field)
		},
	}
}
