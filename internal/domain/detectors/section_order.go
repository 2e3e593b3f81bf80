package detectors

import (
	"fmt"
	"strings"

	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
)

// DefaultSectionOrder is the canonical order of a page document's root keys.
var DefaultSectionOrder = []string{
	"id",
	"securityDomains",
	"include",
	"script",
	"endPoints",
	"onSubmit",
	"outboundData",
	"onLoad",
	"presentation",
}

// SectionOrder reports root keys that are out of the configured order.
type SectionOrder struct {
	Order []string
}

// NewSectionOrder returns a detector using DefaultSectionOrder.
func NewSectionOrder() *SectionOrder {
	return &SectionOrder{Order: DefaultSectionOrder}
}

// Configure reads sectionOrder.
func (d *SectionOrder) Configure(s m.RuleSettings) {
	order := s.Strings(DefaultSectionOrder, "sectionOrder", "section_order")
	if len(order) == 0 {
		order = DefaultSectionOrder
	}

	d.Order = order
}

// Detect emits at most one violation listing current and expected order, at
// the line of the first key whose position differs.
func (d *SectionOrder) Detect(doc *m.Document, _ *m.ProjectContext) []Violation {
	keys := rootKeys(doc)
	if len(keys) == 0 {
		return nil
	}

	actual := make([]string, len(keys))
	for i, k := range keys {
		actual[i] = k.Key
	}

	expected := ExpectedOrder(actual, d.Order)

	for i := range actual {
		if actual[i] == expected[i] {
			continue
		}

		return []Violation{{
			Message: fmt.Sprintf("PMD sections are not in the correct order. Current: [%s] | Expected: [%s]",
				strings.Join(actual, " → "), strings.Join(expected, " → ")),
			Line:   keys[i].Line,
			Column: 1,
		}}
	}

	return nil
}

// ExpectedOrder stably partitions keys: those named in canonical come first in
// canonical order, the rest follow in their original order.
func ExpectedOrder(keys, canonical []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	out := make([]string, 0, len(keys))
	placed := make(map[string]bool, len(keys))

	for _, k := range canonical {
		if present[k] && !placed[k] {
			out = append(out, k)
			placed[k] = true
		}
	}

	for _, k := range keys {
		if !placed[k] {
			out = append(out, k)
			placed[k] = true
		}
	}

	return out
}

func rootKeys(doc *m.Document) []keytree.KeyLine {
	if doc.Tree != nil {
		return doc.Tree.RootKeys()
	}

	if doc.Source == "" {
		return nil
	}

	keys, err := keytree.RootKeys(doc.Source)
	if err != nil {
		return nil
	}

	return keys
}
