package detectors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
)

func TestHardcodedApplicationID_RawText(t *testing.T) {
	project := &m.ProjectContext{ApplicationID: "myApp_abcdef"}

	tests := []struct {
		name      string
		source    string
		wantLines []int
	}{
		{
			name:      "plain literal",
			source:    "{\n  \"id\": \"x\",\n  \"url\": \"/apps/myApp_abcdef/data\"\n}",
			wantLines: []int{3},
		},
		{
			name:      "suppressed by nearby site.applicationId",
			source:    "{\n  \"onLoad\": \"<% if (site.applicationId == 'myApp_abcdef') {} %>\"\n}",
			wantLines: nil,
		},
		{
			name:      "case insensitive",
			source:    "{\"k\": \"MYAPP_ABCDEF\"}",
			wantLines: []int{1},
		},
		{
			name:      "absent",
			source:    "{\"k\": \"other\"}",
			wantLines: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &m.Document{Path: "a.pmd", Kind: m.KindPMD, Source: tt.source}

			var lines []int
			for _, v := range NewHardcodedApplicationID().Detect(doc, project) {
				lines = append(lines, v.Line)
			}

			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestHardcodedApplicationID_WindowIsPerOccurrence(t *testing.T) {
	padding := strings.Repeat(".", 60)
	src := "site.applicationId + 'myApp_abcdef'" + padding + "'myApp_abcdef'"

	doc := &m.Document{Path: "a.script", Kind: m.KindScript, Source: src}
	got := NewHardcodedApplicationID().Detect(doc, &m.ProjectContext{ApplicationID: "myApp_abcdef"})

	require.Len(t, got, 1)
	assert.Equal(t, len("site.applicationId + 'myApp_abcdef'")+len(padding)+1, got[0].Column)
	assert.Equal(t, "Hardcoded applicationId 'myApp_abcdef' found. Use site.applicationId instead.", got[0].Message)
}

func TestHardcodedApplicationID_NoApplicationID(t *testing.T) {
	doc := &m.Document{Path: "a.pmd", Source: "{\"k\": \"anything\"}"}

	assert.Empty(t, NewHardcodedApplicationID().Detect(doc, &m.ProjectContext{}))
	assert.Empty(t, NewHardcodedApplicationID().Detect(doc, nil))
}

func TestHardcodedApplicationID_TreeTraversal(t *testing.T) {
	tree, err := keytree.Parse("{\n  \"endPoints\": [\n    \"myApp_abcdef\"\n  ],\n  \"presentation\": {\"title\": \"myApp_abcdef\"}\n}")
	require.NoError(t, err)

	doc := &m.Document{Path: "a.pmd", Kind: m.KindPMD, Tree: tree}
	got := NewHardcodedApplicationID().Detect(doc, &m.ProjectContext{ApplicationID: "myApp_abcdef"})

	require.Len(t, got, 2)
	assert.Equal(t, "Hardcoded applicationId 'myApp_abcdef' found in [0]. Use site.applicationId instead.", got[0].Message)
	assert.Equal(t, 3, got[0].Line)
	assert.Contains(t, got[1].Message, "found in title")
	assert.Equal(t, 5, got[1].Line)
}

func TestHardcodedWID(t *testing.T) {
	src := "{\n  \"wid\": \"0123456789abcdef0123456789ABCDEF\",\n  \"ok\": \"d9e41a8c446c11de98360015c5e6daf6\",\n  \"short\": \"abc123\"\n}"
	doc := &m.Document{Path: "a.pod", Kind: m.KindPOD, Source: src}

	got := NewHardcodedWID().Detect(doc, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 11, got[0].Column)
	assert.Contains(t, got[0].Message, "Hardcoded WID '0123456789abcdef0123456789ABCDEF' found in document.")
}

func TestWindowHelpers(t *testing.T) {
	text := "ééééabcdéééé"

	assert.Equal(t, "éé", before(text, len("éééé"), 2))
	assert.Equal(t, "ééééabcd", before(text, len("ééééabcd"), 100))
	assert.Equal(t, "abc", after(text, len("éééé"), 3))
	assert.Equal(t, "", after(text, len(text), 5))
}
