package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"info", SeverityInfo, false},
		{" Advice ", SeverityAdvice, false},
		{"WARNING", SeverityWarning, false},
		{"error", SeverityError, false},
		{"fatal", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityAdvice))
}

func TestFinding_Location(t *testing.T) {
	f := Finding{FilePath: "app/home.pmd", Line: 12}
	assert.Equal(t, "app/home.pmd:12", f.Location())

	f.Column = 4
	assert.Equal(t, "app/home.pmd:12:4", f.Location())
}

func TestReport_Worst(t *testing.T) {
	r := Report{Findings: []Finding{
		{Severity: SeverityAdvice},
		{Severity: SeverityWarning},
		{Severity: SeverityInfo},
	}}

	assert.Equal(t, SeverityWarning, r.Worst())
	assert.Equal(t, 1, r.CountBySeverity()[SeverityAdvice])
	assert.Equal(t, Severity(""), Report{}.Worst())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want DocumentKind
		ok   bool
	}{
		{"a/home.pmd", KindPMD, true},
		{"b/Card.POD", KindPOD, true},
		{"util.script", KindScript, true},
		{"app.smd", KindSMD, true},
		{"readme.md", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := KindOf(Path(tt.path))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleSettings(t *testing.T) {
	s := RuleSettings{
		"max_lines":      float64(40),
		"skipComments":   true,
		"skipBlankLines": "yes",
		"sectionOrder":   []any{"id", "script"},
		"bad":            []any{"id", 3},
		"fraction":       2.5,
	}

	assert.Equal(t, 40, s.Int(30, "maxLines", "max_lines"))
	assert.Equal(t, 30, s.Int(30, "missing"))
	assert.Equal(t, 7, s.Int(7, "fraction"))
	assert.True(t, s.Bool(false, "skipComments"))
	assert.False(t, s.Bool(false, "skipBlankLines"))
	assert.Equal(t, []string{"id", "script"}, s.Strings(nil, "sectionOrder"))
	assert.Equal(t, []string{"x"}, s.Strings([]string{"x"}, "bad"))

	merged := s.Merge(RuleSettings{"max_lines": 10})
	assert.Equal(t, 10, merged.Int(0, "max_lines"))
	assert.Equal(t, 40, s.Int(0, "max_lines"))
}

func TestProjectContext_Sorted(t *testing.T) {
	pc := NewProjectContext("app", &Document{Path: "b.pmd"}, &Document{Path: "a.pmd"})

	docs := pc.Sorted()
	require.Len(t, docs, 2)
	assert.Equal(t, Path("a.pmd"), docs[0].Path)
}
