package detectors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

func parseFragment(t *testing.T, raw, field string, line int) (*script.Program, script.Fragment) {
	t.Helper()

	frag := script.NewFragment(raw, field, line)
	prog, err := script.Parse(frag.Code)
	require.NoError(t, err)

	return prog, frag
}

func TestParameterCount_Exactness(t *testing.T) {
	tests := []struct {
		name   string
		params int
		max    int
		want   int
	}{
		{"below limit", 3, 4, 0},
		{"at limit", 4, 4, 0},
		{"above limit", 5, 4, 1},
		{"custom limit", 3, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ""
			for i := range tt.params {
				if i > 0 {
					params += ", "
				}

				params += string(rune('a' + i))
			}

			prog, frag := parseFragment(t, "<% var f = function("+params+") { return a; }; %>", "script", 1)

			d := NewParameterCount()
			d.Configure(m.RuleSettings{"maxParameters": tt.max})

			assert.Len(t, d.Detect(prog, frag), tt.want)
		})
	}
}

func TestParameterCount_NamesAndLines(t *testing.T) {
	raw := `<%
  var build = function(a, b, c, d, e) { return a; };
  var helpers = {
    format: (a, b, c, d, e) => a
  };
  page.handler = function(a, b, c, d, e, f) { };
  [1].map(function(a, b, c, d, e) { return a; });
%>`
	prog, frag := parseFragment(t, raw, "script", 20)

	got := NewParameterCount().Detect(prog, frag)
	require.Len(t, got, 4)

	assert.Equal(t, "Function 'build' has 5 parameters (max allowed: 4). Consider refactoring to reduce complexity.", got[0].Message)
	assert.Equal(t, 21, got[0].Line)
	assert.Contains(t, got[1].Message, "Function 'format' has 5 parameters")
	assert.Equal(t, 23, got[1].Line)
	assert.Contains(t, got[2].Message, "Function 'page.handler' has 6 parameters")
	assert.Equal(t, 25, got[2].Line)
	assert.Equal(t, "Function has 5 parameters (max allowed: 4). Consider refactoring to reduce complexity.", got[3].Message)
	assert.Equal(t, 26, got[3].Line)
}

func TestParameterCount_SurvivesManySyntaxErrors(t *testing.T) {
	raw := "<% var a = 1;\nfunction f(a, b, c, d, e) { return a; }\n" +
		strings.Repeat("var = ;\n", 12) +
		"function g(a, b, c, d, e, f) { return a; } %>"
	frag := script.NewFragment(raw, "script", 1)

	prog, err := script.Parse(frag.Code)
	require.NoError(t, err)

	got := NewParameterCount().Detect(prog, frag)
	require.Len(t, got, 2)

	assert.Contains(t, got[0].Message, "Function 'f' has 5 parameters")
	assert.Equal(t, 2, got[0].Line)
	assert.Contains(t, got[1].Message, "Function 'g' has 6 parameters")
	assert.Equal(t, 15, got[1].Line)
}

func TestParameterCount_InvalidSettingKeepsDefault(t *testing.T) {
	d := NewParameterCount()
	d.Configure(m.RuleSettings{"maxParameters": "lots"})
	assert.Equal(t, DefaultMaxParameters, d.MaxParameters)

	d.Configure(m.RuleSettings{"max_parameters": -2})
	assert.Equal(t, DefaultMaxParameters, d.MaxParameters)
}
