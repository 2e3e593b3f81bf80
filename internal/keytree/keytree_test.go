package keytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePMD = `{
  "id": "home",
  "securityDomains": ["a", "b"],
  "endPoints": [
    {"name": "getWorker", "url": "<% site.url %>"}
  ],
  "onLoad": "<% pageVariables.x = 1; %>",
  "presentation": {
    "title": {"type": "title", "value": 3.5},
    "visible": true,
    "extra": null
  }
}`

func TestParse_OrderAndLines(t *testing.T) {
	tree, err := Parse(samplePMD)
	require.NoError(t, err)
	require.False(t, tree.Partial)

	assert.Equal(t, []KeyLine{
		{Key: "id", Line: 2},
		{Key: "securityDomains", Line: 3},
		{Key: "endPoints", Line: 4},
		{Key: "onLoad", Line: 7},
		{Key: "presentation", Line: 8},
	}, tree.RootKeys())

	onLoad := tree.Lookup("onLoad")
	require.True(t, onLoad.IsString())
	assert.Equal(t, "<% pageVariables.x = 1; %>", onLoad.Text)
	assert.Equal(t, 7, onLoad.Line)

	endpoint := tree.Lookup("endPoints").Items[0]
	assert.Equal(t, Object, endpoint.Kind)
	assert.Equal(t, 5, endpoint.Get("url").Line)

	title := tree.Lookup("presentation", "title", "value")
	assert.Equal(t, Number, title.Type)
	assert.Equal(t, "3.5", title.String())
	assert.Equal(t, "true", tree.Lookup("presentation", "visible").String())
	assert.Equal(t, "null", tree.Lookup("presentation", "extra").String())
	assert.Nil(t, tree.Lookup("missing", "key"))
}

func TestParse_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	tree, err := Parse(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	keys := tree.RootKeys()
	require.Len(t, keys, 2)
	assert.Equal(t, "a", keys[0].Key)
	assert.Equal(t, "3", tree.Lookup("a").Text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		recoverable bool
	}{
		{"raw newline in string", "{\n  \"id\": \"x\",\n  \"script\": \"<% a;\nb; %>\"\n}", true},
		{"raw tab in string", "{\"a\": \"x\ty\"}", true},
		{"truncated", `{"a": [1, 2`, false},
		{"trailing garbage", `{"a": 1} }`, false},
		{"not json", `id = 3`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.input)

			if tt.recoverable {
				require.NoError(t, err)
				assert.True(t, tree.Partial)
				assert.ErrorIs(t, tree.Recovered, ErrControlCharacter)

				return
			}

			require.Error(t, err)

			var de *DecodeError
			assert.ErrorAs(t, err, &de)
			assert.False(t, Recoverable(err))
		})
	}
}

func TestParseLenient_KeepsOriginalLines(t *testing.T) {
	raw := "{\n  \"id\": \"x\",\n  \"onLoad\": \"<% var a = 1;\n  var b = 2; %>\",\n  \"script\": \"<% c(); %>\"\n}"

	tree, err := ParseLenient(raw)
	require.NoError(t, err)
	assert.ErrorIs(t, tree.Recovered, ErrControlCharacter)

	assert.Equal(t, "<% var a = 1;\n  var b = 2; %>", tree.Lookup("onLoad").Text)
	assert.Equal(t, 3, tree.Lookup("onLoad").Line)
	assert.Equal(t, 5, tree.Lookup("script").Line)
}

func TestFallbackRootKeys(t *testing.T) {
	raw := "{\n  \"id\": \"x\",\n  \"presentation\": {\n    \"nested\": 1\n  },\n  \"id\": \"again\",\n\"script\": \"<% a;\nb %>\"\n}"

	assert.Equal(t, []KeyLine{
		{Key: "id", Line: 2},
		{Key: "presentation", Line: 3},
		{Key: "script", Line: 7},
	}, FallbackRootKeys(raw))
}

func TestRootKeys_FallbackMatchesSanitizedOrder(t *testing.T) {
	raw := "{\n  \"script\": \"<% var a;\n var b; %>\",\n  \"id\": \"p\",\n  \"onLoad\": \"<%\n x(); %>\",\n  \"presentation\": {\n    \"body\": 1\n  }\n}"

	keys, err := RootKeys(raw)
	require.NoError(t, err)

	lenient, err := ParseLenient(raw)
	require.NoError(t, err)

	assert.Equal(t, lenient.RootKeys(), keys)
}

func TestRootKeys_Unrecoverable(t *testing.T) {
	_, err := RootKeys(`{"a": `)
	require.Error(t, err)
	assert.False(t, Recoverable(err))
}
