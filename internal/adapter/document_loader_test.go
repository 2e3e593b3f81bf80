package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
)

func TestDocumentLoader_Load(t *testing.T) {
	t.Run("builds documents by kind", func(t *testing.T) {
		loader := NewDocumentLoader(nil)

		project := loader.Load([]m.SourceFile{
			{Path: "app/home.pmd", Content: `{"id": "home"}`},
			{Path: "app/util.script", Content: "var x = 1;"},
			{Path: "app/notes.txt", Content: "ignored"},
		}, "")

		require.Len(t, project.Documents, 2)

		pmd := project.Documents["app/home.pmd"]
		require.NotNil(t, pmd)
		assert.Equal(t, m.KindPMD, pmd.Kind)
		require.NotNil(t, pmd.Tree)
		assert.Equal(t, "home", pmd.Tree.Lookup("id").String())
		assert.NoError(t, pmd.DecodeErr)

		script := project.Documents["app/util.script"]
		require.NotNil(t, script)
		assert.Nil(t, script.Tree)
		assert.Equal(t, "var x = 1;", script.Source)
	})

	t.Run("reads the application id from the first smd", func(t *testing.T) {
		loader := NewDocumentLoader(nil)

		project := loader.Load([]m.SourceFile{
			{Path: "b/site.smd", Content: `{"applicationId": "second_app"}`},
			{Path: "a/site.smd", Content: `{"applicationId": "first_app"}`},
		}, "")

		assert.Equal(t, "first_app", project.ApplicationID)
	})

	t.Run("explicit application id wins", func(t *testing.T) {
		loader := NewDocumentLoader(nil)

		project := loader.Load([]m.SourceFile{
			{Path: "site.smd", Content: `{"applicationId": "from_file"}`},
		}, "from_flag")

		assert.Equal(t, "from_flag", project.ApplicationID)
	})

	t.Run("no smd leaves the id empty", func(t *testing.T) {
		project := NewDocumentLoader(nil).Load([]m.SourceFile{{Path: "home.pmd", Content: "{}"}}, "")

		assert.Empty(t, project.ApplicationID)
	})

	t.Run("raw control characters are decoded leniently", func(t *testing.T) {
		raw := "{\n  \"id\": \"home\",\n  \"script\": \"<% var a = 1;\n  var b = 2; %>\"\n}"

		project := NewDocumentLoader(nil).Load([]m.SourceFile{{Path: "home.pmd", Content: raw}}, "")

		doc := project.Documents["home.pmd"]
		require.NotNil(t, doc.Tree)
		assert.NoError(t, doc.DecodeErr)
		assert.False(t, doc.Tree.Partial)

		script := doc.Tree.Lookup("script")
		require.NotNil(t, script)
		assert.Equal(t, 3, script.Line)
	})

	t.Run("invalid json keeps the document without a tree", func(t *testing.T) {
		project := NewDocumentLoader(nil).Load([]m.SourceFile{{Path: "home.pmd", Content: `{"id": `}}, "")

		doc := project.Documents["home.pmd"]
		require.NotNil(t, doc)
		assert.Nil(t, doc.Tree)

		var decodeErr *keytree.DecodeError
		assert.ErrorAs(t, doc.DecodeErr, &decodeErr)
	})
}
