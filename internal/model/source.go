package model

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/mouse-blink/auditor/internal/keytree"
)

// Path represents a file system path, or a path inside an archive.
type Path string

// SourceFile is a file accepted by intake, already decoded to text.
type SourceFile struct {
	Path    Path
	Content string
	Size    int64
}

// DocumentKind is the type of a host document, taken from its extension.
type DocumentKind string

// Known document kinds.
const (
	KindPMD    DocumentKind = "pmd"
	KindPOD    DocumentKind = "pod"
	KindAMD    DocumentKind = "amd"
	KindSMD    DocumentKind = "smd"
	KindScript DocumentKind = "script"
)

// KindOf returns the document kind for a path, and false for unknown extensions.
func KindOf(path Path) (DocumentKind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(string(path))), ".")

	switch DocumentKind(ext) {
	case KindPMD, KindPOD, KindAMD, KindSMD, KindScript:
		return DocumentKind(ext), true
	}

	return "", false
}

// Document is a host document ready for analysis. Tree is nil for standalone
// scripts and for documents that failed to decode; DecodeErr then holds the
// reason.
type Document struct {
	Path      Path
	Kind      DocumentKind
	Source    string
	Tree      *keytree.Tree
	DecodeErr error
}

// ProjectContext is the read-only view of everything loaded for one run.
type ProjectContext struct {
	ApplicationID string
	Documents     map[Path]*Document
}

// NewProjectContext builds a context from documents.
func NewProjectContext(appID string, docs ...*Document) *ProjectContext {
	pc := &ProjectContext{ApplicationID: appID, Documents: make(map[Path]*Document, len(docs))}
	for _, d := range docs {
		pc.Documents[d.Path] = d
	}

	return pc
}

// Sorted returns the documents ordered by path.
func (pc *ProjectContext) Sorted() []*Document {
	docs := make([]*Document, 0, len(pc.Documents))
	for _, d := range pc.Documents {
		docs = append(docs, d)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	return docs
}
