package adapter

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mouse-blink/auditor/internal/keytree"
	m "github.com/mouse-blink/auditor/internal/model"
)

// DocumentLoader turns intake records into analysable documents.
type DocumentLoader interface {
	// Load builds the project context. appID overrides the application id
	// found in the project's .smd document when not empty.
	Load(files []m.SourceFile, appID string) *m.ProjectContext
}

type documentLoader struct {
	logger *slog.Logger
}

// NewDocumentLoader creates a DocumentLoader. A nil logger discards output.
func NewDocumentLoader(logger *slog.Logger) DocumentLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &documentLoader{logger: logger}
}

func (l *documentLoader) Load(files []m.SourceFile, appID string) *m.ProjectContext {
	docs := make([]*m.Document, 0, len(files))

	for _, f := range files {
		kind, ok := m.KindOf(f.Path)
		if !ok {
			l.logger.Debug("ignoring file of unknown kind", "path", f.Path)
			continue
		}

		docs = append(docs, l.document(f, kind))
	}

	if strings.TrimSpace(appID) == "" {
		appID = applicationID(docs)
	}

	return m.NewProjectContext(appID, docs...)
}

func (l *documentLoader) document(f m.SourceFile, kind m.DocumentKind) *m.Document {
	doc := &m.Document{Path: f.Path, Kind: kind, Source: f.Content}
	if kind == m.KindScript {
		return doc
	}

	tree, err := keytree.Parse(f.Content)
	if err != nil {
		l.logger.Warn("document is not valid JSON", "path", f.Path, "error", err)
		doc.DecodeErr = err

		return doc
	}

	if tree.Partial {
		if lenient, lerr := keytree.ParseLenient(f.Content); lerr == nil {
			l.logger.Debug("decoded after escaping control characters", "path", f.Path)
			tree = lenient
		} else {
			l.logger.Warn("document decoded partially", "path", f.Path, "error", tree.Recovered)
			doc.DecodeErr = tree.Recovered
		}
	}

	doc.Tree = tree

	return doc
}

// applicationID reads applicationId from the first .smd document by path.
func applicationID(docs []*m.Document) string {
	smds := make([]*m.Document, 0, 1)

	for _, d := range docs {
		if d.Kind == m.KindSMD && d.Tree != nil {
			smds = append(smds, d)
		}
	}

	sort.Slice(smds, func(i, j int) bool { return smds[i].Path < smds[j].Path })

	for _, d := range smds {
		if v := d.Tree.Lookup("applicationId"); v != nil && v.IsString() {
			if id := strings.TrimSpace(v.String()); id != "" {
				return id
			}
		}
	}

	return ""
}
