// Package loader turns canvas files into render-ready documents: it
// parses the canvas, pre-renders text nodes as Markdown and resolves
// file nodes against the other documents of the site.
package loader

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
)

// Document is a loaded canvas page.
type Document struct {
	SourcePath string
	Slug       string
	Title      string
	Diagram    *canvas.Diagram

	// RenderedTexts holds prerendered Markdown keyed by text node id.
	RenderedTexts map[string]template.HTML
	// EmbeddedContent holds the content of resolved documents keyed by
	// file node id.
	EmbeddedContent map[string]template.HTML
}

// Loader loads canvas documents from a content root.
type Loader struct {
	root   string
	md     *Markdown
	index  *Index
	logger *log.Logger
}

// New returns a Loader reading from root. index may be nil when file
// nodes should not be embedded.
func New(root string, md *Markdown, index *Index, logger *log.Logger) *Loader {
	if md == nil {
		md = NewMarkdown()
	}
	if index == nil {
		index = NewIndex()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{root: root, md: md, index: index, logger: logger}
}

// Load reads and prepares the canvas at relPath, relative to the content
// root. A malformed file returns an error wrapping canvas.ErrMalformed;
// failures inside single nodes only drop that node's prerendered content.
func (l *Loader) Load(relPath string) (*Document, error) {
	d, err := canvas.ParseFile(filepath.Join(l.root, relPath))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", relPath, err)
	}
	if d.Skipped > 0 {
		l.logger.Warn("skipped unsupported canvas nodes", "file", relPath, "count", d.Skipped)
	}

	doc := &Document{
		SourcePath:      relPath,
		Slug:            Slug(relPath),
		Title:           Title(relPath),
		Diagram:         d,
		RenderedTexts:   make(map[string]template.HTML),
		EmbeddedContent: make(map[string]template.HTML),
	}

	for _, n := range d.Nodes {
		switch n := n.(type) {
		case *canvas.TextNode:
			if n.Text == "" {
				continue
			}
			html, err := l.md.Render(n.Text)
			if err != nil {
				l.logger.Warn("rendering text node", "file", relPath, "node", n.ID, "err", err)
				continue
			}
			doc.RenderedTexts[n.ID] = html
		case *canvas.FileNode:
			slug, ok := l.index.Resolve(n.File)
			if !ok {
				l.logger.Debug("unresolved file node", "file", relPath, "node", n.ID, "ref", n.File)
				continue
			}
			if content, _ := l.index.Content(slug); content != "" {
				doc.EmbeddedContent[n.ID] = content
			}
		}
	}
	return doc, nil
}
