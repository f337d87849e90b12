package loader

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders GFM to HTML. It is shared by site pages, canvas text
// nodes and file-node embeds so all three look the same.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a renderer with GFM, syntax highlighting and heading
// ids enabled.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts src to HTML. goldmark instances are safe for concurrent
// use, so one Markdown can serve a whole parallel build.
func (m *Markdown) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(rewriteMDLinks(buf.String())), nil
}

// rewriteMDLinks points links at other documents to their generated pages.
func rewriteMDLinks(content string) string {
	for _, ext := range []string{".md", ".canvas"} {
		content = strings.ReplaceAll(content, ext+`"`, `.html"`)
		content = strings.ReplaceAll(content, ext+`#`, `.html#`)
	}
	return content
}
