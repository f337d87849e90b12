// Package render turns a parsed canvas into the static markup of a canvas
// page: positioned node boxes, an SVG edge layer and the viewport chrome.
// The container carries the effective viewport configuration as data
// attributes, which is all the client-side controller reads.
//
// Render is a pure function of its inputs and is safe to call from many
// goroutines at once.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/layout"
)

var canvasTmpl = template.Must(template.New("canvas").Parse(canvasTemplate))

type canvasView struct {
	Empty          bool
	Interactive    bool
	Fullscreen     bool
	InitialZoom    string
	MinZoom        string
	MaxZoom        string
	ViewWidth      string
	ViewHeight     string
	ViewBox        string
	NodesTransform template.CSS
	ViewportSize   template.CSS
	Nodes          []nodeView
	Edges          template.HTML
	Icons          icons
}

type nodeView struct {
	Type  canvas.NodeType
	ID    string
	Style template.CSS

	// text
	HTML template.HTML
	Text string

	// file
	Href     string
	Slug     string
	Filename string
	Subpath  string
	Embed    template.HTML

	// link
	URL      string
	Hostname string

	// group
	Label           string
	Background      string
	BackgroundStyle canvas.BackgroundStyle
}

// Render produces the markup for d. texts and embeds are the optional
// render caches keyed by node id: prerendered Markdown for text nodes and
// embedded document HTML for file nodes. A nil diagram renders the empty
// state.
func Render(d *canvas.Diagram, texts, embeds map[string]template.HTML, opts Options) template.HTML {
	opts = opts.WithDefaults()
	view := canvasView{
		Interactive: opts.Interactive(),
		Fullscreen:  opts.DefaultFullscreen,
		InitialZoom: formatFloat(opts.InitialZoom),
		MinZoom:     formatFloat(opts.MinZoom),
		MaxZoom:     formatFloat(opts.MaxZoom),
		Icons:       controlIcons,
	}
	if d == nil {
		view.Empty = true
		return execute(view)
	}

	bounds := layout.Compute(d.Nodes)
	vb := bounds.View()
	offset := bounds.Offset()

	view.ViewWidth = layout.Num(vb.Width)
	view.ViewHeight = layout.Num(vb.Height)
	view.ViewBox = fmt.Sprintf("%s %s %s %s", layout.Num(vb.X), layout.Num(vb.Y), layout.Num(vb.Width), layout.Num(vb.Height))
	view.ViewportSize = template.CSS(fmt.Sprintf("width:%spx;height:%spx", view.ViewWidth, view.ViewHeight))
	view.NodesTransform = template.CSS(fmt.Sprintf("transform:translate(%spx,%spx)", layout.Num(offset.X), layout.Num(offset.Y)))

	view.Nodes = make([]nodeView, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		view.Nodes = append(view.Nodes, newNodeView(n, texts, embeds, opts))
	}

	var edges bytes.Buffer
	writeEdges(&edges, d)
	view.Edges = template.HTML(edges.String())

	return execute(view)
}

func execute(view canvasView) template.HTML {
	var buf bytes.Buffer
	if err := canvasTmpl.Execute(&buf, view); err != nil {
		// The template is static and every value is pre-validated, so this
		// only fires on a programming error.
		panic(fmt.Sprintf("render: executing canvas template: %v", err))
	}
	return template.HTML(buf.String())
}

func newNodeView(n canvas.Node, texts, embeds map[string]template.HTML, opts Options) nodeView {
	b := n.Base()
	v := nodeView{
		Type:  n.Type(),
		ID:    b.ID,
		Style: nodeStyle(b),
	}

	switch n := n.(type) {
	case *canvas.TextNode:
		v.HTML = texts[b.ID]
		v.Text = n.Text
	case *canvas.FileNode:
		v.Slug = FileSlug(n.File)
		v.Href = opts.fileHref(n.File)
		v.Filename = strings.TrimSuffix(lastSegment(n.File), ".md")
		v.Subpath = n.Subpath
		v.Embed = embeds[b.ID]
	case *canvas.LinkNode:
		v.URL = n.URL
		v.Hostname = Hostname(n.URL)
	case *canvas.GroupNode:
		v.Label = n.Label
		v.Background = n.Background
		v.BackgroundStyle = n.BackgroundStyle
	}
	return v
}

func nodeStyle(b canvas.NodeBase) template.CSS {
	style := fmt.Sprintf("left:%spx;top:%spx;width:%spx;height:%spx",
		layout.Num(b.X), layout.Num(b.Y), layout.Num(b.Width), layout.Num(b.Height))
	if color, ok := cssColor(b.Color); ok {
		style += ";--canvas-node-color:" + color
	}
	return template.CSS(style)
}

// Hostname returns the host of rawURL, or rawURL itself when it cannot be
// parsed or has no host.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
