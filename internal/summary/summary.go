// Package summary describes a canvas in plain terms: what is on it, where,
// and how it is connected. It backs the inspect command and the MCP tools.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/layout"
)

// labelWidth is the display width labels are cut to.
const labelWidth = 60

// Node describes one node.
type Node struct {
	ID     string          `json:"id"`
	Type   canvas.NodeType `json:"type"`
	Label  string          `json:"label"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Color  string          `json:"color,omitempty"`
}

// Edge describes one edge with its endpoints resolved to labels.
type Edge struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromLabel string `json:"from_label,omitempty"`
	ToLabel   string `json:"to_label,omitempty"`
	FromArrow bool   `json:"from_arrow"`
	ToArrow   bool   `json:"to_arrow"`
	Label     string `json:"label,omitempty"`
	// Dangling edges reference a missing node and are not drawn.
	Dangling bool `json:"dangling,omitempty"`
}

// Summary is a flat description of a diagram.
type Summary struct {
	Title   string                  `json:"title"`
	Bounds  layout.Bounds           `json:"bounds"`
	Counts  map[canvas.NodeType]int `json:"counts"`
	Nodes   []Node                  `json:"nodes"`
	Edges   []Edge                  `json:"edges"`
	Skipped int                     `json:"skipped"`
}

// Summarize describes d.
func Summarize(title string, d *canvas.Diagram) Summary {
	s := Summary{
		Title:   title,
		Bounds:  layout.Compute(d.Nodes),
		Counts:  make(map[canvas.NodeType]int),
		Nodes:   make([]Node, 0, len(d.Nodes)),
		Edges:   make([]Edge, 0, len(d.Edges)),
		Skipped: d.Skipped,
	}

	labels := make(map[string]string, len(d.Nodes))
	for _, n := range d.Nodes {
		b := n.Base()
		info := Node{
			ID:     b.ID,
			Type:   n.Type(),
			Label:  NodeLabel(n),
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
		}
		if c, ok := canvas.ResolveColor(b.Color); ok {
			info.Color = c
		}
		labels[b.ID] = info.Label
		s.Counts[info.Type]++
		s.Nodes = append(s.Nodes, info)
	}

	for _, e := range d.Edges {
		_, _, ok := d.Endpoints(e)
		s.Edges = append(s.Edges, Edge{
			ID:        e.ID,
			From:      e.FromNode,
			To:        e.ToNode,
			FromLabel: labels[e.FromNode],
			ToLabel:   labels[e.ToNode],
			FromArrow: e.HasFromArrow(),
			ToArrow:   e.HasToArrow(),
			Label:     e.Label,
			Dangling:  !ok,
		})
	}
	return s
}

// NodeLabel returns a one-line label for n: the first line of text, the
// referenced file, the URL or the group label.
func NodeLabel(n canvas.Node) string {
	var label string
	switch n := n.(type) {
	case *canvas.TextNode:
		for _, line := range strings.Split(n.Text, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "#>-* "))
			if line != "" {
				label = line
				break
			}
		}
	case *canvas.FileNode:
		label = n.File + n.Subpath
	case *canvas.LinkNode:
		label = n.URL
	case *canvas.GroupNode:
		label = n.Label
	}
	return runewidth.Truncate(label, labelWidth, "…")
}

// Arrow renders the direction of e, such as "->" or "<->".
func (e Edge) Arrow() string {
	switch {
	case e.FromArrow && e.ToArrow:
		return "<->"
	case e.FromArrow:
		return "<-"
	case e.ToArrow:
		return "->"
	default:
		return "--"
	}
}

// Markdown renders the summary as a Markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "**%d nodes, %d edges**", len(s.Nodes), len(s.Edges))
	if len(s.Nodes) > 0 {
		fmt.Fprintf(&b, " spanning (%s, %s) to (%s, %s)",
			layout.Num(s.Bounds.MinX), layout.Num(s.Bounds.MinY),
			layout.Num(s.Bounds.MaxX), layout.Num(s.Bounds.MaxY))
	}
	b.WriteString("\n")
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "\n%d unsupported nodes were skipped.\n", s.Skipped)
	}

	if len(s.Nodes) > 0 {
		b.WriteString("\n## Nodes\n\n| id | type | label | position | size |\n|---|---|---|---|---|\n")
		for _, n := range s.Nodes {
			fmt.Fprintf(&b, "| %s | %s | %s | %s, %s | %s × %s |\n",
				n.ID, n.Type, escapeCell(n.Label),
				layout.Num(n.X), layout.Num(n.Y), layout.Num(n.Width), layout.Num(n.Height))
		}
	}

	if len(s.Edges) > 0 {
		b.WriteString("\n## Edges\n\n")
		for _, e := range s.Edges {
			fmt.Fprintf(&b, "- `%s` %s `%s`", e.From, e.Arrow(), e.To)
			if e.Label != "" {
				fmt.Fprintf(&b, " %q", e.Label)
			}
			if e.Dangling {
				b.WriteString(" (dangling)")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CountsLine renders the node counts per type in a fixed order.
func (s Summary) CountsLine() string {
	types := make([]string, 0, len(s.Counts))
	for t := range s.Counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%d %s", s.Counts[canvas.NodeType(t)], t)
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
