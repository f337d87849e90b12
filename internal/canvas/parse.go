package canvas

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// ErrMalformed is returned when a document is not valid canvas JSON.
var ErrMalformed = errors.New("malformed canvas document")

// rawNode is the wire form of every node variant.
type rawNode struct {
	ID              string          `json:"id"`
	Type            NodeType        `json:"type"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	Color           Color           `json:"color"`
	Text            string          `json:"text"`
	File            string          `json:"file"`
	Subpath         string          `json:"subpath"`
	URL             string          `json:"url"`
	Label           string          `json:"label"`
	Background      string          `json:"background"`
	BackgroundStyle BackgroundStyle `json:"backgroundStyle"`
}

type rawDocument struct {
	Nodes []rawNode `json:"nodes"`
	Edges []Edge    `json:"edges"`
}

// Parse decodes a JSON Canvas document. Missing nodes or edges arrays are
// treated as empty. Nodes with an unknown type or no id are dropped and
// counted in Diagram.Skipped instead of failing the whole document.
func Parse(data []byte) (*Diagram, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	nodes := make([]Node, 0, len(raw.Nodes))
	skipped := 0
	for _, rn := range raw.Nodes {
		n, ok := rn.node()
		if !ok {
			skipped++
			continue
		}
		nodes = append(nodes, n)
	}

	edges := raw.Edges
	if edges == nil {
		edges = []Edge{}
	}

	d := New(nodes, edges)
	d.Skipped += skipped
	return d, nil
}

// ParseFile reads and parses the canvas document at path.
func ParseFile(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

func (rn rawNode) node() (Node, bool) {
	if rn.ID == "" {
		return nil, false
	}
	base := NodeBase{
		ID:     rn.ID,
		X:      rn.X,
		Y:      rn.Y,
		Width:  max(rn.Width, 0),
		Height: max(rn.Height, 0),
		Color:  rn.Color,
	}
	switch rn.Type {
	case NodeText:
		return &TextNode{NodeBase: base, Text: rn.Text}, true
	case NodeFile:
		return &FileNode{NodeBase: base, File: rn.File, Subpath: rn.Subpath}, true
	case NodeLink:
		return &LinkNode{NodeBase: base, URL: rn.URL}, true
	case NodeGroup:
		return &GroupNode{
			NodeBase:        base,
			Label:           rn.Label,
			Background:      rn.Background,
			BackgroundStyle: rn.BackgroundStyle,
		}, true
	default:
		return nil, false
	}
}
