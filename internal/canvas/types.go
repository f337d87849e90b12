// Package canvas holds the JSON Canvas 1.0 document model: a flat list of
// positioned nodes and the directed edges that connect them.
//
// Nodes form a closed sum type. Every variant implements Node and callers
// dispatch on the concrete type with a type switch:
//
//	switch n := node.(type) {
//	case *canvas.TextNode:
//	case *canvas.FileNode:
//	case *canvas.LinkNode:
//	case *canvas.GroupNode:
//	}
package canvas

// NodeType discriminates the node variants in the source document.
type NodeType string

const (
	NodeText  NodeType = "text"
	NodeFile  NodeType = "file"
	NodeLink  NodeType = "link"
	NodeGroup NodeType = "group"
)

// Side is the node side an edge attaches to. The empty Side means the
// node's geometric center.
type Side string

const (
	SideNone   Side = ""
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// End is the decoration drawn at an edge endpoint.
type End string

const (
	EndUnset End = ""
	EndNone  End = "none"
	EndArrow End = "arrow"
)

// BackgroundStyle controls how a group's background image is laid out.
type BackgroundStyle string

const (
	BackgroundCover  BackgroundStyle = "cover"
	BackgroundRatio  BackgroundStyle = "ratio"
	BackgroundRepeat BackgroundStyle = "repeat"
)

// NodeBase carries the fields shared by every node variant. Coordinates
// are in diagram space with (X, Y) the top-left corner.
type NodeBase struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  Color
}

// Base returns the shared node fields.
func (b NodeBase) Base() NodeBase { return b }

// Node is one of *TextNode, *FileNode, *LinkNode or *GroupNode.
type Node interface {
	Base() NodeBase
	Type() NodeType
	isNode()
}

// TextNode holds Markdown text.
type TextNode struct {
	NodeBase
	Text string
}

// FileNode references another document in the content tree.
type FileNode struct {
	NodeBase
	File    string
	Subpath string
}

// LinkNode references an external URL.
type LinkNode struct {
	NodeBase
	URL string
}

// GroupNode is a purely visual container.
type GroupNode struct {
	NodeBase
	Label           string
	Background      string
	BackgroundStyle BackgroundStyle
}

func (*TextNode) Type() NodeType  { return NodeText }
func (*FileNode) Type() NodeType  { return NodeFile }
func (*LinkNode) Type() NodeType  { return NodeLink }
func (*GroupNode) Type() NodeType { return NodeGroup }

func (*TextNode) isNode()  {}
func (*FileNode) isNode()  {}
func (*LinkNode) isNode()  {}
func (*GroupNode) isNode() {}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide Side   `json:"fromSide,omitempty"`
	FromEnd  End    `json:"fromEnd,omitempty"`
	ToNode   string `json:"toNode"`
	ToSide   Side   `json:"toSide,omitempty"`
	ToEnd    End    `json:"toEnd,omitempty"`
	Color    Color  `json:"color,omitempty"`
	Label    string `json:"label,omitempty"`
}

// HasFromArrow reports whether an arrowhead is drawn at the source end.
// The source end defaults to none.
func (e Edge) HasFromArrow() bool { return e.FromEnd == EndArrow }

// HasToArrow reports whether an arrowhead is drawn at the destination end.
// The destination end defaults to arrow.
func (e Edge) HasToArrow() bool { return e.ToEnd != EndNone }

// Diagram is a parsed canvas document. It is not modified after Parse.
type Diagram struct {
	Nodes []Node
	Edges []Edge

	// Skipped counts nodes dropped during parsing (unknown type, missing id).
	Skipped int

	byID map[string]Node
}

// NodeByID returns the node with the given id.
func (d *Diagram) NodeByID(id string) (Node, bool) {
	if d == nil {
		return nil, false
	}
	n, ok := d.byID[id]
	return n, ok
}

// Endpoints resolves both ends of e. ok is false when either id is missing.
func (d *Diagram) Endpoints(e Edge) (from, to Node, ok bool) {
	from, okFrom := d.NodeByID(e.FromNode)
	to, okTo := d.NodeByID(e.ToNode)
	return from, to, okFrom && okTo
}

// New builds a Diagram from already-typed nodes and edges. Nodes with an
// id that was already seen are dropped and counted in Skipped.
func New(nodes []Node, edges []Edge) *Diagram {
	d := &Diagram{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: edges,
		byID:  make(map[string]Node, len(nodes)),
	}
	for _, n := range nodes {
		id := n.Base().ID
		if _, dup := d.byID[id]; dup {
			d.Skipped++
			continue
		}
		d.byID[id] = n
		d.Nodes = append(d.Nodes, n)
	}
	return d
}
