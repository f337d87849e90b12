// Package layout computes the diagram-space geometry of a canvas: the
// padded bounding viewport, edge anchor points, curved edge paths and
// label plates. Everything here is a pure function of its inputs.
package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
)

const (
	// Padding is added on every side of the node bounding box.
	Padding = 50.0

	// Border pushes side anchors just outside the node outline.
	Border = 2.0

	// Fallback box used when a diagram has no nodes.
	fallbackMax = 100.0

	labelCellWidth = 7.0
	labelPlatePad  = 8.0
	labelHeight    = 16.0
	labelLift      = 20.0

	// LabelBaseline is how far the label text sits above the curve midpoint.
	LabelBaseline = 8.0
)

// Point is a diagram-space coordinate.
type Point struct {
	X, Y float64
}

// Rect is a diagram-space rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether r fully contains o.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Bounds is the unpadded bounding box of all nodes.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Compute returns the bounding box of nodes, or [0,0]-[100,100] when
// there are none.
func Compute(nodes []canvas.Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{MaxX: fallbackMax, MaxY: fallbackMax}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		nb := n.Base()
		b.MinX = math.Min(b.MinX, nb.X)
		b.MinY = math.Min(b.MinY, nb.Y)
		b.MaxX = math.Max(b.MaxX, nb.X+nb.Width)
		b.MaxY = math.Max(b.MaxY, nb.Y+nb.Height)
	}
	return b
}

// View returns the padded viewport in diagram space.
func (b Bounds) View() Rect {
	return Rect{
		X:      b.MinX - Padding,
		Y:      b.MinY - Padding,
		Width:  b.MaxX - b.MinX + 2*Padding,
		Height: b.MaxY - b.MinY + 2*Padding,
	}
}

// Offset is the translation applied to the node wrapper so nodes keep
// their source coordinates while the viewport origin sits at (0, 0).
func (b Bounds) Offset() Point {
	return Point{X: -b.MinX + Padding, Y: -b.MinY + Padding}
}

// NodeRect returns the box occupied by n.
func NodeRect(n canvas.Node) Rect {
	b := n.Base()
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Anchor returns the point where an edge attaches to n on the given side.
// Side anchors sit at the midpoint of that side, Border units outside the
// node; an empty side anchors at the node center.
func Anchor(n canvas.Node, side canvas.Side) Point {
	b := n.Base()
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	switch side {
	case canvas.SideTop:
		return Point{X: cx, Y: b.Y - Border}
	case canvas.SideBottom:
		return Point{X: cx, Y: b.Y + b.Height + Border}
	case canvas.SideLeft:
		return Point{X: b.X - Border, Y: cy}
	case canvas.SideRight:
		return Point{X: b.X + b.Width + Border, Y: cy}
	default:
		return Point{X: cx, Y: cy}
	}
}

// Curve is a quadratic edge path from From to To that bends through a
// control point at the horizontal midpoint on the From row, then
// continues smoothly to To.
type Curve struct {
	From    Point
	Control Point
	Mid     Point
	To      Point
}

// EdgeCurve builds the curve between two anchors.
func EdgeCurve(from, to Point) Curve {
	mid := Point{X: from.X + (to.X-from.X)/2, Y: from.Y + (to.Y-from.Y)/2}
	return Curve{
		From:    from,
		Control: Point{X: mid.X, Y: from.Y},
		Mid:     mid,
		To:      to,
	}
}

// D returns the SVG path data for the curve.
func (c Curve) D() string {
	return fmt.Sprintf("M %s %s Q %s %s, %s %s T %s %s",
		Num(c.From.X), Num(c.From.Y),
		Num(c.Control.X), Num(c.Control.Y),
		Num(c.Mid.X), Num(c.Mid.Y),
		Num(c.To.X), Num(c.To.Y))
}

// LabelPlate returns the background plate for an edge label centered
// above mid. Its width follows the label's display width so wide runes
// get a wider plate.
func LabelPlate(label string, mid Point) Rect {
	w := float64(runewidth.StringWidth(label))
	return Rect{
		X:      mid.X - w*labelCellWidth/2 - labelPlatePad/2,
		Y:      mid.Y - labelLift,
		Width:  w*labelCellWidth + labelPlatePad,
		Height: labelHeight,
	}
}

// Num formats a coordinate without trailing zeros.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
