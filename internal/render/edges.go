package render

import (
	"fmt"
	"html"
	"io"
	"regexp"

	svg "github.com/ajstarks/svgo/float"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/layout"
)

// defaultStroke is the theme neutral used for edges without a color.
const defaultStroke = "var(--darkgray)"

var (
	safeColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)
	unsafeID  = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// cssColor resolves c and rejects anything that is not a plain hex value,
// since the result lands inside style and presentation attributes.
func cssColor(c canvas.Color) (string, bool) {
	css, ok := canvas.ResolveColor(c)
	if !ok || !safeColor.MatchString(css) {
		return "", false
	}
	return css, true
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// markerKey derives a fragment-safe id for the edge's markers. Ids that
// need rewriting are prefixed with the edge position to stay unique.
func markerKey(i int, id string) string {
	if !unsafeID.MatchString(id) && id != "" {
		return id
	}
	return fmt.Sprintf("%d-%s", i, unsafeID.ReplaceAllString(id, "_"))
}

// writeEdges draws every resolvable edge and returns how many were drawn.
// Edges whose endpoints are missing are skipped silently.
func writeEdges(w io.Writer, d *canvas.Diagram) int {
	s := svg.New(w)
	drawn := 0
	for i, e := range d.Edges {
		from, to, ok := d.Endpoints(e)
		if !ok {
			continue
		}
		writeEdge(s, i, e, from, to)
		drawn++
	}
	return drawn
}

func writeEdge(s *svg.SVG, i int, e canvas.Edge, from, to canvas.Node) {
	curve := layout.EdgeCurve(layout.Anchor(from, e.FromSide), layout.Anchor(to, e.ToSide))

	stroke, ok := cssColor(e.Color)
	if !ok {
		stroke = defaultStroke
	}
	key := markerKey(i, e.ID)
	endID := "arrow-" + key
	startID := "arrow-start-" + key

	s.Group(`class="canvas-edge"`, attr("data-edge-id", e.ID))
	s.Def()
	if e.HasToArrow() {
		s.Marker(endID, 9, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto-start-reverse"`)
		s.Path("M 0 0 L 10 5 L 0 10 z", attr("fill", stroke))
		s.MarkerEnd()
	}
	if e.HasFromArrow() {
		s.Marker(startID, 1, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto-start-reverse"`)
		s.Path("M 10 0 L 0 5 L 10 10 z", attr("fill", stroke))
		s.MarkerEnd()
	}
	s.DefEnd()

	pathAttrs := []string{`fill="none"`, attr("stroke", stroke), `stroke-width="2"`}
	if e.HasToArrow() {
		pathAttrs = append(pathAttrs, attr("marker-end", "url(#"+endID+")"))
	}
	if e.HasFromArrow() {
		pathAttrs = append(pathAttrs, attr("marker-start", "url(#"+startID+")"))
	}
	s.Path(curve.D(), pathAttrs...)

	if e.Label != "" {
		plate := layout.LabelPlate(e.Label, curve.Mid)
		s.Group(`class="canvas-edge-label-group"`)
		s.Roundrect(plate.X, plate.Y, plate.Width, plate.Height, 3, 3,
			`class="canvas-edge-label-bg"`)
		s.Text(curve.Mid.X, curve.Mid.Y, e.Label,
			`class="canvas-edge-label"`, `text-anchor="middle"`, fmt.Sprintf(`dy="-%d"`, int(layout.LabelBaseline)))
		s.Gend()
	}
	s.Gend()
}
