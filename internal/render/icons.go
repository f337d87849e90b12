package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	svg "github.com/ajstarks/svgo"
)

// icon writes a 16px stroke icon on a 24-unit grid. The outer element is
// written by hand because svgo's Start emits an XML prolog, which does not
// belong inside an HTML document.
func icon(w io.Writer, class string, draw func(s *svg.SVG)) {
	classAttr := ""
	if class != "" {
		classAttr = fmt.Sprintf(` class="%s"`, class)
	}
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"%s>`, classAttr)
	draw(svg.New(w))
	io.WriteString(w, "</svg>")
}

func magnifier(s *svg.SVG) {
	s.Circle(11, 11, 8)
	s.Path("M21 21 L16.65 16.65")
	s.Line(8, 11, 14, 11)
}

// controlIcons holds the prerendered button icons. They never change, so
// they are built once.
var controlIcons = buildIcons()

type icons struct {
	Expand   template.HTML
	Collapse template.HTML
	ZoomIn   template.HTML
	ZoomOut  template.HTML
	Reset    template.HTML
}

func buildIcons() icons {
	render := func(class string, draw func(s *svg.SVG)) template.HTML {
		var buf bytes.Buffer
		icon(&buf, class, draw)
		return template.HTML(buf.String())
	}
	return icons{
		Expand: render("canvas-fullscreen-icon-expand", func(s *svg.SVG) {
			s.Polyline([]int{15, 21, 21}, []int{3, 3, 9})
			s.Polyline([]int{9, 3, 3}, []int{21, 21, 15})
			s.Line(21, 3, 14, 10)
			s.Line(3, 21, 10, 14)
		}),
		Collapse: render("canvas-fullscreen-icon-collapse", func(s *svg.SVG) {
			s.Polyline([]int{4, 10, 10}, []int{14, 14, 20})
			s.Polyline([]int{20, 14, 14}, []int{10, 10, 4})
			s.Line(14, 10, 21, 3)
			s.Line(3, 21, 10, 14)
		}),
		ZoomIn: render("", func(s *svg.SVG) {
			magnifier(s)
			s.Line(11, 8, 11, 14)
		}),
		ZoomOut: render("", magnifier),
		Reset: render("", func(s *svg.SVG) {
			s.Path("M3 12a9 9 0 1 0 9-9 9.75 9.75 0 0 0-6.74 2.74L3 8")
			s.Path("M3 3v5h5")
		}),
	}
}
