package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
)

func twoNodeDiagram() *canvas.Diagram {
	return canvas.New(
		[]canvas.Node{
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "1", Width: 200, Height: 100}, Text: "Hello"},
			&canvas.FileNode{NodeBase: canvas.NodeBase{ID: "2", X: 300, Width: 200, Height: 100}, File: "notes/test.md"},
		},
		[]canvas.Edge{{ID: "e1", FromNode: "1", ToNode: "2"}},
	)
}

func TestRenderTwoNodes(t *testing.T) {
	out := string(Render(twoNodeDiagram(), nil, nil, Options{}))

	if got := strings.Count(out, `class="canvas-edge"`); got != 1 {
		t.Errorf("edge count = %d, want 1", got)
	}
	wants := []string{
		`id="arrow-e1"`,
		`marker-end="url(#arrow-e1)"`,
		`style="width:600px;height:200px"`,
		`viewBox="-50 -50 600 200"`,
		`transform:translate(50px,50px)`,
		`data-node-id="1"`,
		`class="canvas-node canvas-node-file"`,
		`href="/notes/test"`,
		`data-slug="notes/test"`,
		`>test</a>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "arrow-start") {
		t.Error("default edge should not have a source arrow")
	}
}

func TestRenderDataAttributes(t *testing.T) {
	off := false
	out := string(Render(twoNodeDiagram(), nil, nil, Options{
		EnableInteraction: &off,
		InitialZoom:       2,
		MinZoom:           0.5,
		MaxZoom:           4,
		DefaultFullscreen: true,
	}))

	wants := []string{
		`class="canvas-container canvas-fullscreen"`,
		`data-enable-interaction="false"`,
		`data-initial-zoom="2"`,
		`data-min-zoom="0.5"`,
		`data-max-zoom="4"`,
		`data-default-fullscreen="true"`,
		`canvas-fullscreen-toggle`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, unwanted := range []string{"canvas-zoom-in", "canvas-reset-view"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("non-interactive output contains %q", unwanted)
		}
	}
}

func TestRenderDefaults(t *testing.T) {
	out := string(Render(twoNodeDiagram(), nil, nil, Options{}))
	wants := []string{
		`data-enable-interaction="true"`,
		`data-initial-zoom="1"`,
		`data-min-zoom="0.1"`,
		`data-max-zoom="5"`,
		`data-default-fullscreen="false"`,
		`class="canvas-zoom-in"`,
		`class="canvas-reset-view" type="button" aria-label="Reset view" style="display:none"`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderNilDiagram(t *testing.T) {
	out := string(Render(nil, nil, nil, Options{}))
	if !strings.Contains(out, "No canvas data found.") {
		t.Errorf("expected empty state, got %q", out)
	}
	if strings.Contains(out, "canvas-container") {
		t.Error("empty state should not render a container")
	}
}

func TestRenderEmptyDiagram(t *testing.T) {
	out := string(Render(canvas.New(nil, nil), nil, nil, Options{}))
	if !strings.Contains(out, `style="width:200px;height:200px"`) {
		t.Errorf("expected fallback viewport, got %q", out)
	}
	if !strings.Contains(out, `viewBox="-50 -50 200 200"`) {
		t.Errorf("expected fallback viewBox, got %q", out)
	}
}

func TestRenderDanglingEdge(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "1", Width: 10, Height: 10}}},
		[]canvas.Edge{
			{ID: "gone", FromNode: "1", ToNode: "missing"},
			{ID: "self", FromNode: "1", ToNode: "1"},
		},
	)
	out := string(Render(d, nil, nil, Options{}))
	if strings.Contains(out, `data-edge-id="gone"`) {
		t.Error("edge with a missing endpoint was rendered")
	}
	if !strings.Contains(out, `data-edge-id="self"`) {
		t.Error("resolvable edge was dropped")
	}
}

func TestRenderEdgesProperty(t *testing.T) {
	hostile := []string{"plain", "a&b", "<script>alert(1)</script>", `"><script>x</script>`, "</text><script>"}
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(t, "nodes")
		nodes := make([]canvas.Node, count)
		for i := range nodes {
			nodes[i] = &canvas.TextNode{
				NodeBase: canvas.NodeBase{
					ID:     fmt.Sprintf("n%d", i),
					X:      rapid.Float64Range(-1000, 1000).Draw(t, "x"),
					Y:      rapid.Float64Range(-1000, 1000).Draw(t, "y"),
					Width:  rapid.Float64Range(1, 400).Draw(t, "w"),
					Height: rapid.Float64Range(1, 400).Draw(t, "h"),
				},
				Text: rapid.SampledFrom(hostile).Draw(t, "text"),
			}
		}
		ids := make([]string, 0, count+1)
		for i := range count {
			ids = append(ids, fmt.Sprintf("n%d", i))
		}
		ids = append(ids, "missing")

		edgeCount := rapid.IntRange(0, 10).Draw(t, "edges")
		edges := make([]canvas.Edge, edgeCount)
		for i := range edges {
			edges[i] = canvas.Edge{
				ID:       fmt.Sprintf("e%d", i),
				FromNode: rapid.SampledFrom(ids).Draw(t, "from"),
				ToNode:   rapid.SampledFrom(ids).Draw(t, "to"),
				Label:    rapid.SampledFrom(hostile).Draw(t, "label"),
			}
		}

		out := string(Render(canvas.New(nodes, edges), nil, nil, Options{}))
		if strings.Contains(out, "<script") {
			t.Fatalf("unescaped markup in output:\n%s", out)
		}
		for _, e := range edges {
			dangling := e.FromNode == "missing" || e.ToNode == "missing"
			got := strings.Count(out, fmt.Sprintf(`data-edge-id="%s"`, e.ID))
			if dangling && got != 0 {
				t.Fatalf("dangling edge %s rendered %d times", e.ID, got)
			}
			if !dangling && got != 1 {
				t.Fatalf("edge %s rendered %d times, want 1", e.ID, got)
			}
		}
	})
}

func TestRenderEdgeLabelPosition(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "a", Width: 1, Height: 1}},
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "b", X: 0.5, Y: 0.5, Width: 1, Height: 1}},
		},
		[]canvas.Edge{{ID: "e", FromNode: "a", ToNode: "b", Label: "ab"}},
	)
	out := string(Render(d, nil, nil, Options{}))

	tests := []struct {
		name  string
		re    *regexp.Regexp
		wantX float64
		wantY float64
	}{
		{"text", regexp.MustCompile(`<text x="([-0-9.]+)" y="([-0-9.]+)"`), 0.75, 0.75},
		{"plate", regexp.MustCompile(`<rect x="([-0-9.]+)" y="([-0-9.]+)"`), -10.25, -19.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.re.FindStringSubmatch(out)
			if m == nil {
				t.Fatalf("no %s element in output:\n%s", tt.name, out)
			}
			x, _ := strconv.ParseFloat(m[1], 64)
			y, _ := strconv.ParseFloat(m[2], 64)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("%s at (%g, %g), want (%g, %g)", tt.name, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestRenderEdgeDecorations(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "a", Width: 100, Height: 50}},
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "b", Y: 200, Width: 100, Height: 50}},
		},
		[]canvas.Edge{{
			ID: "e", FromNode: "a", FromSide: canvas.SideBottom, FromEnd: canvas.EndArrow,
			ToNode: "b", ToSide: canvas.SideTop, ToEnd: canvas.EndNone,
			Color: "1", Label: "a<b",
		}},
	)
	out := string(Render(d, nil, nil, Options{}))

	wants := []string{
		`id="arrow-start-e"`,
		`marker-start="url(#arrow-start-e)"`,
		`stroke="#fb464c"`,
		`class="canvas-edge-label"`,
		`a&lt;b`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, `id="arrow-e"`) {
		t.Error("toEnd none should suppress the destination arrow")
	}
}

func TestRenderRejectsUnsafeColor(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "1", Width: 10, Height: 10, Color: `#fff;background:url(x)`}}},
		nil,
	)
	out := string(Render(d, nil, nil, Options{}))
	if strings.Contains(out, "--canvas-node-color") {
		t.Errorf("unsafe color leaked into style: %q", out)
	}
}

func TestRenderTextNode(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "cached", Width: 10, Height: 10, Color: "#abc"}, Text: "ignored"},
			&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "raw", Width: 10, Height: 10}, Text: "<b>raw</b>"},
		},
		nil,
	)
	texts := map[string]template.HTML{"cached": "<p><strong>rendered</strong></p>"}
	out := string(Render(d, texts, nil, Options{}))

	if !strings.Contains(out, "<p><strong>rendered</strong></p>") {
		t.Error("cached HTML not used")
	}
	if strings.Contains(out, "ignored") {
		t.Error("raw text rendered despite cache entry")
	}
	if !strings.Contains(out, "&lt;b&gt;raw&lt;/b&gt;") {
		t.Error("raw text fallback not escaped")
	}
	if !strings.Contains(out, "--canvas-node-color:#abc") {
		t.Error("node color missing")
	}
}

func TestRenderFileEmbed(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{&canvas.FileNode{NodeBase: canvas.NodeBase{ID: "f", Width: 10, Height: 10}, File: "docs/guide.md", Subpath: "#Setup"}},
		nil,
	)
	embeds := map[string]template.HTML{"f": "<h1>Guide</h1>"}
	out := string(Render(d, nil, embeds, Options{FileHref: func(file string) string {
		return "/site/" + FileSlug(file) + ".html"
	}}))

	wants := []string{
		`<div class="canvas-embed-content"><h1>Guide</h1></div>`,
		`<span class="canvas-file-subpath">#Setup</span>`,
		`href="/site/docs/guide.html"`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, "canvas-file-link"); got != 1 {
		t.Errorf("file links = %d, want 1 (label only when embedded)", got)
	}
}

func TestRenderLinkNode(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{
			&canvas.LinkNode{NodeBase: canvas.NodeBase{ID: "ok", Width: 10, Height: 10}, URL: "https://example.com/path?q=1"},
			&canvas.LinkNode{NodeBase: canvas.NodeBase{ID: "bad", Width: 10, Height: 10}, URL: "not a url"},
		},
		nil,
	)
	out := string(Render(d, nil, nil, Options{}))

	wants := []string{
		`>example.com</a>`,
		`Open example.com in new tab`,
		`sandbox="allow-scripts allow-same-origin allow-popups"`,
		`loading="lazy"`,
		`>not a url</a>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderGroupNode(t *testing.T) {
	d := canvas.New(
		[]canvas.Node{&canvas.GroupNode{
			NodeBase:        canvas.NodeBase{ID: "g", Width: 10, Height: 10},
			Label:           "Team",
			Background:      "img/bg.png",
			BackgroundStyle: canvas.BackgroundCover,
		}},
		nil,
	)
	out := string(Render(d, nil, nil, Options{}))
	wants := []string{
		`canvas-node-group canvas-group-bg-cover`,
		`<div class="canvas-group-label">Team</div>`,
		`src="img/bg.png"`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a", "example.com"},
		{"http://user@host.test:8080/x", "host.test"},
		{"http://[::1", "http://[::1"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Hostname(tt.in); got != tt.want {
			t.Errorf("Hostname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkerKey(t *testing.T) {
	if got := markerKey(0, "e1"); got != "e1" {
		t.Errorf("markerKey = %q, want %q", got, "e1")
	}
	if got := markerKey(3, "a b"); got != "3-a_b" {
		t.Errorf("markerKey = %q, want %q", got, "3-a_b")
	}
	if got := markerKey(2, ""); got != "2-" {
		t.Errorf("markerKey = %q, want %q", got, "2-")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       Options
		want     Options
		warnings int
	}{
		{"defaults", Options{}, Options{InitialZoom: 1, MinZoom: 0.1, MaxZoom: 5}, 0},
		{"negative", Options{MinZoom: -1}, Options{InitialZoom: 1, MinZoom: 0.1, MaxZoom: 5}, 1},
		{"inverted", Options{MinZoom: 4, MaxZoom: 2, InitialZoom: 3}, Options{InitialZoom: 3, MinZoom: 2, MaxZoom: 4}, 1},
		{"initial above max", Options{InitialZoom: 9}, Options{InitialZoom: 5, MinZoom: 0.1, MaxZoom: 5}, 1},
		{"initial below min", Options{InitialZoom: 0.5, MinZoom: 1, MaxZoom: 2}, Options{InitialZoom: 1, MinZoom: 1, MaxZoom: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := tt.in.Sanitize()
			if got.InitialZoom != tt.want.InitialZoom || got.MinZoom != tt.want.MinZoom || got.MaxZoom != tt.want.MaxZoom {
				t.Errorf("Sanitize() = %+v, want %+v", got, tt.want)
			}
			if len(warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.warnings)
			}
		})
	}
}
