package site

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/db"
	"github.com/ziadkadry99/canvasdoc/internal/loader"
	"github.com/ziadkadry99/canvasdoc/internal/logging"
)

const sampleVault = "../../testdata/sample_vault"

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.New(io.Discard, false))
}

// newTestGenerator returns a generator writing into a temp dir with an
// in-memory build state.
func newTestGenerator(t *testing.T, contentDir string) *SiteGenerator {
	t.Helper()
	state, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return &SiteGenerator{
		ContentDir:     contentDir,
		OutputDir:      t.TempDir(),
		SiteTitle:      "test-site",
		MaxConcurrency: 4,
		Incremental:    true,
		State:          state,
	}
}

func readOutput(t *testing.T, g *SiteGenerator, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(g.OutputDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildTree(t *testing.T) {
	paths := []string{
		"index.md",
		"boards/roadmap.canvas",
		"boards/archive/2023.canvas",
		"notes/setup.md",
		"notes/ideas.md",
	}

	tree := BuildTree(paths, map[string]string{"notes/setup.md": "Setup Guide"})

	if !tree.IsDir {
		t.Error("root should be a directory")
	}
	// Directories first: boards, notes, then index.md.
	if len(tree.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(tree.Children))
	}
	if tree.Children[0].Name != "boards" || !tree.Children[0].IsDir {
		t.Errorf("first child = %q (dir=%v), want boards dir", tree.Children[0].Name, tree.Children[0].IsDir)
	}
	if tree.Children[2].Name != "index.md" || tree.Children[2].IsDir {
		t.Errorf("third child = %q (dir=%v), want index.md file", tree.Children[2].Name, tree.Children[2].IsDir)
	}

	boards := tree.Children[0]
	if len(boards.Children) != 2 {
		t.Fatalf("boards children = %d, want 2", len(boards.Children))
	}
	if boards.Children[0].Name != "archive" || !boards.Children[0].IsDir {
		t.Errorf("boards first child = %q, want archive dir", boards.Children[0].Name)
	}
	roadmap := boards.Children[1]
	if !roadmap.IsCanvas {
		t.Error("roadmap.canvas should be flagged as a canvas")
	}

	notes := tree.Children[1]
	if notes.Children[0].Name != "ideas.md" || notes.Children[0].IsCanvas {
		t.Errorf("notes first child = %q (canvas=%v), want ideas.md", notes.Children[0].Name, notes.Children[0].IsCanvas)
	}
	if notes.Children[1].Title != "Setup Guide" {
		t.Errorf("setup title = %q, want %q", notes.Children[1].Title, "Setup Guide")
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(nil, nil)
	if len(tree.Children) != 0 {
		t.Errorf("empty tree children = %d, want 0", len(tree.Children))
	}
}

func TestTreeToHTML(t *testing.T) {
	tree := BuildTree([]string{"index.md", "boards/plan <v2>.canvas", "notes/a.md"}, nil)
	html := tree.ToHTML("boards/plan <v2>.canvas", "../")

	if !strings.Contains(html, `<li class="dir expanded"><span class="dir-toggle">Boards</span>`) {
		t.Errorf("active directory should be expanded:\n%s", html)
	}
	if !strings.Contains(html, `class="file canvas-file"`) {
		t.Error("canvas entries should carry the canvas-file class")
	}
	if !strings.Contains(html, `href="../boards/plan &lt;v2&gt;.html" class="active">plan &lt;v2&gt;</a>`) {
		t.Errorf("active canvas link missing or unescaped:\n%s", html)
	}
	if !strings.Contains(html, `href="../notes/a.html"`) {
		t.Error("markdown link should point at the .html route")
	}
	if !strings.Contains(html, `href="../index.html"`) {
		t.Error("home link should use the base path")
	}
}

func TestPageRoute(t *testing.T) {
	tests := []struct {
		input, want, base string
	}{
		{"index.md", "index.html", ""},
		{"boards/roadmap.canvas", "boards/roadmap.html", "../"},
		{"a/b/c.go.md", "a/b/c.go.html", "../../"},
	}
	for _, tt := range tests {
		got := pageRoute(tt.input)
		if got != tt.want {
			t.Errorf("pageRoute(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if base := basePathFor(got); base != tt.base {
			t.Errorf("basePathFor(%q) = %q, want %q", got, base, tt.base)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	if got := cleanDisplayName("roadmap.canvas"); got != "roadmap" {
		t.Errorf("cleanDisplayName = %q, want %q", got, "roadmap")
	}
	if got := formatDirName("project_notes-2024"); got != "Project Notes 2024" {
		t.Errorf("formatDirName = %q, want %q", got, "Project Notes 2024")
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		content, path, want string
	}{
		{"# Hello World\n\nSome text", "x.md", "Hello World"},
		{"Some text\n# Title Later", "x.md", "Title Later"},
		{"No heading here", "notes/foo.md", "foo"},
		{"", "bar.md", "bar"},
	}
	for _, tt := range tests {
		got := extractTitle(tt.content, tt.path)
		if got != tt.want {
			t.Errorf("extractTitle(%q, %q) = %q, want %q", tt.content, tt.path, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 2); got != "h" {
		t.Errorf("truncate should not split runes, got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("truncate(%q, 10) = %q", "abc", got)
	}
}

func TestSearchEntries(t *testing.T) {
	md := markdownSearchEntry("notes/setup.md", "# Setup\n\nInstall the toolchain.\n\n## Next\n")
	if md.Path != "notes/setup.html" || md.Title != "Setup" || md.Kind != "markdown" {
		t.Errorf("markdown entry = %+v", md)
	}
	if md.Summary != "Install the toolchain." {
		t.Errorf("summary = %q", md.Summary)
	}

	d := canvas.New([]canvas.Node{
		&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "a"}, Text: "  First\nidea  "},
		&canvas.GroupNode{NodeBase: canvas.NodeBase{ID: "g"}, Label: "Cluster"},
		&canvas.FileNode{NodeBase: canvas.NodeBase{ID: "f"}, File: "notes/setup.md"},
		&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "b"}, Text: "second"},
	}, nil)
	entry := canvasSearchEntry(&loader.Document{SourcePath: "boards/x.canvas", Title: "x", Diagram: d})
	if entry.Path != "boards/x.html" || entry.Kind != "canvas" {
		t.Errorf("canvas entry = %+v", entry)
	}
	if entry.Summary != "First idea" {
		t.Errorf("summary = %q, want %q", entry.Summary, "First idea")
	}
	if entry.Content != "First idea Cluster setup second" {
		t.Errorf("content = %q", entry.Content)
	}
}

func TestGenerateSampleVault(t *testing.T) {
	g := newTestGenerator(t, sampleVault)
	res, err := g.Generate(testContext())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if res.Pages != 6 {
		t.Errorf("pages = %d, want 6", res.Pages)
	}
	if res.Canvases != 2 {
		t.Errorf("canvases = %d, want 2", res.Canvases)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (broken.canvas)", res.Skipped)
	}
	if res.BuildID == "" {
		t.Error("build id should be recorded")
	}

	for _, f := range []string{
		"index.html", "notes/setup.html", "notes/ideas.html", "drafts/scratch.html",
		"boards/roadmap.html", "boards/empty.html",
		"style.css", "canvas.css", "script.js", "search-index.json",
	} {
		if _, err := os.Stat(filepath.Join(g.OutputDir, filepath.FromSlash(f))); err != nil {
			t.Errorf("expected file %s: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(g.OutputDir, "boards", "broken.html")); err == nil {
		t.Error("malformed canvas should not produce a page")
	}

	index := readOutput(t, g, "index.html")
	if !strings.Contains(index, `href="boards/roadmap.html"`) {
		t.Error("index.html should link the canvas page by its .html route")
	}
	if strings.Contains(index, "canvas.css") {
		t.Error("markdown pages should not load canvas.css")
	}

	roadmap := readOutput(t, g, "boards/roadmap.html")
	for _, want := range []string{
		`<link rel="stylesheet" href="../canvas.css">`,
		`class="canvas-container"`,
		`data-node-id="goal"`,
		`<strong>interactive</strong>`,
		`href="../notes/setup.html"`,
		`>Setup</h1>`,
		`data-edge-id="goal-setup"`,
		`Open jsoncanvas.org in new tab`,
	} {
		if !strings.Contains(roadmap, want) {
			t.Errorf("roadmap.html missing %q", want)
		}
	}
	if strings.Contains(roadmap, "wasm_exec.js") {
		t.Error("controller script should not be referenced without a wasm bundle")
	}

	var entries []SearchEntry
	if err := json.Unmarshal([]byte(readOutput(t, g, "search-index.json")), &entries); err != nil {
		t.Fatalf("parsing search-index.json: %v", err)
	}
	if len(entries) != 6 {
		t.Errorf("search entries = %d, want 6", len(entries))
	}
	found := false
	for _, e := range entries {
		if e.Path == "boards/roadmap.html" {
			found = e.Kind == "canvas" && strings.Contains(e.Content, "Q3 goal")
		}
	}
	if !found {
		t.Error("roadmap canvas should be indexed by its text nodes")
	}

	pages, err := g.State.ListPages(context.Background(), "canvas")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("canvas pages recorded = %d, want 2", len(pages))
	}
	if pages[1].Slug != "boards/roadmap" || pages[1].Nodes != 4 || pages[1].Edges != 2 {
		t.Errorf("roadmap state = %+v", pages[1])
	}
}

func TestGenerateIncremental(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "a.md"), "# A\n\nfirst")
	writeTestFile(t, filepath.Join(content, "b.md"), "# B")
	writeTestFile(t, filepath.Join(content, "board.canvas"),
		`{"nodes":[{"id":"n","type":"file","x":0,"y":0,"width":100,"height":100,"file":"a.md"}]}`)

	g := newTestGenerator(t, content)
	ctx := testContext()

	res, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if res.Unchanged != 0 {
		t.Errorf("first build unchanged = %d, want 0", res.Unchanged)
	}

	res, err = g.Generate(ctx)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if res.Unchanged != 3 {
		t.Errorf("second build unchanged = %d, want 3", res.Unchanged)
	}

	// Editing an embedded note rewrites it and every canvas, not b.md.
	writeTestFile(t, filepath.Join(content, "a.md"), "# A\n\nsecond")
	res, err = g.Generate(ctx)
	if err != nil {
		t.Fatalf("third Generate: %v", err)
	}
	if res.Unchanged != 1 {
		t.Errorf("after edit unchanged = %d, want 1", res.Unchanged)
	}
	if board := readOutput(t, g, "board.html"); !strings.Contains(board, "second") {
		t.Error("canvas should embed the updated note")
	}

	// A deleted output page is written again.
	if err := os.Remove(filepath.Join(g.OutputDir, "b.html")); err != nil {
		t.Fatal(err)
	}
	res, err = g.Generate(ctx)
	if err != nil {
		t.Fatalf("fourth Generate: %v", err)
	}
	if res.Unchanged != 2 {
		t.Errorf("after delete unchanged = %d, want 2", res.Unchanged)
	}

	g.Force = true
	res, err = g.Generate(ctx)
	if err != nil {
		t.Fatalf("forced Generate: %v", err)
	}
	if res.Unchanged != 0 {
		t.Errorf("forced build unchanged = %d, want 0", res.Unchanged)
	}

	latest, err := g.State.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("LatestBuild: %v", err)
	}
	if latest.ID != res.BuildID || latest.Status != db.BuildCompleted {
		t.Errorf("latest build = %+v, want completed %s", latest, res.BuildID)
	}
}

func TestGenerateControllerAssets(t *testing.T) {
	content := t.TempDir()
	assets := t.TempDir()
	writeTestFile(t, filepath.Join(content, "board.canvas"), `{"nodes":[]}`)
	writeTestFile(t, filepath.Join(assets, "viewport.wasm"), "\x00asm")
	writeTestFile(t, filepath.Join(assets, "wasm_exec.js"), "// go runtime")

	g := newTestGenerator(t, content)
	g.WASMPath = filepath.Join(assets, "viewport.wasm")
	g.WASMExecPath = filepath.Join(assets, "wasm_exec.js")
	if _, err := g.Generate(testContext()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got := readOutput(t, g, "canvas.wasm"); got != "\x00asm" {
		t.Errorf("canvas.wasm = %q", got)
	}
	board := readOutput(t, g, "board.html")
	if !strings.Contains(board, `<script src="wasm_exec.js"></script>`) {
		t.Error("canvas page should load wasm_exec.js")
	}
	if !strings.Contains(board, `canvasdoc.loadController(`) || !strings.Contains(board, `"canvas.wasm"`) {
		t.Errorf("canvas page should start the controller:\n%s", board)
	}
}

func TestGenerateCanvasOptions(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "board.canvas"), `{"nodes":[]}`)

	off := false
	g := newTestGenerator(t, content)
	g.Canvas.EnableInteraction = &off
	g.Canvas.MinZoom = 4
	g.Canvas.MaxZoom = 2
	g.Canvas.DefaultFullscreen = true
	if _, err := g.Generate(testContext()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	board := readOutput(t, g, "board.html")
	for _, want := range []string{
		`data-enable-interaction="false"`,
		`data-min-zoom="2"`,
		`data-max-zoom="4"`,
		`data-initial-zoom="2"`,
		`data-default-fullscreen="true"`,
	} {
		if !strings.Contains(board, want) {
			t.Errorf("board.html missing %q", want)
		}
	}
}

func TestGenerateRouteCollision(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "plan.md"), "# Plan")
	writeTestFile(t, filepath.Join(content, "plan.canvas"), `{"nodes":[]}`)

	g := newTestGenerator(t, content)
	res, err := g.Generate(testContext())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Pages != 1 || res.Skipped != 1 {
		t.Errorf("pages = %d, skipped = %d; want 1, 1", res.Pages, res.Skipped)
	}
	if page := readOutput(t, g, "plan.html"); strings.Contains(page, "canvas-container") {
		t.Error("markdown page should win the route")
	}
}

func TestGenerateFileNodeLinks(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "notes", "a.md"), "# A")
	writeTestFile(t, filepath.Join(content, "x", "plan.canvas"), `{"nodes": [`)
	writeTestFile(t, filepath.Join(content, "y", "plan.canvas"), `{"nodes":[]}`)
	writeTestFile(t, filepath.Join(content, "boards", "b.canvas"), `{"nodes":[
		{"id":"m","type":"file","x":0,"y":0,"width":100,"height":100,"file":"notes/missing.md"},
		{"id":"a","type":"file","x":200,"y":0,"width":100,"height":100,"file":"notes/a.md"},
		{"id":"p","type":"file","x":400,"y":0,"width":100,"height":100,"file":"plan.canvas"},
		{"id":"i","type":"file","x":600,"y":0,"width":100,"height":100,"file":"img/pic.png"}
	]}`)

	g := newTestGenerator(t, content)
	res, err := g.Generate(testContext())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}

	page := readOutput(t, g, "boards/b.html")
	tests := []struct {
		name    string
		want    string
		notWant string
	}{
		{"unresolved note", `href="../notes/missing.html"`, `href="../notes/missing.md"`},
		{"resolved note", `href="../notes/a.html"`, ""},
		{"failed canvas", `href="../y/plan.html"`, `href="../x/plan.html"`},
		{"attachment", `href="../img/pic.png"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(page, tt.want) {
				t.Errorf("page missing %q", tt.want)
			}
			if tt.notWant != "" && strings.Contains(page, tt.notWant) {
				t.Errorf("page contains %q", tt.notWant)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(g.OutputDir, "x", "plan.html")); !os.IsNotExist(err) {
		t.Errorf("failed canvas should not be written: %v", err)
	}
}

func TestUnresolvedHref(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes/missing.md", "notes/missing.html"},
		{"/boards/gone.canvas", "boards/gone.html"},
		{"img/pic.png", "img/pic.png"},
	}
	for _, tt := range tests {
		if got := unresolvedHref(tt.in); got != tt.want {
			t.Errorf("unresolvedHref(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateNoFiles(t *testing.T) {
	g := newTestGenerator(t, t.TempDir())
	_, err := g.Generate(testContext())
	if err == nil {
		t.Fatal("Generate should fail with no documents")
	}
	if !strings.Contains(err.Error(), "no markdown or canvas files") {
		t.Errorf("error = %q, want it to mention missing files", err.Error())
	}
}

func TestGenerateSkipsNestedOutput(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "index.md"), "# Home")

	g := newTestGenerator(t, content)
	g.OutputDir = filepath.Join(content, "public")
	writeTestFile(t, filepath.Join(g.OutputDir, "stale.md"), "# Stale")

	res, err := g.Generate(testContext())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("pages = %d, want 1 (output dir must not be walked)", res.Pages)
	}
}

// writeTestFile is a helper that creates a file with intermediate directories.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateRemovesStalePages(t *testing.T) {
	content := t.TempDir()
	writeTestFile(t, filepath.Join(content, "a.md"), "# A")
	writeTestFile(t, filepath.Join(content, "old", "b.md"), "# B")

	g := newTestGenerator(t, content)
	ctx := testContext()
	if _, err := g.Generate(ctx); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	stale := filepath.Join(g.OutputDir, "old", "b.html")
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("expected %s after first build: %v", stale, err)
	}

	if err := os.Remove(filepath.Join(content, "old", "b.md")); err != nil {
		t.Fatal(err)
	}
	res, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("pages = %d, want 1", res.Pages)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale page still present: %v", err)
	}
	pages, err := g.State.ListPages(ctx, "")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 1 || pages[0].Slug != "a" {
		t.Errorf("recorded pages = %+v, want only a", pages)
	}
}
