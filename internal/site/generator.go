package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/canvasdoc/internal/config"
	"github.com/ziadkadry99/canvasdoc/internal/db"
	"github.com/ziadkadry99/canvasdoc/internal/loader"
	"github.com/ziadkadry99/canvasdoc/internal/logging"
	"github.com/ziadkadry99/canvasdoc/internal/progress"
	"github.com/ziadkadry99/canvasdoc/internal/render"
	"github.com/ziadkadry99/canvasdoc/internal/walker"
)

// StateDir is the directory inside the output directory holding build state.
const StateDir = ".canvasdoc"

// StatePath returns the build state database location for an output directory.
func StatePath(outputDir string) string {
	return filepath.Join(outputDir, StateDir, "state.db")
}

// SiteGenerator converts a directory of Markdown notes and canvases into a
// static HTML site.
type SiteGenerator struct {
	ContentDir string
	OutputDir  string
	SiteTitle  string
	Logo       string
	Include    []string
	Exclude    []string

	Canvas         render.Options
	MaxConcurrency int
	Incremental    bool
	// Force rewrites every page even when incremental builds are enabled.
	Force bool

	WASMPath     string
	WASMExecPath string

	Reporter progress.Reporter
	// State records builds and pages. When nil, Generate opens the
	// database under the output directory.
	State *db.DB
}

// NewSiteGenerator creates a SiteGenerator from the loaded configuration.
func NewSiteGenerator(cfg *config.Config) *SiteGenerator {
	return &SiteGenerator{
		ContentDir: cfg.ContentDir,
		OutputDir:  cfg.OutputDir,
		SiteTitle:  cfg.SiteTitle(),
		Logo:       cfg.Logo,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		Canvas: render.Options{
			EnableInteraction: cfg.Canvas.EnableInteraction,
			InitialZoom:       cfg.Canvas.InitialZoom,
			MinZoom:           cfg.Canvas.MinZoom,
			MaxZoom:           cfg.Canvas.MaxZoom,
			DefaultFullscreen: cfg.Canvas.DefaultFullscreen,
		},
		MaxConcurrency: cfg.Build.MaxConcurrency,
		Incremental:    cfg.Build.Incremental,
		WASMPath:       cfg.Assets.WASMPath,
		WASMExecPath:   cfg.Assets.WASMExecPath,
	}
}

// Result summarizes one Generate run.
type Result struct {
	BuildID   string
	Pages     int // pages written or kept, Markdown and canvas
	Canvases  int
	Skipped   int // canvases that failed to load
	Unchanged int // pages left untouched by an incremental build
}

// page is one document queued for output.
type page struct {
	file    walker.FileInfo
	slug    string
	title   string
	content template.HTML    // rendered Markdown
	doc     *loader.Document // canvases only
	deps    string
}

func (p *page) isCanvas() bool { return p.doc != nil }

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title         string
	SiteTitle     string
	LogoFile      string
	Content       template.HTML
	TreeHTML      template.HTML
	BasePath      string
	IsCanvas      bool
	HasController bool
}

// Generate builds the full static site. A canvas that fails to load is
// logged and skipped; the build fails only on I/O errors or when the
// content directory holds no documents.
func (g *SiteGenerator) Generate(ctx context.Context) (Result, error) {
	logger := logging.FromContext(ctx)

	opts, warnings := g.Canvas.Sanitize()
	for _, w := range warnings {
		logger.Warn("adjusted canvas options", "detail", w)
	}

	outAbs, err := filepath.Abs(g.OutputDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolving output dir: %w", err)
	}
	files, err := walker.Walk(walker.Config{
		RootDir:  g.ContentDir,
		Include:  g.Include,
		Exclude:  g.Exclude,
		SkipDirs: []string{outAbs},
	})
	if err != nil {
		return Result{}, fmt.Errorf("walking content dir: %w", err)
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no markdown or canvas files found in %s", g.ContentDir)
	}

	md := loader.NewMarkdown()
	index := loader.NewIndex()

	mdPages, err := g.renderMarkdown(ctx, md, index, files)
	if err != nil {
		return Result{}, err
	}
	canvasPages, skipped := g.loadCanvases(ctx, logger, md, index, files, mdPages)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	pages := make([]*page, 0, len(mdPages)+len(canvasPages))
	pages = append(append(pages, mdPages...), canvasPages...)
	sort.Slice(pages, func(i, j int) bool { return pages[i].file.RelPath < pages[j].file.RelPath })

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return Result{}, err
	}

	// Build file tree for sidebar navigation.
	paths := make([]string, len(pages))
	titleMap := make(map[string]string, len(pages))
	searchEntries := make([]SearchEntry, 0, len(pages))
	for i, p := range pages {
		paths[i] = p.file.RelPath
		titleMap[p.file.RelPath] = p.title
		if p.isCanvas() {
			searchEntries = append(searchEntries, canvasSearchEntry(p.doc))
		}
	}
	tree := BuildTree(paths, titleMap)

	for _, p := range mdPages {
		src, err := os.ReadFile(p.file.Path)
		if err != nil {
			return Result{}, err
		}
		searchEntries = append(searchEntries, markdownSearchEntry(p.file.RelPath, string(src)))
	}
	sort.Slice(searchEntries, func(i, j int) bool { return searchEntries[i].Path < searchEntries[j].Path })
	if err := WriteSearchIndex(searchEntries, filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return Result{}, fmt.Errorf("writing search index: %w", err)
	}

	// Write static assets.
	for name, content := range map[string]string{
		"style.css":  cssContent,
		"canvas.css": canvasCSS,
		"script.js":  jsContent,
	} {
		if err := os.WriteFile(filepath.Join(g.OutputDir, name), []byte(content), 0o644); err != nil {
			return Result{}, err
		}
	}
	hasController := g.writeControllerAssets(logger)

	logoFile := ""
	if g.Logo != "" {
		logoFile = filepath.Base(g.Logo)
		if err := copyFile(g.Logo, filepath.Join(g.OutputDir, logoFile)); err != nil {
			logger.Warn("copying logo", "path", g.Logo, "err", err)
			logoFile = ""
		}
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return Result{}, fmt.Errorf("parsing page template: %w", err)
	}

	siteHash := hashStrings(append([]string{
		g.SiteTitle, logoFile, fmt.Sprint(hasController),
		fmt.Sprint(opts.Interactive(), opts.InitialZoom, opts.MinZoom, opts.MaxZoom, opts.DefaultFullscreen),
	}, paths...)...)
	var corpus []string
	for _, p := range mdPages {
		corpus = append(corpus, p.file.RelPath, p.file.ContentHash)
	}
	canvasDeps := hashStrings(siteHash, hashStrings(corpus...))
	for _, p := range pages {
		if p.isCanvas() {
			p.deps = canvasDeps
		} else {
			p.deps = siteHash
		}
	}

	state, closeState := g.openState(logger)
	defer closeState()

	res := Result{Pages: len(pages), Canvases: len(canvasPages), Skipped: skipped}
	if state != nil {
		if res.BuildID, err = state.BeginBuild(ctx); err != nil {
			logger.Warn("recording build", "err", err)
			state = nil
		}
	}

	reporter := g.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(pages))

	w := &pageWriter{
		outputDir:     g.OutputDir,
		tmpl:          tmpl,
		tree:          tree,
		index:         index,
		opts:          opts,
		siteTitle:     g.SiteTitle,
		logoFile:      logoFile,
		hasController: hasController,
	}

	var unchanged, done atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency())
	for _, p := range pages {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			defer func() { reporter.Update(int(done.Add(1)), p.slug) }()

			if g.unchanged(egCtx, state, p) {
				unchanged.Add(1)
				logger.Debug("page unchanged", "slug", p.slug)
				return nil
			}
			if err := w.write(p); err != nil {
				return fmt.Errorf("rendering %s: %w", p.file.RelPath, err)
			}
			if state != nil {
				if err := state.UpsertPage(egCtx, statePage(p, res.BuildID)); err != nil {
					logger.Warn("recording page", "slug", p.slug, "err", err)
				}
			}
			return nil
		})
	}
	werr := eg.Wait()
	reporter.Finish()
	res.Unchanged = int(unchanged.Load())

	if state != nil {
		status := db.BuildCompleted
		if werr != nil {
			status = db.BuildFailed
		} else {
			keep := make([]string, len(pages))
			for i, p := range pages {
				keep[i] = p.slug
			}
			g.removeStale(ctx, logger, state, keep)
			if n, err := state.PrunePages(ctx, keep); err != nil {
				logger.Warn("pruning page state", "err", err)
			} else if n > 0 {
				logger.Debug("pruned stale page state", "count", n)
			}
		}
		if err := state.FinishBuild(ctx, db.Build{
			ID:        res.BuildID,
			Status:    status,
			Pages:     res.Pages,
			Canvases:  res.Canvases,
			Skipped:   res.Skipped,
			Unchanged: res.Unchanged,
		}); err != nil {
			logger.Warn("recording build", "err", err)
		}
	}
	if werr != nil {
		return res, werr
	}
	return res, nil
}

// renderMarkdown renders every Markdown document and registers it in
// index so canvases can embed it.
func (g *SiteGenerator) renderMarkdown(ctx context.Context, md *loader.Markdown, index *loader.Index, files []walker.FileInfo) ([]*page, error) {
	var docs []walker.FileInfo
	for _, f := range files {
		if f.Kind == walker.KindMarkdown {
			docs = append(docs, f)
		}
	}

	pages := make([]*page, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency())
	for i, f := range docs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(f.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.RelPath, err)
			}
			html, err := md.Render(string(src))
			if err != nil {
				return fmt.Errorf("rendering %s: %w", f.RelPath, err)
			}
			slug := loader.Slug(f.RelPath)
			index.Add(slug, html)
			pages[i] = &page{
				file:    f,
				slug:    slug,
				title:   extractTitle(string(src), f.RelPath),
				content: html,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// loadCanvases loads every canvas document. Canvases are registered in
// the index before loading so file nodes can link to each other, and
// dropped from it again when they fail to load.
func (g *SiteGenerator) loadCanvases(ctx context.Context, logger *log.Logger, md *loader.Markdown, index *loader.Index, files []walker.FileInfo, mdPages []*page) ([]*page, int) {
	taken := make(map[string]bool, len(mdPages))
	for _, p := range mdPages {
		taken[p.slug] = true
	}

	var docs []walker.FileInfo
	skipped := 0
	for _, f := range files {
		if f.Kind != walker.KindCanvas {
			continue
		}
		slug := loader.Slug(f.RelPath)
		if taken[slug] {
			logger.Warn("skipping canvas, a page with the same route exists", "file", f.RelPath, "route", pageRoute(f.RelPath))
			skipped++
			continue
		}
		taken[slug] = true
		index.Add(slug, "")
		docs = append(docs, f)
	}

	ld := loader.New(g.ContentDir, md, index, logger)
	loaded := make([]*page, len(docs))
	var failed atomic.Int64
	var eg errgroup.Group
	eg.SetLimit(g.concurrency())
	for i, f := range docs {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			doc, err := ld.Load(f.RelPath)
			if err != nil {
				logger.Warn("skipping canvas", "file", f.RelPath, "err", err)
				failed.Add(1)
				return nil
			}
			loaded[i] = &page{file: f, slug: doc.Slug, title: doc.Title, doc: doc}
			return nil
		})
	}
	eg.Wait()

	pages := make([]*page, 0, len(loaded))
	for i, p := range loaded {
		if p == nil {
			// File nodes must not link to a page that is never written.
			index.Remove(loader.Slug(docs[i].RelPath))
			continue
		}
		pages = append(pages, p)
	}
	return pages, skipped + int(failed.Load())
}

func (g *SiteGenerator) concurrency() int {
	if g.MaxConcurrency > 0 {
		return g.MaxConcurrency
	}
	return runtime.NumCPU()
}

// openState returns the build state store, opening it under the output
// directory when none was supplied. A store that cannot be opened only
// disables incremental builds.
func (g *SiteGenerator) openState(logger *log.Logger) (*db.DB, func()) {
	if g.State != nil {
		return g.State, func() {}
	}
	state, err := db.Open(StatePath(g.OutputDir))
	if err != nil {
		logger.Warn("build state unavailable, writing every page", "err", err)
		return nil, func() {}
	}
	return state, func() { state.Close() }
}

// unchanged reports whether the page recorded by a previous build can be
// kept as is.
func (g *SiteGenerator) unchanged(ctx context.Context, state *db.DB, p *page) bool {
	if !g.Incremental || g.Force || state == nil {
		return false
	}
	prev, err := state.GetPage(ctx, p.slug)
	if err != nil {
		return false
	}
	if prev.SourceHash != p.file.ContentHash || prev.DepsHash != p.deps {
		return false
	}
	_, err = os.Stat(filepath.Join(g.OutputDir, filepath.FromSlash(pageRoute(p.file.RelPath))))
	return err == nil
}

// removeStale deletes the output of pages recorded by an earlier build
// whose source no longer exists.
func (g *SiteGenerator) removeStale(ctx context.Context, logger *log.Logger, state *db.DB, keep []string) {
	recorded, err := state.ListPages(ctx, "")
	if err != nil {
		logger.Warn("listing page state", "err", err)
		return
	}
	live := make(map[string]bool, len(keep))
	for _, slug := range keep {
		live[slug] = true
	}
	for _, rp := range recorded {
		if live[rp.Slug] {
			continue
		}
		out := filepath.Join(g.OutputDir, filepath.FromSlash(rp.OutputPath))
		if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
			logger.Warn("removing stale page", "path", out, "err", err)
			continue
		}
		logger.Debug("removed stale page", "path", rp.OutputPath)
	}
}

func statePage(p *page, buildID string) db.Page {
	sp := db.Page{
		Slug:       p.slug,
		Kind:       string(p.file.Kind),
		Title:      p.title,
		SourcePath: p.file.RelPath,
		SourceHash: p.file.ContentHash,
		DepsHash:   p.deps,
		OutputPath: pageRoute(p.file.RelPath),
		BuildID:    buildID,
	}
	if p.isCanvas() {
		sp.Nodes = len(p.doc.Diagram.Nodes)
		sp.Edges = len(p.doc.Diagram.Edges)
	}
	return sp
}

// pageWriter renders pages into the output directory. It holds no
// mutable state and is shared by the write workers.
type pageWriter struct {
	outputDir     string
	tmpl          *template.Template
	tree          *FileTree
	index         *loader.Index
	opts          render.Options
	siteTitle     string
	logoFile      string
	hasController bool
}

func (w *pageWriter) write(p *page) error {
	route := pageRoute(p.file.RelPath)
	basePath := basePathFor(route)

	content := p.content
	if p.isCanvas() {
		opts := w.opts
		opts.FileHref = func(file string) string {
			if slug, ok := w.index.Resolve(file); ok {
				return basePath + slug + ".html"
			}
			return basePath + unresolvedHref(file)
		}
		content = render.Render(p.doc.Diagram, p.doc.RenderedTexts, p.doc.EmbeddedContent, opts)
	}

	data := pageData{
		Title:         p.title,
		SiteTitle:     w.siteTitle,
		LogoFile:      w.logoFile,
		Content:       content,
		TreeHTML:      template.HTML(w.tree.ToHTML(p.file.RelPath, basePath)),
		BasePath:      basePath,
		IsCanvas:      p.isCanvas(),
		HasController: w.hasController,
	}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return err
	}

	outPath := filepath.Join(w.outputDir, filepath.FromSlash(route))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}

// unresolvedHref maps a reference to a document that is not part of the
// site onto the route it would have. Other files are linked as is.
func unresolvedHref(file string) string {
	file = strings.TrimPrefix(filepath.ToSlash(file), "/")
	switch path.Ext(file) {
	case loader.ExtMarkdown, loader.ExtCanvas:
		return loader.Slug(file) + ".html"
	}
	return file
}

// writeControllerAssets copies the viewport controller bundle into the
// output directory. Without it canvases still render, only static.
func (g *SiteGenerator) writeControllerAssets(logger *log.Logger) bool {
	if g.WASMPath == "" {
		logger.Warn("assets.wasm_path not set, canvases will render without pan and zoom")
		return false
	}
	execPath := g.WASMExecPath
	if execPath == "" {
		execPath = findWASMExec()
	}
	if execPath == "" {
		logger.Warn("wasm_exec.js not found, set assets.wasm_exec_path")
		return false
	}
	for src, name := range map[string]string{g.WASMPath: "canvas.wasm", execPath: "wasm_exec.js"} {
		if err := copyFile(src, filepath.Join(g.OutputDir, name)); err != nil {
			logger.Warn("copying controller asset", "path", src, "err", err)
			return false
		}
	}
	return true
}

// findWASMExec locates wasm_exec.js in the Go installation. Its location
// moved from misc/wasm to lib/wasm in Go 1.24.
func findWASMExec() string {
	goroot := os.Getenv("GOROOT")
	if goroot == "" {
		goroot = runtime.GOROOT()
	}
	if goroot == "" {
		return ""
	}
	for _, dir := range []string{"lib", "misc"} {
		p := filepath.Join(goroot, dir, "wasm", "wasm_exec.js")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func hashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		io.WriteString(h, p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
