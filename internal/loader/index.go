package loader

import (
	"html/template"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Document extensions recognized in file-node references.
const (
	ExtMarkdown = ".md"
	ExtCanvas   = ".canvas"
)

// Slug returns the route of a content-relative path: forward slashes and
// no document extension.
func Slug(relPath string) string {
	p := filepath.ToSlash(relPath)
	return strings.TrimSuffix(p, path.Ext(p))
}

// Title returns the display title of a document: its base filename
// without extension.
func Title(relPath string) string {
	return path.Base(Slug(relPath))
}

// Index maps the slugs of known documents to their rendered content. File
// nodes are resolved against it. It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	content map[string]template.HTML
	sorted  []string
	dirty   bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{content: make(map[string]template.HTML)}
}

// Add registers a document. content is empty for documents that cannot be
// embedded, such as other canvases.
func (ix *Index) Add(slug string, content template.HTML) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.content[slug] = content
	ix.dirty = true
}

// Remove drops slug from the index.
func (ix *Index) Remove(slug string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.content[slug]; ok {
		delete(ix.content, slug)
		ix.dirty = true
	}
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.content)
}

// Content returns the rendered content of slug.
func (ix *Index) Content(slug string) (template.HTML, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.content[slug]
	return c, ok
}

// Resolve maps a file-node reference to a known slug. An exact match wins.
// Otherwise the reference may name a trailing part of a slug on a path
// segment boundary, and when several slugs match that way the
// lexicographically smallest one is chosen so builds are reproducible.
func (ix *Index) Resolve(file string) (string, bool) {
	ref := strings.TrimPrefix(filepath.ToSlash(file), "/")
	ref = strings.TrimSuffix(strings.TrimSuffix(ref, ExtMarkdown), ExtCanvas)
	if ref == "" {
		return "", false
	}

	ix.mu.RLock()
	if _, ok := ix.content[ref]; ok {
		ix.mu.RUnlock()
		return ref, true
	}
	ix.mu.RUnlock()

	for _, slug := range ix.slugs() {
		if strings.HasSuffix(slug, "/"+ref) {
			return slug, true
		}
	}
	return "", false
}

// slugs returns the indexed slugs in sorted order.
func (ix *Index) slugs() []string {
	ix.mu.RLock()
	if !ix.dirty {
		defer ix.mu.RUnlock()
		return ix.sorted
	}
	ix.mu.RUnlock()

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.dirty {
		ix.sorted = make([]string, 0, len(ix.content))
		for slug := range ix.content {
			ix.sorted = append(ix.sorted, slug)
		}
		sort.Strings(ix.sorted)
		ix.dirty = false
	}
	return ix.sorted
}
