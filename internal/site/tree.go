package site

import (
	"fmt"
	"html/template"
	"path"
	"sort"
	"strings"

	"github.com/ziadkadry99/canvasdoc/internal/loader"
)

// FileTree represents a node in the sidebar navigation tree.
type FileTree struct {
	Name     string
	Title    string // Display name; empty falls back to the file name without extension.
	Path     string // For files: content-relative source path. For dirs: directory path (e.g., "boards/2024").
	IsDir    bool
	IsCanvas bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from a list of content-relative paths.
// titleMap is an optional map of relative path -> display title.
func BuildTree(paths []string, titleMap map[string]string) *FileTree {
	root := &FileTree{Name: "content", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *FileTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir != isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &FileTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = p
					next.IsCanvas = path.Ext(p) == loader.ExtCanvas
					next.Title = titleMap[p]
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
					next.Title = formatDirName(part)
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return root
}

// sortTree recursively sorts tree children: directories first, then files, alphabetically.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// ToHTML renders the file tree as nested <ul><li> HTML for the sidebar.
// basePath is the relative prefix to get back to root (e.g., "../" for a page one level deep).
func (t *FileTree) ToHTML(activePath, basePath string) string {
	activeAncestors := computeActiveAncestors(activePath)

	var b strings.Builder
	homeActive := ""
	if activePath == "index.md" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, homeActive)

	renderChildren(&b, t, activePath, basePath, activeAncestors)
	return b.String()
}

// computeActiveAncestors returns the set of directory paths that are ancestors of activePath.
// For "boards/2024/plan.canvas" it returns {"boards", "boards/2024"}.
func computeActiveAncestors(activePath string) map[string]bool {
	ancestors := make(map[string]bool)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		ancestors[strings.Join(parts[:i], "/")] = true
	}
	return ancestors
}

func renderChildren(b *strings.Builder, node *FileTree, activePath, basePath string, activeAncestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			expanded := ""
			if activeAncestors[child.Path] {
				expanded = "expanded"
			}
			fmt.Fprintf(b, `<li class="dir %s"><span class="dir-toggle">%s</span>`+"\n", expanded, template.HTMLEscapeString(child.displayName()))
			renderChildren(b, child, activePath, basePath, activeAncestors)
			b.WriteString("</li>\n")
			continue
		}
		if child.Path == "index.md" {
			continue
		}
		class := "file"
		if child.IsCanvas {
			class += " canvas-file"
		}
		activeClass := ""
		if child.Path == activePath {
			activeClass = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="%s"><a href="%s"%s>%s</a></li>`+"\n",
			class, template.HTMLEscapeString(basePath+pageRoute(child.Path)), activeClass, template.HTMLEscapeString(child.displayName()))
	}
	b.WriteString("</ul>\n")
}

func (t *FileTree) displayName() string {
	if t.Title != "" {
		return t.Title
	}
	if t.IsDir {
		return t.Name
	}
	return cleanDisplayName(t.Name)
}

// pageRoute returns the output path of the page generated from a
// content-relative source path.
func pageRoute(relPath string) string {
	return loader.Slug(relPath) + ".html"
}

// basePathFor returns the relative prefix leading from a page back to the
// site root.
func basePathFor(route string) string {
	return strings.Repeat("../", strings.Count(route, "/"))
}

// cleanDisplayName strips the document extension from a file name.
func cleanDisplayName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// formatDirName converts a directory name to a human-readable display name.
func formatDirName(name string) string {
	// Title-case each word separated by hyphens or underscores.
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
