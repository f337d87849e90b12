package site

import (
	"bufio"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/loader"
)

const maxSearchContent = 2000

// SearchEntry represents a single searchable page of the site.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// markdownSearchEntry extracts title, summary, and content from a Markdown source.
func markdownSearchEntry(relPath, src string) SearchEntry {
	entry := SearchEntry{
		Path:  pageRoute(relPath),
		Title: extractTitle(src, relPath),
		Kind:  "markdown",
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if entry.Summary == "" && !strings.HasPrefix(line, "#") {
			entry.Summary = line
		}
		lines = append(lines, line)
	}
	entry.Content = truncate(strings.Join(lines, " "), maxSearchContent)
	return entry
}

// canvasSearchEntry indexes a canvas by its title and the words on it:
// text node bodies, group labels and referenced file names.
func canvasSearchEntry(doc *loader.Document) SearchEntry {
	entry := SearchEntry{
		Path:  pageRoute(doc.SourcePath),
		Title: doc.Title,
		Kind:  "canvas",
	}

	var parts []string
	for _, n := range doc.Diagram.Nodes {
		switch n := n.(type) {
		case *canvas.TextNode:
			text := strings.Join(strings.Fields(n.Text), " ")
			if text == "" {
				continue
			}
			if entry.Summary == "" {
				entry.Summary = truncate(text, 200)
			}
			parts = append(parts, text)
		case *canvas.GroupNode:
			if n.Label != "" {
				parts = append(parts, n.Label)
			}
		case *canvas.FileNode:
			parts = append(parts, loader.Title(n.File))
		}
	}
	entry.Content = truncate(strings.Join(parts, " "), maxSearchContent)
	return entry
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return loader.Title(relPath)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
