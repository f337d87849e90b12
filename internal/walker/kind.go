package walker

import (
	"path/filepath"
	"strings"
)

// Kind classifies content files.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindCanvas   Kind = "canvas"
)

// DetectKind returns the content kind for a filename, or "" for files the
// site generator does not handle.
func DetectKind(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return KindMarkdown
	case ".canvas":
		return KindCanvas
	default:
		return ""
	}
}
