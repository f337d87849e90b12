package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory/file patterns excluded by default.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".obsidian",
	".trash",
	".canvasdoc",
	".idea",
	".vscode",
	".DS_Store",
}

// ExcludedDir checks whether a directory name matches any default
// exclusion pattern. This is used during traversal to skip entire subtrees.
func ExcludedDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath, and then its base name, against each glob.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
// Patterns without a slash match any path component; patterns with one are
// anchored at the root.
func matchesGitignore(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	parts := strings.Split(normalized, "/")

	for _, pattern := range patterns {
		// Directory-only patterns can only match the leading components.
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.Trim(pattern, "/")
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "/") {
			candidates := parts
			if dirOnly {
				candidates = parts[:len(parts)-1]
			}
			for _, part := range candidates {
				if matched, _ := doublestar.Match(pattern, part); matched {
					return true
				}
			}
			continue
		}

		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern+"/**", normalized); matched {
			return true
		}
	}
	return false
}
