package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentDirCandidates are directory names commonly holding notes.
var contentDirCandidates = []string{"content", "vault", "notes", "docs"}

// detectContentDir guesses the content directory from the working
// directory: an Obsidian vault root is used as is, otherwise the first
// conventional directory that exists.
func detectContentDir() string {
	if info, err := os.Stat(".obsidian"); err == nil && info.IsDir() {
		return "."
	}
	for _, dir := range contentDirCandidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "content"
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to canvasdoc! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	titlePrompt := promptui.Prompt{
		Label: "Site title (leave blank to use the content directory name)",
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.Title = strings.TrimSpace(title)

	contentPrompt := promptui.Prompt{
		Label:   "Content directory",
		Default: detectContentDir(),
	}
	if cfg.ContentDir, err = contentPrompt.Run(); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	excludePrompt := promptui.Prompt{
		Label: "Extra exclude patterns (comma-separated, leave blank for defaults)",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), extra...)
	}

	interactionPrompt := promptui.Select{
		Label: "Canvas interaction",
		Items: []string{
			"pan & zoom: drag, wheel and pinch to explore",
			"static:     fixed view with fullscreen only",
		},
	}
	idx, _, err := interactionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("interaction selection: %w", err)
	}
	interactive := idx == 0
	cfg.Canvas.EnableInteraction = &interactive

	fullscreenPrompt := promptui.Select{
		Label: "Open canvases in fullscreen",
		Items: []string{"no", "yes"},
	}
	idx, _, err = fullscreenPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("fullscreen selection: %w", err)
	}
	cfg.Canvas.DefaultFullscreen = idx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
