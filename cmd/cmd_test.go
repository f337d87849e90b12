package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
)

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgFile = filepath.Join(dir, "missing.yml")
	t.Cleanup(func() { cfgFile = ".canvasdoc.yml" })

	c := &cobra.Command{Use: "test"}
	addDirFlags(c)
	if err := c.ParseFlags([]string{"--content", "vault", "--output", "site"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ContentDir != "vault" {
		t.Errorf("got %q, want %q", cfg.ContentDir, "vault")
	}
	if cfg.OutputDir != "site" {
		t.Errorf("got %q, want %q", cfg.OutputDir, "site")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	cfgFile = filepath.Join(dir, ".canvasdoc.yml")
	t.Cleanup(func() { cfgFile = ".canvasdoc.yml" })
	if err := os.WriteFile(cfgFile, []byte("content_dir: same\noutput_dir: same\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &cobra.Command{Use: "test"}
	addDirFlags(c)
	if _, err := loadConfig(c); err == nil {
		t.Fatal("expected error when output_dir equals content_dir")
	}
}

func TestTextNodes(t *testing.T) {
	d := canvas.New([]canvas.Node{
		&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "a"}, Text: "# Hello"},
		&canvas.TextNode{NodeBase: canvas.NodeBase{ID: "blank"}, Text: "  "},
		&canvas.LinkNode{NodeBase: canvas.NodeBase{ID: "l"}, URL: "https://example.com"},
	}, nil)

	got := textNodes(d)
	if !strings.Contains(got, "## Text") || !strings.Contains(got, "`a`\n\n# Hello") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "blank") {
		t.Errorf("blank text node should be skipped: %q", got)
	}

	if got := textNodes(canvas.New(nil, nil)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
