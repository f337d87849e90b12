package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

const sampleVault = "../../testdata/sample_vault"

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_canvases", listCanvasesTool, "list_canvases"},
		{"get_canvas", getCanvasTool, "get_canvas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer("/tmp/vault", []string{"**"}, []string{"drafts/**"})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.contentDir != "/tmp/vault" {
		t.Errorf("contentDir = %q, want %q", srv.contentDir, "/tmp/vault")
	}
	if len(srv.exclude) != 1 {
		t.Errorf("exclude = %v, want 1 pattern", srv.exclude)
	}
}

func TestHandleListCanvases(t *testing.T) {
	ctx := context.Background()

	t.Run("sample vault", func(t *testing.T) {
		srv := NewServer(sampleVault, nil, nil)
		result, err := srv.handleListCanvases(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		for _, want := range []string{
			"**roadmap** (`boards/roadmap`): 4 nodes, 2 edges",
			"**empty** (`boards/empty`): 0 nodes, 0 edges",
			"Unreadable: boards/broken.canvas",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("excluded canvases", func(t *testing.T) {
		srv := NewServer(sampleVault, nil, []string{"boards/**"})
		result, err := srv.handleListCanvases(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(extractText(result), "No canvas files found") {
			t.Errorf("got %q, want no-canvas message", extractText(result))
		}
	})

	t.Run("missing content dir", func(t *testing.T) {
		srv := NewServer(filepath.Join(t.TempDir(), "nope"), nil, nil)
		result, err := srv.handleListCanvases(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing content dir")
		}
	})
}

func TestHandleGetCanvas(t *testing.T) {
	srv := NewServer(sampleVault, nil, nil)
	ctx := context.Background()

	for _, p := range []string{"boards/roadmap", "boards/roadmap.canvas", "/boards/roadmap.canvas"} {
		t.Run(p, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = map[string]any{"path": p}

			result, err := srv.handleGetCanvas(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError {
				t.Fatalf("unexpected tool error: %v", result.Content)
			}
			text := extractText(result)
			for _, want := range []string{"# roadmap", "**4 nodes, 2 edges**", "Phase one", `"needs"`} {
				if !strings.Contains(text, want) {
					t.Errorf("output missing %q:\n%s", want, text)
				}
			}
		})
	}

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{}},
		{"unknown canvas", map[string]any{"path": "boards/nope"}},
		{"markdown page", map[string]any{"path": "notes/setup"}},
		{"outside content", map[string]any{"path": "../sample_vault/boards/roadmap"}},
		{"broken canvas", map[string]any{"path": "boards/broken.canvas"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			result, err := srv.handleGetCanvas(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Errorf("expected tool error, got %q", extractText(result))
			}
		})
	}
}

func TestHandleGetCanvasRespectsExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "public", "map.canvas"), `{"nodes":[{"id":"a","type":"text","x":0,"y":0,"width":10,"height":10,"text":"hi"}]}`)
	writeTestFile(t, filepath.Join(dir, "private", "map.canvas"), `{"nodes":[]}`)

	srv := NewServer(dir, nil, []string{"private/**"})
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"path": "private/map"}

	result, err := srv.handleGetCanvas(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected excluded canvas to be unavailable")
	}

	req.Params.Arguments = map[string]any{"path": "public/map"}
	result, err = srv.handleGetCanvas(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.Contains(extractText(result), "**1 nodes, 0 edges**") {
		t.Errorf("got %q", extractText(result))
	}
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
