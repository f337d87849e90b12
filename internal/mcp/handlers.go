package mcp

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/loader"
	"github.com/ziadkadry99/canvasdoc/internal/summary"
	"github.com/ziadkadry99/canvasdoc/internal/walker"
)

// handleListCanvases walks the content directory and lists every canvas
// with its counts. Canvases that fail to parse are listed separately.
func (s *Server) handleListCanvases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.canvases()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to scan content: %v", err)), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No canvas files found in %s.", s.contentDir)), nil
	}

	var b strings.Builder
	var unreadable []string
	fmt.Fprintf(&b, "# Canvases\n\n")
	for _, f := range files {
		d, err := canvas.ParseFile(f.Path)
		if err != nil {
			unreadable = append(unreadable, f.RelPath)
			continue
		}
		fmt.Fprintf(&b, "- **%s** (`%s`): %d nodes, %d edges\n",
			loader.Title(f.RelPath), loader.Slug(f.RelPath), len(d.Nodes), len(d.Edges))
	}
	if len(unreadable) > 0 {
		fmt.Fprintf(&b, "\nUnreadable: %s\n", strings.Join(unreadable, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleGetCanvas returns a Markdown description of a single canvas.
func (s *Server) handleGetCanvas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	files, err := s.canvases()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to scan content: %v", err)), nil
	}

	// Only walked files are candidates, so paths outside the content
	// directory never match.
	want := loader.Slug(path.Clean(strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/")))
	for _, f := range files {
		if loader.Slug(f.RelPath) != want {
			continue
		}
		d, err := canvas.ParseFile(f.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read canvas: %v", err)), nil
		}
		return mcp.NewToolResultText(summary.Summarize(loader.Title(f.RelPath), d).Markdown()), nil
	}

	return mcp.NewToolResultError(fmt.Sprintf(
		"No canvas found for %q. Use list_canvases to see the available canvases.", p,
	)), nil
}

func (s *Server) canvases() ([]walker.FileInfo, error) {
	files, err := walker.Walk(walker.Config{
		RootDir: s.contentDir,
		Include: s.include,
		Exclude: s.exclude,
	})
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		if f.Kind == walker.KindCanvas {
			out = append(out, f)
		}
	}
	return out, nil
}
