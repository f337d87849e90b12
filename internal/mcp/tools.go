package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listCanvasesTool defines the list_canvases MCP tool.
var listCanvasesTool = mcp.NewTool("list_canvases",
	mcp.WithDescription("List the canvas documents in the content directory with their node and edge counts."),
)

// getCanvasTool defines the get_canvas MCP tool.
var getCanvasTool = mcp.NewTool("get_canvas",
	mcp.WithDescription("Describe one canvas: its bounds, every node with position and label, and every edge with its endpoints."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Canvas slug or path relative to the content directory, e.g. boards/roadmap or boards/roadmap.canvas"),
	),
)
