// Package mcp exposes the canvases of a content directory to MCP clients.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that answers questions about canvas documents.
type Server struct {
	contentDir string
	include    []string
	exclude    []string
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server over the documents of contentDir,
// filtered the same way the site generator filters them.
func NewServer(contentDir string, include, exclude []string) *Server {
	s := &Server{
		contentDir: contentDir,
		include:    include,
		exclude:    exclude,
	}

	s.mcp = server.NewMCPServer(
		"canvasdoc",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listCanvasesTool, s.handleListCanvases)
	s.mcp.AddTool(getCanvasTool, s.handleGetCanvas)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
