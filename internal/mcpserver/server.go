// Package mcpserver exposes read-only Perforce state to MCP clients.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/p4tools/p/internal/p4"
)

// Options wires the server to a workspace.
type Options struct {
	Client *p4.Client

	// TrackedPath is the tracked-changelist file read by list_tracked.
	TrackedPath string

	// Workers bounds concurrent description lookups.
	Workers int

	Version string
}

// New builds the MCP server and registers its tools.
func New(opts Options) *mcp.Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "p",
			Version: version,
		},
		nil,
	)

	h := &handlers{opts: opts}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_opened",
		Description: "List files opened in the current Perforce client, grouped by changelist. Each group carries the changelist description when one exists. Optionally filter to one changelist.",
	}, h.listOpened)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tracked",
		Description: "List changelists created and shelved by p, oldest first, with their descriptions and creation times.",
	}, h.listTracked)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "annotate_file",
		Description: "Show which changelist, user and date last touched each line of a depot or workspace file.",
	}, h.annotateFile)

	return server
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	return New(opts).Run(ctx, &mcp.StdioTransport{})
}
