package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/p4tools/p/internal/config"
	"github.com/p4tools/p/internal/logging"
	"github.com/p4tools/p/internal/p4"
)

type handlers struct {
	opts Options
}

// toolFailed logs err before it is reported to the client as a tool error.
func toolFailed(tool string, err error) error {
	logging.Error("mcp tool failed", "tool", tool, "err", err)
	return err
}

// --- list_opened ---

type listOpenedInput struct {
	Change string `json:"change,omitempty" jsonschema:"Only list files in this changelist (a number or default)"`
}

type openedGroup struct {
	Change      string          `json:"change"`
	Description string          `json:"description,omitempty"`
	Files       []p4.OpenedFile `json:"files"`
}

type listOpenedOutput struct {
	Groups []openedGroup `json:"groups"`
}

func (h *handlers) listOpened(ctx context.Context, req *mcp.CallToolRequest, input listOpenedInput) (*mcp.CallToolResult, listOpenedOutput, error) {
	files, err := h.opts.Client.Opened(ctx)
	if err != nil {
		return nil, listOpenedOutput{}, toolFailed("list_opened", err)
	}

	groups := p4.GroupByChange(files)
	if input.Change != "" {
		var kept []p4.ChangeGroup
		for _, g := range groups {
			if g.Change == input.Change {
				kept = append(kept, g)
			}
		}
		groups = kept
	}

	changes := make([]string, len(groups))
	for i, g := range groups {
		changes[i] = g.Change
	}
	descs, err := h.opts.Client.Descriptions(ctx, changes, h.opts.Workers)
	if err != nil {
		return nil, listOpenedOutput{}, toolFailed("list_opened", err)
	}

	out := listOpenedOutput{Groups: make([]openedGroup, 0, len(groups))}
	for _, g := range groups {
		out.Groups = append(out.Groups, openedGroup{
			Change:      g.Change,
			Description: descs[g.Change],
			Files:       g.Files,
		})
	}
	logging.Debug("mcp list_opened", "groups", len(out.Groups), "files", len(files))
	return nil, out, nil
}

// --- list_tracked ---

type listTrackedInput struct{}

type listTrackedOutput struct {
	Changes []config.TrackedChange `json:"changes"`
}

func (h *handlers) listTracked(ctx context.Context, req *mcp.CallToolRequest, input listTrackedInput) (*mcp.CallToolResult, listTrackedOutput, error) {
	tracked, err := config.LoadTracked(h.opts.TrackedPath)
	if err != nil {
		return nil, listTrackedOutput{}, toolFailed("list_tracked", err)
	}
	out := listTrackedOutput{Changes: tracked.Changes}
	if out.Changes == nil {
		out.Changes = []config.TrackedChange{}
	}
	return nil, out, nil
}

// --- annotate_file ---

type annotateFileInput struct {
	File string `json:"file" jsonschema:"Depot path or workspace path of the file to annotate"`
}

type annotateFileOutput struct {
	Lines []p4.Annotation `json:"lines"`
}

func (h *handlers) annotateFile(ctx context.Context, req *mcp.CallToolRequest, input annotateFileInput) (*mcp.CallToolResult, annotateFileOutput, error) {
	if input.File == "" {
		return nil, annotateFileOutput{}, fmt.Errorf("file is required")
	}
	lines, err := h.opts.Client.Annotate(ctx, input.File)
	if err != nil {
		return nil, annotateFileOutput{}, toolFailed("annotate_file", err)
	}
	if lines == nil {
		lines = []p4.Annotation{}
	}
	return nil, annotateFileOutput{Lines: lines}, nil
}
