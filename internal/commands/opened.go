package commands

import (
	"context"
	"strings"

	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/summary"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var openedCmd = &cobra.Command{
	Use:   "opened",
	Short: "Show opened files grouped by changelist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.opened(cmd.Context())
	},
}

func (a *app) opened(ctx context.Context) error {
	files, err := a.client.Opened(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		terminal.Info("No files opened in this client.")
		return nil
	}
	return summary.Write(terminal.Out, p4.GroupByChange(files))
}

// openedGroups turns changelist groups into list groups, one colour per
// changelist. Leaf values are depot paths.
func openedGroups(groups []p4.ChangeGroup, descs map[string]string) []terminal.Group {
	out := make([]terminal.Group, 0, len(groups))
	for i, g := range groups {
		lg := terminal.Group{
			Title:       g.Title(),
			Description: firstLine(descs[g.Change]),
			Style:       terminal.Palette(i),
		}
		for _, f := range g.Files {
			lg.Leaves = append(lg.Leaves, terminal.Leaf{Label: f.Line(), Value: f.DepotFile})
		}
		out = append(out, lg)
	}
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
