package commands

import (
	"context"
	"fmt"

	"github.com/p4tools/p/internal/config"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var unshelveCmd = &cobra.Command{
	Use:   "unshelve",
	Short: "Pick a tracked changelist and unshelve it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.unshelve(cmd.Context())
	},
}

func (a *app) unshelve(ctx context.Context) error {
	var (
		tracked *config.Tracked
		descs   map[string]string
	)
	err := a.spin("Loading tracked changelists...", func(sp *terminal.Spinner) error {
		var err error
		tracked, err = a.loadTracked()
		if err != nil || len(tracked.Changes) == 0 {
			return err
		}
		sp.Update(fmt.Sprintf("Fetching %s...", plural(len(tracked.Changes), "changelist description")))
		descs = a.describe(ctx, tracked.IDs())
		return nil
	})
	if err != nil {
		return err
	}
	if len(tracked.Changes) == 0 {
		terminal.Info("No tracked changelists. Shelve files with `p shelve` first.")
		return nil
	}

	list, err := terminal.NewList(trackedGroups(tracked.Changes, descs), terminal.ListOptions{
		Mode:  terminal.SingleSelect,
		Title: "Select a changelist to unshelve",
	})
	if err != nil {
		return err
	}

	var sel terminal.Selection
	var confirmed bool
	err = a.interact(func(s *terminal.Session) error {
		var err error
		sel, confirmed, err = list.Run(s)
		return err
	})
	if err != nil {
		return err
	}
	if !confirmed {
		terminal.Info("Cancelled")
		return nil
	}

	change := sel.Values[0]
	err = a.spin("Unshelving CL "+change+"...", func(*terminal.Spinner) error {
		return a.client.Unshelve(ctx, change)
	})
	if err != nil {
		return err
	}
	terminal.Success(fmt.Sprintf("Unshelved CL %s", change))
	return nil
}

// trackedGroups builds a single group of tracked changelists. The live
// description wins over the one saved at shelve time.
func trackedGroups(changes []config.TrackedChange, descs map[string]string) []terminal.Group {
	g := terminal.Group{Title: "Tracked changelists", Style: terminal.StyleBold}
	for _, c := range changes {
		desc, ok := descs[c.Change]
		if !ok {
			desc = c.Description
		}
		g.Leaves = append(g.Leaves, terminal.Leaf{
			Label:      "CL " + c.Change,
			Value:      c.Change,
			Annotation: firstLine(desc),
		})
	}
	return []terminal.Group{g}
}
