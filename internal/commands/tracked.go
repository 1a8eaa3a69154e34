package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/p4tools/p/internal/config"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var trackedCmd = &cobra.Command{
	Use:   "tracked",
	Short: "List changelists shelved by p",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.trackedList()
	},
}

var trackedAddCmd = &cobra.Command{
	Use:   "add CL...",
	Short: "Track existing changelists",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.trackedAdd(cmd.Context(), args)
	},
}

var trackedRmCmd = &cobra.Command{
	Use:   "rm [CL...]",
	Short: "Stop tracking changelists",
	Long:  "Stops tracking the given changelists. Without arguments, pick them from a list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.trackedRemove(args)
	},
}

func init() {
	trackedCmd.AddCommand(trackedAddCmd)
	trackedCmd.AddCommand(trackedRmCmd)
}

func (a *app) trackedList() error {
	tracked, err := a.loadTracked()
	if err != nil {
		return err
	}
	if len(tracked.Changes) == 0 {
		terminal.Info("No tracked changelists.")
		return nil
	}
	terminal.Header("Tracked changelists")
	for _, c := range tracked.Changes {
		desc := firstLine(c.Description)
		if desc == "" {
			desc = "(no description)"
		}
		terminal.Detail("CL "+c.Change, fmt.Sprintf("%s  %s", c.Created.Local().Format("2006-01-02 15:04"), desc))
	}
	return nil
}

func (a *app) trackedAdd(ctx context.Context, changes []string) error {
	for _, c := range changes {
		if _, err := strconv.ParseUint(c, 10, 64); err != nil {
			return fmt.Errorf("invalid changelist %q", c)
		}
	}

	tracked, err := a.loadTracked()
	if err != nil {
		return err
	}
	added := 0
	for _, c := range changes {
		if tracked.Contains(c) {
			terminal.Warning(fmt.Sprintf("CL %s is already tracked", c))
			continue
		}
		desc, ok, err := a.client.ChangeDescription(ctx, c)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("changelist %s does not exist", c)
		}
		tracked.Add(c, desc, a.now())
		added++
	}
	if added == 0 {
		return nil
	}
	if err := tracked.Save(); err != nil {
		return err
	}
	terminal.Success(fmt.Sprintf("Tracking %s", plural(added, "changelist")))
	return nil
}

func (a *app) trackedRemove(changes []string) error {
	tracked, err := a.loadTracked()
	if err != nil {
		return err
	}
	if len(tracked.Changes) == 0 {
		terminal.Info("No tracked changelists.")
		return nil
	}

	if len(changes) == 0 {
		var ok bool
		changes, ok, err = a.pickTracked(tracked)
		if err != nil || !ok {
			return err
		}
	}

	removed := tracked.Remove(changes...)
	if removed == 0 {
		terminal.Info("None of those changelists are tracked.")
		return nil
	}
	if err := tracked.Save(); err != nil {
		return err
	}
	terminal.Success(fmt.Sprintf("Stopped tracking %s", plural(removed, "changelist")))
	return nil
}

// pickTracked asks which tracked changelists to drop and confirms the
// choice. ok is false when the user backed out.
func (a *app) pickTracked(tracked *config.Tracked) (changes []string, ok bool, err error) {
	list, err := terminal.NewList(trackedGroups(tracked.Changes, nil), terminal.ListOptions{
		Mode:  terminal.MultiSelect,
		Title: "Select changelists to stop tracking",
	})
	if err != nil {
		return nil, false, err
	}

	var sel terminal.Selection
	var confirmed, sure bool
	err = a.interact(func(s *terminal.Session) error {
		var err error
		sel, confirmed, err = list.Run(s)
		if err != nil || !confirmed || sel.Empty() {
			return err
		}
		sure, err = s.Confirm(fmt.Sprintf("Stop tracking %s?", plural(len(sel.Values), "changelist")))
		return err
	})
	switch {
	case err != nil:
		return nil, false, err
	case !confirmed:
		terminal.Info("Cancelled")
		return nil, false, nil
	case sel.Empty():
		terminal.Info("Nothing selected")
		return nil, false, nil
	case !sure:
		terminal.Info("Cancelled")
		return nil, false, nil
	}
	return sel.Values, true, nil
}
