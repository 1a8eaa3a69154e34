package commands

import (
	"context"
	"fmt"

	"github.com/p4tools/p/internal/logging"
	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var shelveCmd = &cobra.Command{
	Use:   "shelve",
	Short: "Pick opened files and shelve them in a new changelist",
	Long: `Lists opened files grouped by changelist. Files you select are moved
into a new numbered changelist, which is then shelved and tracked so
"p unshelve" can find it later.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.shelve(cmd.Context())
	},
}

func (a *app) shelve(ctx context.Context) error {
	var groups []p4.ChangeGroup
	var descs map[string]string
	err := a.spin("Fetching opened files...", func(sp *terminal.Spinner) error {
		files, err := a.client.Opened(ctx)
		if err != nil {
			return err
		}
		groups = p4.GroupByChange(files)
		sp.Update(fmt.Sprintf("Fetching %s...", plural(len(groups), "changelist description")))
		descs = a.describe(ctx, changeIDs(groups))
		return nil
	})
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		terminal.Info("No files opened in this client.")
		return nil
	}

	list, err := terminal.NewList(openedGroups(groups, descs), terminal.ListOptions{
		Mode:  terminal.MultiSelect,
		Title: "Select files to shelve",
	})
	if err != nil {
		return err
	}

	var (
		sel         terminal.Selection
		confirmed   bool
		description string
	)
	err = a.interact(func(s *terminal.Session) error {
		var err error
		sel, confirmed, err = list.Run(s)
		if err != nil || !confirmed || sel.Empty() {
			return err
		}
		description, err = s.ReadLine("Description: ")
		return err
	})
	if err != nil {
		return err
	}
	if !confirmed {
		terminal.Info("Cancelled")
		return nil
	}
	if sel.Empty() {
		terminal.Info("Nothing selected")
		return nil
	}

	var change string
	err = a.spin("Creating changelist...", func(sp *terminal.Spinner) error {
		var err error
		change, err = a.client.CreateChange(ctx, description)
		if err != nil {
			return err
		}
		logging.Debug("created changelist", "change", change, "files", len(sel.Values))
		sp.Update(fmt.Sprintf("Moving %s into CL %s...", plural(len(sel.Values), "file"), change))
		if err := a.client.Reopen(ctx, change, sel.Values); err != nil {
			return err
		}
		sp.Update(fmt.Sprintf("Shelving CL %s...", change))
		return a.client.Shelve(ctx, change)
	})
	if err != nil {
		if change != "" {
			terminal.Error(fmt.Sprintf("CL %s was created but not shelved", change))
		}
		return err
	}
	logging.Info("shelved changelist", "change", change, "files", len(sel.Values))

	tracked, err := a.loadTracked()
	if err != nil {
		return err
	}
	tracked.Add(change, description, a.now())
	if err := tracked.Save(); err != nil {
		return fmt.Errorf("changelist %s was shelved but could not be tracked: %w", change, err)
	}
	terminal.Success(fmt.Sprintf("Shelved %s in CL %s", plural(len(sel.Values), "file"), change))
	return nil
}
