package commands

import (
	"context"

	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate FILE",
	Short: "Page through a file with the change, user and date of each line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.annotate(cmd.Context(), args[0])
	},
}

func (a *app) annotate(ctx context.Context, file string) error {
	var anns []p4.Annotation
	err := a.spin("Annotating "+file+"...", func(*terminal.Spinner) error {
		var err error
		anns, err = a.client.Annotate(ctx, file)
		return err
	})
	if err != nil {
		return err
	}
	if len(anns) == 0 {
		terminal.Info("Nothing to annotate in " + file)
		return nil
	}

	pager := terminal.NewPager(annotationRows(anns), terminal.PagerOptions{
		Height: a.cfg.PagerHeight,
		Title:  file,
	})
	return a.interact(pager.Run)
}

func annotationRows(anns []p4.Annotation) []terminal.Row {
	rows := make([]terminal.Row, len(anns))
	for i, an := range anns {
		rows[i] = terminal.Row{Fields: []string{an.Change, an.User, an.Date, an.Text}}
	}
	return rows
}
