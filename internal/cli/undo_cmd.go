package cli

import (
	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newUndoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recently deleted project or task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Undo.Undo(cmd.Context())
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRestored(r))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deletions that can be undone, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printOut(cmd, formatter.FormatUndoHistory(app.Undo.History(), app.Now()))
			return nil
		},
	})

	return cmd
}
