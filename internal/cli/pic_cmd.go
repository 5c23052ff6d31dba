package cli

import (
	"strings"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPICCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pic",
		Short: "Manage the roster of people who can be put in charge",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List the roster",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names := app.Roster.List()
				if len(names) == 0 {
					printOut(cmd, formatter.Dim("The roster is empty. Add someone with `taskline pic add NAME`.")+"\n")
					return nil
				}
				printOut(cmd, strings.Join(names, "\n")+"\n")
				return nil
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a person to the roster",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roster.Add(cmd.Context(), args[0]); err != nil {
					return err
				}
				printf(cmd, "Added %s to the roster\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm NAME",
			Aliases: []string{"remove"},
			Short:   "Remove a person and unassign them everywhere",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := app.Roster.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printf(cmd, "Removed %s from the roster (%d assignment(s) cleared)\n", args[0], n)
				return nil
			},
		},
	)

	return cmd
}
