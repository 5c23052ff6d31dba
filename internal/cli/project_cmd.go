package cli

import (
	"errors"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRenameCmd(app),
		newProjectPICCmd(app),
		newProjectFoldCmd(app, "fold", false),
		newProjectFoldCmd(app, "unfold", true),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var pic string

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Create a new project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				if !app.IsInteractive {
					return errors.New("project name is required")
				}
				if err := projectForm(&name, &pic, app.Roster.List()).Run(); err != nil {
					return err
				}
			}

			p, err := app.Projects.Create(cmd.Context(), name, pic)
			if err != nil {
				return err
			}
			printf(cmd, "Created project %s %s\n", formatter.Bold(p.ID), p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&pic, "pic", "", "Person in charge (must be on the roster)")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			printOut(cmd, formatter.FormatProjectList(app.Projects.List()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a project's task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Get(args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatProjectTree(p, all || app.Config.ExpandAll))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show folded sub-tasks too")
	return cmd
}

func newProjectRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printf(cmd, "Renamed %s to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newProjectPICCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pic ID [NAME]",
		Short: "Assign a project's person in charge (omit NAME to clear)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			if err := app.Projects.AssignPIC(cmd.Context(), args[0], name); err != nil {
				return err
			}
			if name == "" {
				printf(cmd, "Cleared person in charge of %s\n", args[0])
				return nil
			}
			printf(cmd, "%s is now in charge of %s\n", name, args[0])
			return nil
		},
	}
}

func newProjectFoldCmd(app *App, use string, expanded bool) *cobra.Command {
	short := "Collapse a project in listings"
	if expanded {
		short = "Expand a project in listings"
	}
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Projects.SetExpanded(cmd.Context(), args[0], expanded)
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a project (undoable)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Projects.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "Deleted project %q %s\n", entry.Label, formatter.Dim("(undo with `taskline undo`)"))
			return nil
		},
	}
}
