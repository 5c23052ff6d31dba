package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks (addressed as PROJECT:PATH, e.g. P1:0.2)",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskShowCmd(app),
		newTaskRemoveCmd(app),
		newTaskDatesCmd(app),
		newTaskCompleteCmd(app),
		newTaskNoteCmd(app),
		newTaskPICCmd(app),
		newTaskRenameCmd(app),
		newTaskMoveCmd(app),
		newTaskReorderCmd(app),
		newTaskSortCmd(app),
		newTaskFoldCmd(app, "fold", false),
		newTaskFoldCmd(app, "unfold", true),
		newTaskDragCmd(app),
	)

	return cmd
}

type addTaskFlags struct {
	name       string
	start      time.Time
	due        time.Time
	completion int
	pic        string
	notes      string
	bound      bool
	index      int
}

func newTaskAddCmd(app *App) *cobra.Command {
	var f addTaskFlags

	cmd := &cobra.Command{
		Use:   "add PARENT",
		Short: "Add a task under a project (P1) or under a task (P1:0)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := resolveParent(args[0])
			if err != nil {
				return err
			}
			if f.name == "" || f.due.IsZero() {
				if !app.IsInteractive {
					return errors.New("--name and --due are required")
				}
				in := taskFormInput{Name: f.name, PIC: f.pic, Notes: f.notes, Bound: f.bound}
				if !f.due.IsZero() {
					in.Due = domain.FormatDate(f.due)
				}
				if err := taskForm(&in, app.Roster.List(), !parent.Path.IsRoot()).Run(); err != nil {
					return err
				}
				if err := in.apply(&f); err != nil {
					return err
				}
			}

			req := service.AddTaskRequest{
				ProjectID:  parent.ProjectID,
				Parent:     parent.Path,
				Name:       f.name,
				Start:      f.start,
				Due:        f.due,
				Completion: f.completion,
				PIC:        f.pic,
				Notes:      f.notes,
				Bound:      f.bound,
			}
			if cmd.Flags().Changed("index") {
				idx := f.index
				req.Index = &idx
			}
			addr, err := app.Tasks.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd, "Added %s %s\n", formatter.Bold(addr.String()), f.name)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "Task name")
	cmd.Flags().Var(newDateValue(&f.start), "start", "Start date (YYYY-MM-DD, defaults to the due date)")
	cmd.Flags().Var(newDateValue(&f.due), "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.completion, "completion", 0, "Completion percentage (0-100)")
	cmd.Flags().StringVar(&f.pic, "pic", "", "Person in charge (must be on the roster)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes (markdown)")
	cmd.Flags().BoolVar(&f.bound, "bound", false, "Start on the parent's due date and follow it")
	cmd.Flags().IntVar(&f.index, "index", 0, "Position among siblings (default: last)")
	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ADDR",
		Short: "Show a task and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			n, err := app.Tasks.Get(addr)
			if err != nil {
				return err
			}
			notes := formatter.RenderMarkdown(n.Notes, 80, app.IsInteractive)
			printOut(cmd, formatter.FormatTask(addr, n, notes))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ADDR",
		Aliases: []string{"remove"},
		Short:   "Delete a task and its sub-tasks (undoable)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			entry, err := app.Tasks.Delete(cmd.Context(), addr)
			if err != nil {
				return err
			}
			printf(cmd, "Deleted task %q %s\n", entry.Label, formatter.Dim("(undo with `taskline undo`)"))
			return nil
		},
	}
}

func newTaskDatesCmd(app *App) *cobra.Command {
	var start, due time.Time

	cmd := &cobra.Command{
		Use:   "dates ADDR",
		Short: "Change a task's start and/or due date",
		Long: "Change a task's start and/or due date. Sub-tasks that start on the\n" +
			"task's due date follow it, and enclosing tasks widen to cover it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			if start.IsZero() && due.IsZero() {
				return errors.New("pass --start, --due or both")
			}
			n, err := app.Tasks.Get(addr)
			if err != nil {
				return err
			}
			if start.IsZero() {
				start = n.StartDate
			}
			if due.IsZero() {
				due = n.DueDate
			}
			if err := app.Tasks.EditDates(cmd.Context(), addr, start, due); err != nil {
				return err
			}
			printf(cmd, "%s now runs %s\n", addr, formatter.DateRange(start, due))
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&start), "start", "New start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&due), "due", "New due date (YYYY-MM-DD)")
	return cmd
}

func newTaskCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ADDR [PCT]",
		Short: "Set a task's completion percentage (default 100)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			pct := 100
			if len(args) == 2 {
				var perr error
				if pct, perr = parsePercent(args[1]); perr != nil {
					return perr
				}
			}
			if err := app.Tasks.SetCompletion(cmd.Context(), addr, pct); err != nil {
				return err
			}
			printf(cmd, "%s is %d%% complete\n", addr, pct)
			return nil
		},
	}
}

func parsePercent(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSuffix(s, "%"), "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid completion %q", s)
	}
	return n, nil
}

func newTaskNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note ADDR TEXT",
		Short: "Replace a task's notes (TEXT of - reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			text := args[1]
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading notes: %w", err)
				}
				text = string(b)
			}
			if err := app.Tasks.SetNotes(cmd.Context(), addr, text); err != nil {
				return err
			}
			printf(cmd, "Updated notes of %s\n", addr)
			return nil
		},
	}
}

func newTaskPICCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pic ADDR [NAME]",
		Short: "Assign a task's person in charge (omit NAME to clear)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			if err := app.Tasks.AssignPIC(cmd.Context(), addr, name); err != nil {
				return err
			}
			if name == "" {
				printf(cmd, "Cleared person in charge of %s\n", addr)
				return nil
			}
			printf(cmd, "%s is now in charge of %s\n", name, addr)
			return nil
		},
	}
}

func newTaskRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ADDR NAME",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Rename(cmd.Context(), addr, args[1]); err != nil {
				return err
			}
			printf(cmd, "Renamed %s to %q\n", addr, args[1])
			return nil
		},
	}
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var (
		intent               domain.DropIntent
		rowOffset, rowHeight float64
	)

	cmd := &cobra.Command{
		Use:   "move SRC TARGET",
		Short: "Move a task before, after or onto another task",
		Long: "Move a task before, after or onto (as the last sub-task of) TARGET.\n" +
			"TARGET may be a bare project id with --intent onto to move to its top level.\n" +
			"A task moved under a different task starts on that task's due date.\n" +
			"--row-offset picks the intent from where the drop landed inside TARGET's row:\n" +
			"the top third is before, the bottom third after, the middle onto.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			target, err := resolveParent(args[1])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("row-offset") {
				intent = domain.DropIntentAt(rowOffset, rowHeight)
			}
			moved, err := app.Tasks.Move(cmd.Context(), src, target, intent)
			if err != nil {
				return err
			}
			printf(cmd, "Moved %s to %s\n", src, formatter.Bold(moved.String()))
			return nil
		},
	}

	cmd.Flags().Var(newIntentValue(domain.DropOnto, &intent), "intent", "Where to drop: before|after|onto")
	cmd.Flags().Float64Var(&rowOffset, "row-offset", 0, "Drop position within TARGET's row, measured from its top")
	cmd.Flags().Float64Var(&rowHeight, "row-height", 30, "Height of a row in the same units as --row-offset")
	cmd.MarkFlagsMutuallyExclusive("intent", "row-offset")
	return cmd
}

func newTaskReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder PARENT FROM TO",
		Short: "Move a sibling from one position to another under PARENT",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := resolveParent(args[0])
			if err != nil {
				return err
			}
			from, err := parseIndex(args[1], "position")
			if err != nil {
				return err
			}
			to, err := parseIndex(args[2], "position")
			if err != nil {
				return err
			}
			addr, err := app.Tasks.Reorder(cmd.Context(), parent.ProjectID, parent.Path, from, to)
			if err != nil {
				return err
			}
			printf(cmd, "Task is now at %s\n", formatter.Bold(addr.String()))
			return nil
		},
	}
}

func newTaskSortCmd(app *App) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "sort PARENT",
		Short: "Sort the tasks directly under PARENT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "due" {
				return fmt.Errorf("unsupported sort key %q (expected due)", by)
			}
			parent, err := resolveParent(args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.SortByDue(cmd.Context(), parent.ProjectID, parent.Path); err != nil {
				return err
			}
			printf(cmd, "Sorted %s by due date\n", parent)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "due", "Sort key (due)")
	return cmd
}

func newTaskFoldCmd(app *App, use string, expanded bool) *cobra.Command {
	short := "Hide a task's sub-tasks in trees and timelines"
	if expanded {
		short = "Show a task's sub-tasks in trees and timelines"
	}
	return &cobra.Command{
		Use:   use + " ADDR",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			return app.Tasks.SetExpanded(cmd.Context(), addr, expanded)
		},
	}
}

func newTaskDragCmd(app *App) *cobra.Command {
	var (
		mode  gantt.Mode
		days  float64
		from  float64
		to    float64
		width float64
	)

	cmd := &cobra.Command{
		Use:   "drag ADDR",
		Short: "Drag a task's bar on the timeline",
		Long: "Drag a task's bar as the timeline would: --days shifts the pointer by\n" +
			"whole or fractional days; --from/--to/--width give raw pointer positions.\n" +
			"Releasing commits the dates through the same cascade as `task dates`.",
		Example: "  taskline task drag P1:2 --mode resize-end --days 3\n" +
			"  taskline task drag P1:0 --from 120 --to 180 --width 600",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := resolveTask(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") && !cmd.Flags().Changed("to") {
				return errors.New("pass --days or --to")
			}
			tl, err := app.Views.Timeline(addr.ProjectID, gantt.LayoutOptions{ExpandAll: true})
			if err != nil {
				return err
			}
			total := float64(tl.Viewport.TotalDays())
			if !cmd.Flags().Changed("width") {
				width = total
			}
			if cmd.Flags().Changed("days") {
				to = from + days*width/total
			}

			if _, err := app.Interaction.PointerDown(addr, mode, from, width); err != nil {
				return err
			}
			frame, err := app.Interaction.PointerMove(to)
			if err != nil {
				_, _ = app.Interaction.PointerUp(cmd.Context())
				return err
			}
			commit, err := app.Interaction.PointerUp(cmd.Context())
			if err != nil {
				return err
			}
			if !commit.Changed {
				printf(cmd, "%s unchanged\n", addr)
				return nil
			}
			printf(cmd, "%s now runs %s\n", addr, formatter.DateRange(commit.Start, commit.Due))
			if frame.Grew {
				printf(cmd, "%s\n", formatter.Dim("timeline widened to "+frame.Viewport.String()))
			}
			return nil
		},
	}

	cmd.Flags().Var(newModeValue(gantt.ModeMove, &mode), "mode", "Drag mode: move|resize-start|resize-end")
	cmd.Flags().Float64Var(&days, "days", 0, "Pointer travel in days (negative drags left)")
	cmd.Flags().Float64Var(&from, "from", 0, "Pointer-down position")
	cmd.Flags().Float64Var(&to, "to", 0, "Pointer-up position")
	cmd.Flags().Float64Var(&width, "width", 0, "Container width in the same unit as --from/--to")
	return cmd
}
