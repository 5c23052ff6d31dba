package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/spf13/cobra"
)

func newGanttCmd(app *App) *cobra.Command {
	var (
		all   bool
		width int
	)

	cmd := &cobra.Command{
		Use:     "gantt PROJECT",
		Aliases: []string{"timeline"},
		Short:   "Draw a project's timeline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := app.Views.Timeline(args[0], gantt.LayoutOptions{ExpandAll: all || app.Config.ExpandAll})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.RenderTimeline(*tl, formatter.GanttOptions{
				Width:    formatter.GanttChartWidth(width),
				Selected: -1,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show folded sub-tasks too")
	cmd.Flags().IntVar(&width, "width", 120, "Total output width in columns")
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	var (
		year  int
		month time.Month
	)

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show task starts and due dates for a month",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				today := app.Today()
				year, month = today.Year(), today.Month()
			}
			printOut(cmd, formatter.FormatCalendar(app.Views.Calendar(year, month)))
			return nil
		},
	}

	cmd.Flags().Var(&monthValue{year: &year, month: &month}, "month", "Month to show (YYYY-MM, default: this month)")
	return cmd
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"status"},
		Short:   "Summarize every project and what is due soon",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printOut(cmd, formatter.FormatDashboard(app.Views.Dashboard()))
			return nil
		},
	}
}

func newNotifyCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "List unfinished tasks that are overdue or due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = app.Config.NotifyDays
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}
			notices := app.Notices.Scan(days)
			for _, n := range notices {
				app.Logger.Debug("notice", "task", n.Address.String(), "state", n.State, "days_left", n.DaysLeft)
			}
			printOut(cmd, formatter.FormatNotices(notices))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Look-ahead horizon in days (default from config)")
	return cmd
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify date and completion rules across all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs := app.Check.Check()
			printOut(cmd, formatter.FormatViolations(vs))
			if len(vs) > 0 {
				return fmt.Errorf("%d rule violation(s) found", len(vs))
			}
			return nil
		},
	}
}

func newRevisionsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "List recent saves of the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Revisions == nil {
				return errors.New("the configured store does not keep revisions (use store = \"sqlite\")")
			}
			revs, err := app.Revisions.Revisions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				printOut(cmd, formatter.Dim("No saves yet.")+"\n")
				return nil
			}
			rows := make([][]string, 0, len(revs))
			for _, r := range revs {
				rows = append(rows, []string{
					r.ID,
					r.SavedAt.Local().Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%d", r.Projects),
					fmt.Sprintf("%d", r.Tasks),
					fmt.Sprintf("%d", r.Bytes),
				})
			}
			printOut(cmd, formatter.RenderTable([]string{"REVISION", "SAVED", "PROJECTS", "TASKS", "BYTES"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "How many revisions to show")
	return cmd
}
