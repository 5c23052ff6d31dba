package cli

import (
	"io"
	"time"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/config"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Tasks       service.TaskService
	Undo        service.UndoService
	Roster      service.RosterService
	Interchange service.InterchangeService
	Views       service.ViewService
	Interaction service.InteractionService
	Notices     service.NoticeService
	Check       service.CheckService

	// Revisions is set when the store keeps a save history.
	Revisions repository.RevisionLister

	Now    func() time.Time
	Today  func() time.Time
	Config config.Config
	Logger *log.Logger

	// IsInteractive is true when stdin is a terminal. Forms and the TUI are
	// only offered then.
	IsInteractive bool
}

// NewApp exposes a service bundle to the command tree.
func NewApp(s *service.Services, cfg config.Config, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		Projects:    s.Projects,
		Tasks:       s.Tasks,
		Undo:        s.Undo,
		Roster:      s.Roster,
		Interchange: s.Interchange,
		Views:       s.Views,
		Interaction: s.Interaction,
		Notices:     s.Notices,
		Check:       s.Check,
		Now:         s.Workspace.Now,
		Today:       s.Workspace.Today,
		Config:      cfg,
		Logger:      logger,
	}
}

// NewRootCmd creates the top-level "taskline" command and registers all
// subcommands against the provided App. Without a subcommand it opens the
// timeline TUI on a terminal and prints the dashboard otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskline",
		Short:         "Hierarchical project planner with Gantt timelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive {
				return runTUI(cmd.Context(), app, "")
			}
			printOut(cmd, formatter.FormatDashboard(app.Views.Dashboard()))
			return nil
		},
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newUndoCmd(app),
		newPICCmd(app),
		newGanttCmd(app),
		newCalendarCmd(app),
		newDashboardCmd(app),
		newNotifyCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newCheckCmd(app),
		newRevisionsCmd(app),
		newTUICmd(app),
	)

	return root
}
