package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/alexanderramin/taskline/internal/interchange"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

type ProjectService interface {
	Create(ctx context.Context, name, pic string) (*domain.Project, error)
	List() []*domain.Project
	Get(id string) (*domain.Project, error)
	Rename(ctx context.Context, id, name string) error
	AssignPIC(ctx context.Context, id, pic string) error
	SetExpanded(ctx context.Context, id string, expanded bool) error
	Delete(ctx context.Context, id string) (domain.UndoEntry, error)
}

// AddTaskRequest describes a new task. A nil Index appends; a zero Start
// means the task starts on its due date.
type AddTaskRequest struct {
	ProjectID  string
	Parent     domain.NodePath
	Index      *int
	Name       string
	Start      time.Time
	Due        time.Time
	Completion int
	PIC        string
	Notes      string
	Bound      bool
}

type TaskService interface {
	Add(ctx context.Context, req AddTaskRequest) (domain.Address, error)
	Get(addr domain.Address) (*domain.TaskNode, error)
	Delete(ctx context.Context, addr domain.Address) (domain.UndoEntry, error)
	EditDates(ctx context.Context, addr domain.Address, start, due time.Time) error
	SetCompletion(ctx context.Context, addr domain.Address, pct int) error
	SetNotes(ctx context.Context, addr domain.Address, notes string) error
	AssignPIC(ctx context.Context, addr domain.Address, pic string) error
	Rename(ctx context.Context, addr domain.Address, name string) error
	SetExpanded(ctx context.Context, addr domain.Address, expanded bool) error
	Move(ctx context.Context, src, target domain.Address, intent domain.DropIntent) (domain.Address, error)
	Reorder(ctx context.Context, projectID string, parent domain.NodePath, from, to int) (domain.Address, error)
	SortByDue(ctx context.Context, projectID string, parent domain.NodePath) error
}

type UndoService interface {
	Undo(ctx context.Context) (*scheduler.Restored, error)
	History() []domain.UndoEntry
}

type RosterService interface {
	List() []string
	Add(ctx context.Context, name string) error
	// Remove drops name from the roster and unassigns it everywhere,
	// returning how many projects and tasks were cleared.
	Remove(ctx context.Context, name string) (int, error)
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	Projects []*domain.Project
	Warnings []interchange.Warning
	Merged   bool
}

type InterchangeService interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader, merge bool) (*ImportSummary, error)
}

type ViewService interface {
	Timeline(projectID string, opts gantt.LayoutOptions) (*gantt.Timeline, error)
	Calendar(year int, month time.Month) *CalendarMonth
	Dashboard() *Dashboard
}

type InteractionService interface {
	Active() bool
	PointerDown(addr domain.Address, mode gantt.Mode, x, containerWidth float64) (gantt.Frame, error)
	PointerMove(x float64) (gantt.Frame, error)
	PointerUp(ctx context.Context) (gantt.Commit, error)
}

type NoticeService interface {
	Scan(horizonDays int) []scheduler.Notice
}

type CheckService interface {
	Check() []domain.Violation
}

// Services bundles every use case over one workspace.
type Services struct {
	Workspace   *Workspace
	Projects    ProjectService
	Tasks       TaskService
	Undo        UndoService
	Roster      RosterService
	Interchange InterchangeService
	Views       ViewService
	Interaction InteractionService
	Notices     NoticeService
	Check       CheckService
}

// New wires all services to ws.
func New(ws *Workspace) *Services {
	return &Services{
		Workspace:   ws,
		Projects:    NewProjectService(ws),
		Tasks:       NewTaskService(ws),
		Undo:        NewUndoService(ws),
		Roster:      NewRosterService(ws),
		Interchange: NewInterchangeService(ws),
		Views:       NewViewService(ws),
		Interaction: NewInteractionService(ws),
		Notices:     NewNoticeService(ws),
		Check:       NewCheckService(ws),
	}
}
