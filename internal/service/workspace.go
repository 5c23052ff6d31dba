package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/scheduler"
	"github.com/charmbracelet/log"
)

// Workspace owns the live board. Every mutating use case runs against a deep
// copy; the copy is normalized, saved, and only then swapped in, so a failed
// edit leaves both the live state and the store untouched.
type Workspace struct {
	repo     repository.SnapshotRepo
	state    *domain.Snapshot
	now      func() time.Time
	observer UseCaseObserver
	logger   *log.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithClock overrides the wall clock used for "today" and undo timestamps.
func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) { w.now = now }
}

// WithObserver sets the use-case observer.
func WithObserver(obs UseCaseObserver) WorkspaceOption {
	return func(w *Workspace) {
		if obs != nil {
			w.observer = obs
		}
	}
}

// WithLogger sets the logger used for contract warnings.
func WithLogger(logger *log.Logger) WorkspaceOption {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OpenWorkspace loads the board from repo.
func OpenWorkspace(ctx context.Context, repo repository.SnapshotRepo, opts ...WorkspaceOption) (*Workspace, error) {
	w := &Workspace{
		repo:     repo,
		now:      time.Now,
		observer: NoopUseCaseObserver{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	s, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}
	for _, p := range s.Projects {
		scheduler.Normalize(p)
	}
	w.state = s
	return w, nil
}

// Snapshot returns a deep copy of the live board.
func (w *Workspace) Snapshot() *domain.Snapshot {
	return w.state.Clone()
}

// Now is the workspace clock.
func (w *Workspace) Now() time.Time {
	return w.now()
}

// Today is the current calendar day.
func (w *Workspace) Today() time.Time {
	return domain.Day(w.now())
}

func (w *Workspace) ledger(s *domain.Snapshot) *scheduler.Ledger {
	return scheduler.NewLedger(s, scheduler.WithClock(func() time.Time { return w.now().UTC() }))
}

// mutate applies fn to a copy of the board and commits it. fields is
// reported to the observer and may be filled in by fn.
func (w *Workspace) mutate(ctx context.Context, name string, fields map[string]any, fn func(s *domain.Snapshot) error) (err error) {
	startedAt := time.Now().UTC()
	if fields == nil {
		fields = map[string]any{}
	}
	defer func() {
		w.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	next := w.state.Clone()
	if err = fn(next); err != nil {
		return err
	}
	for _, p := range next.Projects {
		scheduler.Normalize(p)
	}
	if err = w.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	w.state = next
	return nil
}
