package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

// ErrDueRequired is returned when a task is added without a due date.
var ErrDueRequired = errors.New("due date is required")

type taskService struct {
	ws *Workspace
}

func NewTaskService(ws *Workspace) TaskService {
	return &taskService{ws: ws}
}

func (s *taskService) Add(ctx context.Context, req AddTaskRequest) (domain.Address, error) {
	var addr domain.Address
	fields := map[string]any{"project": req.ProjectID, "parent": req.Parent.String(), "bound": req.Bound}
	err := s.ws.mutate(ctx, "add-task", fields, func(snap *domain.Snapshot) error {
		name, err := cleanName(req.Name)
		if err != nil {
			return err
		}
		if req.Due.IsZero() {
			return ErrDueRequired
		}
		if req.Completion < 0 || req.Completion > 100 {
			return fmt.Errorf("%w: %d", domain.ErrInvalidCompletion, req.Completion)
		}
		if err := snap.ValidatePIC(req.PIC); err != nil {
			return err
		}
		p, err := projectOf(snap, req.ProjectID)
		if err != nil {
			return err
		}

		start := req.Start
		if start.IsZero() {
			start = req.Due
		}
		node := &domain.TaskNode{
			Name:           name,
			StartDate:      domain.Day(start),
			DueDate:        domain.Day(req.Due),
			Completion:     req.Completion,
			PersonInCharge: req.PIC,
			Notes:          req.Notes,
			Dependency:     domain.DependencyFree,
			Expanded:       true,
		}
		if req.Bound {
			node.Dependency = domain.DependencyParent
		}
		index := -1
		if req.Index != nil {
			index = *req.Index
		}
		path, err := scheduler.Insert(p, req.Parent, index, node)
		if err != nil {
			return err
		}
		addr = domain.Address{ProjectID: p.ID, Path: path}
		fields["task"] = addr.String()
		return nil
	})
	return addr, err
}

func (s *taskService) Get(addr domain.Address) (*domain.TaskNode, error) {
	_, n, err := taskAt(s.ws.state, addr)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

func (s *taskService) Delete(ctx context.Context, addr domain.Address) (domain.UndoEntry, error) {
	var entry domain.UndoEntry
	err := s.ws.mutate(ctx, "delete-task", map[string]any{"task": addr.String()}, func(snap *domain.Snapshot) error {
		e, err := s.ws.ledger(snap).DeleteTask(addr)
		if err != nil {
			return err
		}
		entry = e.Clone()
		return nil
	})
	return entry, err
}

func (s *taskService) EditDates(ctx context.Context, addr domain.Address, start, due time.Time) error {
	fields := map[string]any{
		"task":  addr.String(),
		"start": domain.FormatDate(start),
		"due":   domain.FormatDate(due),
	}
	return s.ws.mutate(ctx, "edit-dates", fields, func(snap *domain.Snapshot) error {
		p, _, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		return scheduler.ApplyDateChange(p, addr.Path, start, due)
	})
}

func (s *taskService) SetCompletion(ctx context.Context, addr domain.Address, pct int) error {
	return s.ws.mutate(ctx, "set-completion", map[string]any{"task": addr.String(), "completion": pct}, func(snap *domain.Snapshot) error {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: %d", domain.ErrInvalidCompletion, pct)
		}
		p, n, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		if !n.IsLeaf() {
			return fmt.Errorf("%w: %q has %d sub-tasks", domain.ErrLeafOnly, n.Name, len(n.Children))
		}
		n.Completion = pct
		scheduler.RecomputeCompletion(p)
		return nil
	})
}

func (s *taskService) SetNotes(ctx context.Context, addr domain.Address, notes string) error {
	return s.ws.mutate(ctx, "set-notes", map[string]any{"task": addr.String()}, func(snap *domain.Snapshot) error {
		_, n, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		n.Notes = notes
		return nil
	})
}

func (s *taskService) AssignPIC(ctx context.Context, addr domain.Address, pic string) error {
	return s.ws.mutate(ctx, "assign-task-pic", map[string]any{"task": addr.String(), "pic": pic}, func(snap *domain.Snapshot) error {
		if err := snap.ValidatePIC(pic); err != nil {
			return err
		}
		_, n, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		n.PersonInCharge = pic
		return nil
	})
}

func (s *taskService) Rename(ctx context.Context, addr domain.Address, name string) error {
	return s.ws.mutate(ctx, "rename-task", map[string]any{"task": addr.String()}, func(snap *domain.Snapshot) error {
		clean, err := cleanName(name)
		if err != nil {
			return err
		}
		_, n, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		n.Name = clean
		return nil
	})
}

func (s *taskService) SetExpanded(ctx context.Context, addr domain.Address, expanded bool) error {
	return s.ws.mutate(ctx, "expand-task", map[string]any{"task": addr.String(), "expanded": expanded}, func(snap *domain.Snapshot) error {
		_, n, err := taskAt(snap, addr)
		if err != nil {
			return err
		}
		n.Expanded = expanded
		return nil
	})
}

// Move relocates src relative to target. A target with an empty path and
// DropOnto means the top level of the target's project.
func (s *taskService) Move(ctx context.Context, src, target domain.Address, intent domain.DropIntent) (domain.Address, error) {
	var moved domain.Address
	fields := map[string]any{"task": src.String(), "target": target.String(), "intent": string(intent)}
	err := s.ws.mutate(ctx, "move-task", fields, func(snap *domain.Snapshot) error {
		if _, err := domain.ParseDropIntent(string(intent)); err != nil {
			return err
		}
		srcProject, err := projectOf(snap, src.ProjectID)
		if err != nil {
			return err
		}
		dstProject, err := projectOf(snap, target.ProjectID)
		if err != nil {
			return err
		}
		path, err := scheduler.Move(srcProject, src.Path, dstProject, target.Path, intent)
		if err != nil {
			return err
		}
		moved = domain.Address{ProjectID: dstProject.ID, Path: path}
		fields["moved_to"] = moved.String()
		return nil
	})
	return moved, err
}

func (s *taskService) Reorder(ctx context.Context, projectID string, parent domain.NodePath, from, to int) (domain.Address, error) {
	var addr domain.Address
	fields := map[string]any{"project": projectID, "parent": parent.String(), "from": from, "to": to}
	err := s.ws.mutate(ctx, "reorder-task", fields, func(snap *domain.Snapshot) error {
		p, err := projectOf(snap, projectID)
		if err != nil {
			return err
		}
		path, err := scheduler.Reorder(p, parent, from, to)
		if err != nil {
			return err
		}
		addr = domain.Address{ProjectID: p.ID, Path: path}
		return nil
	})
	return addr, err
}

func (s *taskService) SortByDue(ctx context.Context, projectID string, parent domain.NodePath) error {
	return s.ws.mutate(ctx, "sort-by-due", map[string]any{"project": projectID, "parent": parent.String()}, func(snap *domain.Snapshot) error {
		p, err := projectOf(snap, projectID)
		if err != nil {
			return err
		}
		return scheduler.SortByDue(p, parent)
	})
}
