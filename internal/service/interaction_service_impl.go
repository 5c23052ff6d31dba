package service

import (
	"context"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

// interactionService runs one drag at a time against the live board. The
// viewport is the one the timeline view derives for the project, so pointer
// coordinates line up with what was rendered.
type interactionService struct {
	ws   *Workspace
	ctrl gantt.Controller
}

func NewInteractionService(ws *Workspace) InteractionService {
	return &interactionService{ws: ws}
}

func (s *interactionService) Active() bool {
	return s.ctrl.Active()
}

func (s *interactionService) PointerDown(addr domain.Address, mode gantt.Mode, x, containerWidth float64) (gantt.Frame, error) {
	if s.ctrl.Active() {
		return gantt.Frame{}, gantt.ErrSessionActive
	}
	p, _, err := taskAt(s.ws.state, addr)
	if err != nil {
		return gantt.Frame{}, err
	}
	v := gantt.ViewportFor(p, s.ws.Today())
	target, err := gantt.TargetFor(p, addr.Path, v)
	if err != nil {
		return gantt.Frame{}, err
	}
	return s.ctrl.PointerDown(target, mode, x, containerWidth)
}

func (s *interactionService) PointerMove(x float64) (gantt.Frame, error) {
	return s.ctrl.PointerMove(x)
}

// PointerUp ends the drag and commits the dates through the same cascade as
// a direct date edit. A release in place commits nothing.
func (s *interactionService) PointerUp(ctx context.Context) (gantt.Commit, error) {
	c, err := s.ctrl.PointerUp()
	if err != nil {
		return c, err
	}
	if !c.Changed {
		return c, nil
	}
	fields := map[string]any{
		"task":  c.Address.String(),
		"mode":  string(c.Mode),
		"start": domain.FormatDate(c.Start),
		"due":   domain.FormatDate(c.Due),
	}
	err = s.ws.mutate(ctx, "drag-commit", fields, func(snap *domain.Snapshot) error {
		p, _, err := taskAt(snap, c.Address)
		if err != nil {
			return err
		}
		if err := scheduler.ApplyDateChange(p, c.Address.Path, c.Start, c.Due); err != nil {
			return err
		}
		scheduler.RecomputeCompletion(p)
		return nil
	})
	return c, err
}
