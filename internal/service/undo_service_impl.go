package service

import (
	"context"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

type undoService struct {
	ws *Workspace
}

func NewUndoService(ws *Workspace) UndoService {
	return &undoService{ws: ws}
}

func (s *undoService) Undo(ctx context.Context) (*scheduler.Restored, error) {
	var restored *scheduler.Restored
	fields := map[string]any{}
	err := s.ws.mutate(ctx, "undo", fields, func(snap *domain.Snapshot) error {
		r, err := s.ws.ledger(snap).Undo()
		if err != nil {
			return err
		}
		fields["kind"] = string(r.Entry.Kind)
		fields["restored"] = r.Address.String()
		if r.Relocated {
			s.ws.logger.Warn("undo parent no longer exists, restored at top level",
				"task", r.Entry.Label, "parent", r.Entry.Parent.String(), "restored", r.Address.String())
		}
		restored = &scheduler.Restored{Entry: r.Entry.Clone(), Address: r.Address, Relocated: r.Relocated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

func (s *undoService) History() []domain.UndoEntry {
	entries := s.ws.ledger(s.ws.state).Entries()
	out := make([]domain.UndoEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
