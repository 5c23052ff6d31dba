package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/taskline/internal/domain"
)

type rosterService struct {
	ws *Workspace
}

func NewRosterService(ws *Workspace) RosterService {
	return &rosterService{ws: ws}
}

func (s *rosterService) List() []string {
	return slices.Clone(s.ws.state.Roster)
}

func (s *rosterService) Add(ctx context.Context, name string) error {
	return s.ws.mutate(ctx, "add-pic", map[string]any{"pic": name}, func(snap *domain.Snapshot) error {
		clean, err := cleanName(name)
		if err != nil {
			return err
		}
		if snap.HasPIC(clean) {
			return fmt.Errorf("%w: %q", domain.ErrDuplicatePIC, clean)
		}
		snap.Roster = append(snap.Roster, clean)
		return nil
	})
}

func (s *rosterService) Remove(ctx context.Context, name string) (int, error) {
	cleared := 0
	fields := map[string]any{"pic": name}
	err := s.ws.mutate(ctx, "remove-pic", fields, func(snap *domain.Snapshot) error {
		idx := slices.Index(snap.Roster, name)
		if idx < 0 {
			return fmt.Errorf("%w: %q", domain.ErrUnknownPIC, name)
		}
		snap.Roster = slices.Delete(snap.Roster, idx, idx+1)
		for _, p := range snap.Projects {
			if p.PersonInCharge == name {
				p.PersonInCharge = ""
				cleared++
			}
			p.Walk(func(n *domain.TaskNode, _ domain.NodePath) bool {
				if n.PersonInCharge == name {
					n.PersonInCharge = ""
					cleared++
				}
				return true
			})
		}
		fields["cleared"] = cleared
		return nil
	})
	return cleared, err
}
