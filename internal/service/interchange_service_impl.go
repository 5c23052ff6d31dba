package service

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/interchange"
)

type interchangeService struct {
	ws *Workspace
}

func NewInterchangeService(ws *Workspace) InterchangeService {
	return &interchangeService{ws: ws}
}

func (s *interchangeService) Export(_ context.Context, w io.Writer) error {
	snap := s.ws.state
	if err := interchange.Export(w, snap.Projects, snap.Roster); err != nil {
		return fmt.Errorf("exporting board: %w", err)
	}
	return nil
}

// Import parses r and either replaces the board or appends to it. Projects
// always get fresh ids from the board's counter, so a merge never collides
// with existing projects and deleted ids are never reused. The undo ledger
// is cleared because its positions refer to the old board.
func (s *interchangeService) Import(ctx context.Context, r io.Reader, merge bool) (*ImportSummary, error) {
	res, err := interchange.Import(r)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Warnings: res.Warnings, Merged: merge}
	fields := map[string]any{"merge": merge, "projects": len(res.Projects), "warnings": len(res.Warnings)}
	err = s.ws.mutate(ctx, "import", fields, func(snap *domain.Snapshot) error {
		if !merge {
			snap.Projects = nil
			snap.Roster = nil
		}
		for _, name := range res.Roster {
			if !slices.Contains(snap.Roster, name) {
				snap.Roster = append(snap.Roster, name)
			}
		}
		for _, p := range res.Projects {
			p.ID = snap.AllocateProjectID()
			p.Expanded = true
			snap.Projects = append(snap.Projects, p)
			summary.Projects = append(summary.Projects, p.Clone())
		}
		snap.Undo = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
