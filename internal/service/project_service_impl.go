package service

import (
	"context"

	"github.com/alexanderramin/taskline/internal/domain"
)

type projectService struct {
	ws *Workspace
}

func NewProjectService(ws *Workspace) ProjectService {
	return &projectService{ws: ws}
}

func (s *projectService) Create(ctx context.Context, name, pic string) (*domain.Project, error) {
	var created *domain.Project
	fields := map[string]any{"name": name}
	err := s.ws.mutate(ctx, "create-project", fields, func(snap *domain.Snapshot) error {
		clean, err := cleanName(name)
		if err != nil {
			return err
		}
		if err := snap.ValidatePIC(pic); err != nil {
			return err
		}
		p := &domain.Project{
			ID:             snap.AllocateProjectID(),
			Name:           clean,
			PersonInCharge: pic,
			Expanded:       true,
		}
		snap.Projects = append(snap.Projects, p)
		fields["project"] = p.ID
		created = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *projectService) List() []*domain.Project {
	return cloneProjects(s.ws.state.Projects)
}

func (s *projectService) Get(id string) (*domain.Project, error) {
	p, err := projectOf(s.ws.state, id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *projectService) Rename(ctx context.Context, id, name string) error {
	return s.ws.mutate(ctx, "rename-project", map[string]any{"project": id}, func(snap *domain.Snapshot) error {
		clean, err := cleanName(name)
		if err != nil {
			return err
		}
		p, err := projectOf(snap, id)
		if err != nil {
			return err
		}
		p.Name = clean
		return nil
	})
}

func (s *projectService) AssignPIC(ctx context.Context, id, pic string) error {
	return s.ws.mutate(ctx, "assign-project-pic", map[string]any{"project": id, "pic": pic}, func(snap *domain.Snapshot) error {
		if err := snap.ValidatePIC(pic); err != nil {
			return err
		}
		p, err := projectOf(snap, id)
		if err != nil {
			return err
		}
		p.PersonInCharge = pic
		return nil
	})
}

func (s *projectService) SetExpanded(ctx context.Context, id string, expanded bool) error {
	return s.ws.mutate(ctx, "expand-project", map[string]any{"project": id, "expanded": expanded}, func(snap *domain.Snapshot) error {
		p, err := projectOf(snap, id)
		if err != nil {
			return err
		}
		p.Expanded = expanded
		return nil
	})
}

func (s *projectService) Delete(ctx context.Context, id string) (domain.UndoEntry, error) {
	var entry domain.UndoEntry
	err := s.ws.mutate(ctx, "delete-project", map[string]any{"project": id}, func(snap *domain.Snapshot) error {
		e, err := s.ws.ledger(snap).DeleteProject(id)
		if err != nil {
			return err
		}
		entry = e.Clone()
		return nil
	})
	return entry, err
}
