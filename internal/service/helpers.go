package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/domain"
)

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

func projectOf(s *domain.Snapshot, id string) (*domain.Project, error) {
	p, _, err := s.Project(id)
	return p, err
}

func taskAt(s *domain.Snapshot, addr domain.Address) (*domain.Project, *domain.TaskNode, error) {
	p, n, err := s.Node(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", addr, err)
	}
	return p, n, nil
}

func cloneProjects(projects []*domain.Project) []*domain.Project {
	out := make([]*domain.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
