package testutil

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// MustDate parses a YYYY-MM-DD string and panics on malformed input.
func MustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Task options
type TaskOption func(*domain.TaskNode)

func WithDates(start, due string) TaskOption {
	return func(n *domain.TaskNode) {
		n.StartDate = MustDate(start)
		n.DueDate = MustDate(due)
	}
}

func WithCompletion(pct int) TaskOption {
	return func(n *domain.TaskNode) {
		n.Completion = pct
	}
}

func WithPIC(name string) TaskOption {
	return func(n *domain.TaskNode) {
		n.PersonInCharge = name
	}
}

func WithNotes(notes string) TaskOption {
	return func(n *domain.TaskNode) {
		n.Notes = notes
	}
}

// Bound marks the task as starting on its parent's due date.
func Bound() TaskOption {
	return func(n *domain.TaskNode) {
		n.Dependency = domain.DependencyParent
	}
}

func WithChildren(children ...*domain.TaskNode) TaskOption {
	return func(n *domain.TaskNode) {
		n.Children = append(n.Children, children...)
	}
}

// NewTestTask builds a free leaf task spanning 2025-04-01..2025-04-05 unless
// options say otherwise.
func NewTestTask(name string, opts ...TaskOption) *domain.TaskNode {
	n := &domain.TaskNode{
		Name:       name,
		StartDate:  MustDate("2025-04-01"),
		DueDate:    MustDate("2025-04-05"),
		Dependency: domain.DependencyFree,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestProject builds a project holding the given top-level tasks.
func NewTestProject(id, name string, tasks ...*domain.TaskNode) *domain.Project {
	return &domain.Project{ID: id, Name: name, Children: tasks}
}

// NewTestSnapshot wraps projects in a snapshot whose id counter continues
// after them.
func NewTestSnapshot(projects ...*domain.Project) *domain.Snapshot {
	s := domain.NewSnapshot()
	s.Projects = projects
	s.NextProjectSeq = len(projects) + 1
	return s
}
