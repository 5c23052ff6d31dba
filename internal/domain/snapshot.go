package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Snapshot is the complete persisted state of the board: every project tree,
// the person-in-charge roster, the project id counter and the undo ledger.
type Snapshot struct {
	Projects       []*Project
	Roster         []string
	NextProjectSeq int
	Undo           []UndoEntry
}

// NewSnapshot returns an empty board.
func NewSnapshot() *Snapshot {
	return &Snapshot{NextProjectSeq: 1}
}

// Clone returns a deep copy. Use cases mutate a clone and only swap it in once
// the whole cascade succeeded.
func (s *Snapshot) Clone() *Snapshot {
	cp := &Snapshot{
		Roster:         slices.Clone(s.Roster),
		NextProjectSeq: s.NextProjectSeq,
	}
	if s.Projects != nil {
		cp.Projects = make([]*Project, len(s.Projects))
		for i, p := range s.Projects {
			cp.Projects[i] = p.Clone()
		}
	}
	if s.Undo != nil {
		cp.Undo = make([]UndoEntry, len(s.Undo))
		for i, e := range s.Undo {
			cp.Undo[i] = e.Clone()
		}
	}
	return cp
}

// AllocateProjectID returns the next project id. Ids are never reused, even
// after the project is deleted.
func (s *Snapshot) AllocateProjectID() string {
	if s.NextProjectSeq < 1 {
		s.NextProjectSeq = 1
	}
	id := fmt.Sprintf("P%d", s.NextProjectSeq)
	s.NextProjectSeq++
	return id
}

// Project looks up a project by id and returns it with its list index.
func (s *Snapshot) Project(id string) (*Project, int, error) {
	for i, p := range s.Projects {
		if strings.EqualFold(p.ID, id) {
			return p, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %q", ErrProjectNotFound, id)
}

// Node resolves a board-wide address.
func (s *Snapshot) Node(addr Address) (*Project, *TaskNode, error) {
	p, _, err := s.Project(addr.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	n, err := p.Node(addr.Path)
	if err != nil {
		return nil, nil, err
	}
	return p, n, nil
}

// HasPIC reports whether name is on the roster.
func (s *Snapshot) HasPIC(name string) bool {
	return slices.Contains(s.Roster, name)
}

// ValidatePIC accepts an empty name (unassigned) or a roster member.
func (s *Snapshot) ValidatePIC(name string) error {
	if name == "" || s.HasPIC(name) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPIC, name)
}

// UndoKind says what an undo entry restores.
type UndoKind string

const (
	UndoProject UndoKind = "project"
	UndoTask    UndoKind = "task"
)

// UndoEntry is the inverse of one delete: a deep copy of what was removed and
// where it used to be.
type UndoEntry struct {
	ID        string
	Kind      UndoKind
	Label     string
	DeletedAt time.Time

	// Project deletes.
	Project      *Project
	ProjectIndex int

	// Task deletes. Parent is the address of the containing task (root path
	// for top-level tasks) and Index the position among its children.
	Task      *TaskNode
	Parent    Address
	Index     int
	ParentDue *time.Time
}

// Clone returns a deep copy of the entry.
func (e UndoEntry) Clone() UndoEntry {
	cp := e
	cp.Project = e.Project.Clone()
	cp.Task = e.Task.Clone()
	cp.Parent.Path = slices.Clone(e.Parent.Path)
	if e.ParentDue != nil {
		d := *e.ParentDue
		cp.ParentDue = &d
	}
	return cp
}
