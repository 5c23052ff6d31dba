package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/tailscale/hujson"
)

// ErrInvalidSnapshot is returned when stored data does not match the
// snapshot schema.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

const snapshotVersion = 1

type snapshotDoc struct {
	Version        int          `json:"version"`
	NextProjectSeq int          `json:"next_project_seq"`
	Roster         []string     `json:"pics"`
	Projects       []projectDoc `json:"projects"`
	Undo           []undoDoc    `json:"undo"`
}

type metaDoc struct {
	Version        int `json:"version"`
	NextProjectSeq int `json:"next_project_seq"`
}

type projectDoc struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PIC        string    `json:"pic,omitempty"`
	Completion int       `json:"completion"`
	Expanded   bool      `json:"expanded,omitempty"`
	Tasks      []taskDoc `json:"tasks"`
}

type taskDoc struct {
	Name       string    `json:"name"`
	Start      string    `json:"start"`
	Due        string    `json:"due"`
	Completion int       `json:"completion"`
	PIC        string    `json:"pic,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Dependency string    `json:"dependency,omitempty"`
	Expanded   bool      `json:"expanded,omitempty"`
	Children   []taskDoc `json:"children,omitempty"`
}

type undoDoc struct {
	ID            string      `json:"id"`
	Kind          string      `json:"kind"`
	Label         string      `json:"label"`
	DeletedAt     string      `json:"deleted_at"`
	Project       *projectDoc `json:"project,omitempty"`
	ProjectIndex  int         `json:"project_index,omitempty"`
	Task          *taskDoc    `json:"task,omitempty"`
	ParentProject string      `json:"parent_project,omitempty"`
	ParentPath    string      `json:"parent_path,omitempty"`
	Index         int         `json:"index,omitempty"`
	ParentDue     string      `json:"parent_due,omitempty"`
}

// EncodeSnapshot renders the whole snapshot as one indented JSON document.
func EncodeSnapshot(s *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(toDoc(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a snapshot document. Comments and trailing commas
// are accepted so the file can be edited by hand. The document is checked
// against the snapshot schema before it is decoded.
func DecodeSnapshot(data []byte) (*domain.Snapshot, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := validateSnapshot(std); err != nil {
		return nil, err
	}
	var doc snapshotDoc
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return fromDoc(doc)
}

func toDoc(s *domain.Snapshot) snapshotDoc {
	doc := snapshotDoc{
		Version:        snapshotVersion,
		NextProjectSeq: s.NextProjectSeq,
		Roster:         append([]string{}, s.Roster...),
		Projects:       make([]projectDoc, 0, len(s.Projects)),
		Undo:           make([]undoDoc, 0, len(s.Undo)),
	}
	if doc.NextProjectSeq < 1 {
		doc.NextProjectSeq = 1
	}
	for _, p := range s.Projects {
		doc.Projects = append(doc.Projects, projectToDoc(p))
	}
	for _, e := range s.Undo {
		doc.Undo = append(doc.Undo, undoToDoc(e))
	}
	return doc
}

func projectToDoc(p *domain.Project) projectDoc {
	return projectDoc{
		ID:         p.ID,
		Name:       p.Name,
		PIC:        p.PersonInCharge,
		Completion: p.Completion,
		Expanded:   p.Expanded,
		Tasks:      tasksToDoc(p.Children, true),
	}
}

// tasksToDoc converts a child list. Top-level lists are always arrays; nested
// empty lists are omitted.
func tasksToDoc(nodes []*domain.TaskNode, top bool) []taskDoc {
	if len(nodes) == 0 {
		if top {
			return []taskDoc{}
		}
		return nil
	}
	out := make([]taskDoc, len(nodes))
	for i, n := range nodes {
		out[i] = taskToDoc(n)
	}
	return out
}

func taskToDoc(n *domain.TaskNode) taskDoc {
	d := taskDoc{
		Name:       n.Name,
		Start:      domain.FormatDate(n.StartDate),
		Due:        domain.FormatDate(n.DueDate),
		Completion: n.Completion,
		PIC:        n.PersonInCharge,
		Notes:      n.Notes,
		Expanded:   n.Expanded,
		Children:   tasksToDoc(n.Children, false),
	}
	if n.Dependency.IsBound() {
		d.Dependency = string(n.Dependency)
	}
	return d
}

func undoToDoc(e domain.UndoEntry) undoDoc {
	d := undoDoc{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Label:     e.Label,
		DeletedAt: e.DeletedAt.UTC().Format(time.RFC3339),
	}
	switch e.Kind {
	case domain.UndoProject:
		if e.Project != nil {
			p := projectToDoc(e.Project)
			d.Project = &p
		}
		d.ProjectIndex = e.ProjectIndex
	case domain.UndoTask:
		if e.Task != nil {
			t := taskToDoc(e.Task)
			d.Task = &t
		}
		d.ParentProject = e.Parent.ProjectID
		d.ParentPath = e.Parent.Path.String()
		d.Index = e.Index
		if e.ParentDue != nil {
			d.ParentDue = domain.FormatDate(*e.ParentDue)
		}
	}
	return d
}

func fromDoc(doc snapshotDoc) (*domain.Snapshot, error) {
	s := domain.NewSnapshot()
	s.NextProjectSeq = max(doc.NextProjectSeq, 1)
	if len(doc.Roster) > 0 {
		s.Roster = append([]string{}, doc.Roster...)
	}
	for i, pd := range doc.Projects {
		p, err := projectFromDoc(pd)
		if err != nil {
			return nil, fmt.Errorf("%w: projects[%d]: %v", ErrInvalidSnapshot, i, err)
		}
		s.Projects = append(s.Projects, p)
	}
	for i, ud := range doc.Undo {
		e, err := undoFromDoc(ud)
		if err != nil {
			return nil, fmt.Errorf("%w: undo[%d]: %v", ErrInvalidSnapshot, i, err)
		}
		s.Undo = append(s.Undo, e)
	}
	return s, nil
}

func projectFromDoc(d projectDoc) (*domain.Project, error) {
	children, err := tasksFromDoc(d.Tasks)
	if err != nil {
		return nil, err
	}
	return &domain.Project{
		ID:             d.ID,
		Name:           d.Name,
		PersonInCharge: d.PIC,
		Completion:     d.Completion,
		Expanded:       d.Expanded,
		Children:       children,
	}, nil
}

func tasksFromDoc(docs []taskDoc) ([]*domain.TaskNode, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]*domain.TaskNode, len(docs))
	for i, d := range docs {
		n, err := taskFromDoc(d)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func taskFromDoc(d taskDoc) (*domain.TaskNode, error) {
	start, err := domain.ParseDate(d.Start)
	if err != nil {
		return nil, fmt.Errorf("task %q start: %w", d.Name, err)
	}
	due, err := domain.ParseDate(d.Due)
	if err != nil {
		return nil, fmt.Errorf("task %q due: %w", d.Name, err)
	}
	mode, err := domain.ParseDependencyMode(d.Dependency)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", d.Name, err)
	}
	children, err := tasksFromDoc(d.Children)
	if err != nil {
		return nil, err
	}
	return &domain.TaskNode{
		Name:           d.Name,
		StartDate:      start,
		DueDate:        due,
		Completion:     d.Completion,
		PersonInCharge: d.PIC,
		Notes:          d.Notes,
		Dependency:     mode,
		Expanded:       d.Expanded,
		Children:       children,
	}, nil
}

func undoFromDoc(d undoDoc) (domain.UndoEntry, error) {
	e := domain.UndoEntry{ID: d.ID, Kind: domain.UndoKind(d.Kind), Label: d.Label}
	if d.DeletedAt != "" {
		t, err := time.Parse(time.RFC3339, d.DeletedAt)
		if err != nil {
			return e, fmt.Errorf("deleted_at: %w", err)
		}
		e.DeletedAt = t
	}

	switch e.Kind {
	case domain.UndoProject:
		if d.Project == nil {
			return e, errors.New("project entry without a project")
		}
		p, err := projectFromDoc(*d.Project)
		if err != nil {
			return e, err
		}
		e.Project = p
		e.ProjectIndex = d.ProjectIndex
	case domain.UndoTask:
		if d.Task == nil {
			return e, errors.New("task entry without a task")
		}
		n, err := taskFromDoc(*d.Task)
		if err != nil {
			return e, err
		}
		path, err := domain.ParsePath(d.ParentPath)
		if err != nil {
			return e, err
		}
		e.Task = n
		e.Parent = domain.Address{ProjectID: d.ParentProject, Path: path}
		e.Index = d.Index
		if d.ParentDue != "" {
			due, err := domain.ParseDate(d.ParentDue)
			if err != nil {
				return e, fmt.Errorf("parent_due: %w", err)
			}
			e.ParentDue = &due
		}
	default:
		return e, fmt.Errorf("unknown kind %q", d.Kind)
	}
	return e, nil
}
