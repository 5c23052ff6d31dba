package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

// Ledger is the undo stack for deletes. It lives inside the snapshot so it is
// persisted with the board. Only deletes are recorded; there is no redo.
type Ledger struct {
	snap  *domain.Snapshot
	now   func() time.Time
	newID func() string
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock overrides the timestamp source for new entries.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// NewLedger binds a ledger to a snapshot.
func NewLedger(snap *domain.Snapshot, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		snap:  snap,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of undoable deletes.
func (l *Ledger) Len() int {
	return len(l.snap.Undo)
}

// Entries returns the ledger, most recent first.
func (l *Ledger) Entries() []domain.UndoEntry {
	out := make([]domain.UndoEntry, 0, len(l.snap.Undo))
	for i := len(l.snap.Undo) - 1; i >= 0; i-- {
		out = append(out, l.snap.Undo[i])
	}
	return out
}

func (l *Ledger) push(e domain.UndoEntry) domain.UndoEntry {
	e.ID = l.newID()
	e.DeletedAt = l.now()
	l.snap.Undo = append(l.snap.Undo, e)
	return e
}

// DeleteProject removes a project and records a deep copy of it.
func (l *Ledger) DeleteProject(id string) (domain.UndoEntry, error) {
	p, idx, err := l.snap.Project(id)
	if err != nil {
		return domain.UndoEntry{}, err
	}
	l.snap.Projects = append(l.snap.Projects[:idx], l.snap.Projects[idx+1:]...)
	return l.push(domain.UndoEntry{
		Kind:         domain.UndoProject,
		Label:        p.Name,
		Project:      p.Clone(),
		ProjectIndex: idx,
	}), nil
}

// DeleteTask removes a task (with its subtree) and records it along with the
// parent's due date from before the delete-time shrink.
func (l *Ledger) DeleteTask(addr domain.Address) (domain.UndoEntry, error) {
	p, _, err := l.snap.Project(addr.ProjectID)
	if err != nil {
		return domain.UndoEntry{}, err
	}
	r, err := Remove(p, addr.Path)
	if err != nil {
		return domain.UndoEntry{}, err
	}
	return l.push(domain.UndoEntry{
		Kind:      domain.UndoTask,
		Label:     r.Node.Name,
		Task:      r.Node.Clone(),
		Parent:    domain.Address{ProjectID: p.ID, Path: r.Parent},
		Index:     r.Index,
		ParentDue: r.ParentDue,
	}), nil
}

// Restored describes the outcome of an undo.
type Restored struct {
	Entry   domain.UndoEntry
	Address domain.Address
	// Relocated is set when the original parent no longer exists and the task
	// was restored at the project's top level instead.
	Relocated bool
}

// Undo pops the most recent delete and reinserts what it removed at the
// recorded position, then widens the parent chain and rolls completion up.
func (l *Ledger) Undo() (*Restored, error) {
	n := len(l.snap.Undo)
	if n == 0 {
		return nil, domain.ErrNothingToUndo
	}
	e := l.snap.Undo[n-1]
	l.snap.Undo = l.snap.Undo[:n-1]

	switch e.Kind {
	case domain.UndoProject:
		return l.restoreProject(e)
	case domain.UndoTask:
		return l.restoreTask(e)
	}
	return nil, fmt.Errorf("unknown undo entry kind %q", e.Kind)
}

func (l *Ledger) restoreProject(e domain.UndoEntry) (*Restored, error) {
	if _, _, err := l.snap.Project(e.Project.ID); err == nil {
		return nil, fmt.Errorf("restoring project %s: id already in use", e.Project.ID)
	}
	p := e.Project.Clone()
	idx := e.ProjectIndex
	if idx < 0 || idx > len(l.snap.Projects) {
		idx = len(l.snap.Projects)
	}
	l.snap.Projects = append(l.snap.Projects, nil)
	copy(l.snap.Projects[idx+1:], l.snap.Projects[idx:])
	l.snap.Projects[idx] = p
	RecomputeCompletion(p)
	return &Restored{Entry: e, Address: domain.Address{ProjectID: p.ID}}, nil
}

func (l *Ledger) restoreTask(e domain.UndoEntry) (*Restored, error) {
	p, _, err := l.snap.Project(e.Parent.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("restoring %q: %w", e.Label, err)
	}
	node := e.Task.Clone()
	parent := e.Parent.Path
	relocated := false
	if !parent.IsRoot() {
		if _, err := p.Node(parent); err != nil {
			parent = domain.NodePath{}
			node.Dependency = domain.DependencyFree
			relocated = true
		}
	}

	index := e.Index
	if relocated {
		index = -1
	}
	path, err := p.InsertAt(parent, index, node)
	if err != nil {
		return nil, fmt.Errorf("restoring %q: %w", e.Label, err)
	}
	if !relocated && e.ParentDue != nil {
		parentNode, err := p.Node(parent)
		if err != nil {
			return nil, err
		}
		parentNode.DueDate = domain.MaxDate(parentNode.DueDate, *e.ParentDue)
	}
	WidenAncestors(p, path)
	RecomputeCompletion(p)
	return &Restored{
		Entry:     e,
		Address:   domain.Address{ProjectID: p.ID, Path: path},
		Relocated: relocated,
	}, nil
}
