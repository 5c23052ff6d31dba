package domain

import (
	"fmt"
	"time"
)

// Project is the root of a task tree.
type Project struct {
	ID             string
	Name           string
	PersonInCharge string
	Completion     int
	Expanded       bool
	Children       []*TaskNode
}

// Clone returns a deep copy of the project and its whole tree.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Children = cloneNodes(p.Children)
	return &cp
}

// Walk visits every task in the project depth-first, pre-order, with the
// task's path. Top-level tasks have depth 0.
func (p *Project) Walk(fn func(node *TaskNode, path NodePath) bool) {
	var visit func(nodes []*TaskNode, prefix NodePath)
	visit = func(nodes []*TaskNode, prefix NodePath) {
		for i, n := range nodes {
			path := prefix.Child(i)
			if !fn(n, path) {
				continue
			}
			visit(n.Children, path)
		}
	}
	visit(p.Children, nil)
}

// TaskCount returns the number of tasks at every depth.
func (p *Project) TaskCount() int {
	count := 0
	p.Walk(func(*TaskNode, NodePath) bool {
		count++
		return true
	})
	return count
}

// DateSpan returns the earliest start/due and the latest start/due of any task.
// ok is false when the project has no tasks.
func (p *Project) DateSpan() (earliest, latest time.Time, ok bool) {
	p.Walk(func(n *TaskNode, _ NodePath) bool {
		for _, d := range []time.Time{n.StartDate, n.DueDate} {
			if !ok || d.Before(earliest) {
				earliest = d
			}
			if !ok || d.After(latest) {
				latest = d
			}
			ok = true
		}
		return true
	})
	return earliest, latest, ok
}

// Node resolves a path to its task.
func (p *Project) Node(path NodePath) (*TaskNode, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path in project %s", ErrNodeNotFound, p.ID)
	}
	list := p.Children
	var node *TaskNode
	for depth, idx := range path {
		if idx < 0 || idx >= len(list) {
			return nil, fmt.Errorf("%w: %s in project %s (no index %d at depth %d)",
				ErrNodeNotFound, path, p.ID, idx, depth)
		}
		node = list[idx]
		list = node.Children
	}
	return node, nil
}

// ChildList returns the child slice addressed by parent, where an empty path
// is the project root.
func (p *Project) ChildList(parent NodePath) ([]*TaskNode, error) {
	if len(parent) == 0 {
		return p.Children, nil
	}
	n, err := p.Node(parent)
	if err != nil {
		return nil, err
	}
	return n.Children, nil
}

func (p *Project) setChildList(parent NodePath, list []*TaskNode) error {
	if len(parent) == 0 {
		p.Children = list
		return nil
	}
	n, err := p.Node(parent)
	if err != nil {
		return err
	}
	n.Children = list
	return nil
}

// InsertAt inserts node as a child of parent at index. An index outside the
// current range appends.
func (p *Project) InsertAt(parent NodePath, index int, node *TaskNode) (NodePath, error) {
	list, err := p.ChildList(parent)
	if err != nil {
		return nil, err
	}
	if index < 0 || index > len(list) {
		index = len(list)
	}
	if err := p.setChildList(parent, insertNode(list, index, node)); err != nil {
		return nil, err
	}
	return parent.Child(index), nil
}

// RemoveAt detaches and returns the node at path.
func (p *Project) RemoveAt(path NodePath) (*TaskNode, error) {
	if _, err := p.Node(path); err != nil {
		return nil, err
	}
	parent := path.Parent()
	list, err := p.ChildList(parent)
	if err != nil {
		return nil, err
	}
	list, node := removeNode(list, path.Index())
	if err := p.setChildList(parent, list); err != nil {
		return nil, err
	}
	return node, nil
}
