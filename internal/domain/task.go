package domain

import "time"

// TaskNode is a task or sub-task. The model is recursive: any task may carry
// further sub-tasks in Children, in display order.
type TaskNode struct {
	Name           string
	StartDate      time.Time
	DueDate        time.Time
	Completion     int
	PersonInCharge string
	Notes          string
	Dependency     DependencyMode
	Expanded       bool
	Children       []*TaskNode
}

// IsLeaf reports whether the task has no sub-tasks.
func (n *TaskNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Duration is the number of days between start and due.
func (n *TaskNode) Duration() int {
	return DaysBetween(n.StartDate, n.DueDate)
}

// LatestChildDue returns the latest due date among direct children.
func (n *TaskNode) LatestChildDue() (time.Time, bool) {
	var latest time.Time
	for i, c := range n.Children {
		if i == 0 || c.DueDate.After(latest) {
			latest = c.DueDate
		}
	}
	return latest, len(n.Children) > 0
}

// LatestDescendantDue returns the latest due date anywhere below n.
func (n *TaskNode) LatestDescendantDue() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, c := range n.Children {
		c.Walk(func(d *TaskNode, _ int) bool {
			if !found || d.DueDate.After(latest) {
				latest = d.DueDate
				found = true
			}
			return true
		})
	}
	return latest, found
}

// Walk visits n and its descendants depth-first, pre-order. depth is 0 for n.
// Returning false from fn skips the node's children.
func (n *TaskNode) Walk(fn func(node *TaskNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *TaskNode) walk(fn func(*TaskNode, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *TaskNode) Clone() *TaskNode {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Children = cloneNodes(n.Children)
	return &cp
}

func cloneNodes(nodes []*TaskNode) []*TaskNode {
	if nodes == nil {
		return nil
	}
	out := make([]*TaskNode, len(nodes))
	for i, c := range nodes {
		out[i] = c.Clone()
	}
	return out
}

// insertNode places node at index within list, clamping index into range.
func insertNode(list []*TaskNode, index int, node *TaskNode) []*TaskNode {
	if index < 0 || index > len(list) {
		index = len(list)
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = node
	return list
}

// removeNode removes and returns the node at index.
func removeNode(list []*TaskNode, index int) ([]*TaskNode, *TaskNode) {
	node := list[index]
	copy(list[index:], list[index+1:])
	list[len(list)-1] = nil
	return list[:len(list)-1], node
}
