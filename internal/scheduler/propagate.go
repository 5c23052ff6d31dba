package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// ApplyDateChange sets a task's dates and propagates the consequences:
// children bound to the task's start follow its new due date (keeping their
// duration, at least one day), the task widens to cover its latest child, and
// every ancestor widens in turn. An inverted range is rejected before anything
// is touched.
func ApplyDateChange(p *domain.Project, path domain.NodePath, start, due time.Time) error {
	start, due = domain.Day(start), domain.Day(due)
	if due.Before(start) {
		return fmt.Errorf("%w: start %s, due %s", domain.ErrInvalidDateRange,
			domain.FormatDate(start), domain.FormatDate(due))
	}
	node, err := p.Node(path)
	if err != nil {
		return err
	}
	setDates(node, start, due)
	WidenAncestors(p, path)
	return nil
}

// setDates is one level of the cascade: assign, re-pin bound children through
// the same primitive, then cover whatever the children now reach.
func setDates(n *domain.TaskNode, start, due time.Time) {
	n.StartDate, n.DueDate = start, due
	for _, c := range n.Children {
		if !c.Dependency.IsBound() {
			continue
		}
		d := boundDuration(c)
		setDates(c, due, domain.AddDays(due, d))
	}
	widenToChildren(n)
}

func boundDuration(n *domain.TaskNode) int {
	if d := n.Duration(); d > 1 {
		return d
	}
	return 1
}

// widenToChildren extends n's due date to its latest child's. It never
// shrinks and never re-pins n's bound children.
func widenToChildren(n *domain.TaskNode) bool {
	latest, ok := n.LatestChildDue()
	if !ok || !latest.After(n.DueDate) {
		return false
	}
	n.DueDate = latest
	return true
}

// WidenAncestors walks from the task at path to the root, extending each
// ancestor's due date to cover its children.
func WidenAncestors(p *domain.Project, path domain.NodePath) {
	for _, anc := range path.Ancestors() {
		node, err := p.Node(anc)
		if err != nil {
			return
		}
		widenToChildren(node)
	}
}

// PinToParent re-pins a bound task to start on its parent's due date, keeping
// its duration. Top-level tasks and free tasks are left alone.
func PinToParent(p *domain.Project, path domain.NodePath) error {
	node, err := p.Node(path)
	if err != nil {
		return err
	}
	parentPath := path.Parent()
	if parentPath.IsRoot() || !node.Dependency.IsBound() {
		return nil
	}
	parent, err := p.Node(parentPath)
	if err != nil {
		return err
	}
	setDates(node, parent.DueDate, domain.AddDays(parent.DueDate, boundDuration(node)))
	WidenAncestors(p, path)
	return nil
}

// Normalize restores the date-cover and completion invariants over a whole
// project without moving any start date: every task widens to cover its
// children (bottom-up) and completion is rolled up. Used after imports and
// structural edits touching several branches.
func Normalize(p *domain.Project) {
	for _, n := range p.Children {
		if n.Dependency.IsBound() {
			n.Dependency = domain.DependencyFree
		}
		normalizeNode(n)
	}
	RecomputeCompletion(p)
}

func normalizeNode(n *domain.TaskNode) {
	for _, c := range n.Children {
		normalizeNode(c)
	}
	if n.DueDate.Before(n.StartDate) {
		n.DueDate = n.StartDate
	}
	widenToChildren(n)
}
