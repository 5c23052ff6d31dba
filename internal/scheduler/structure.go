package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Insert adds node under parent (root path for a top-level task) at index and
// re-establishes the tree invariants. A bound node under a task is pinned to
// its new parent's due date; the parent chain widens to cover it.
func Insert(p *domain.Project, parent domain.NodePath, index int, node *domain.TaskNode) (domain.NodePath, error) {
	if err := validateSubtree(node); err != nil {
		return nil, err
	}
	if parent.IsRoot() {
		node.Dependency = domain.DependencyFree
	}
	path, err := p.InsertAt(parent, index, node)
	if err != nil {
		return nil, err
	}
	if err := PinToParent(p, path); err != nil {
		return nil, err
	}
	WidenAncestors(p, path)
	RecomputeCompletion(p)
	return path, nil
}

func validateSubtree(node *domain.TaskNode) error {
	var err error
	node.Walk(func(n *domain.TaskNode, _ int) bool {
		if err != nil {
			return false
		}
		if n.DueDate.Before(n.StartDate) {
			err = fmt.Errorf("%w: %q starts %s, due %s", domain.ErrInvalidDateRange,
				n.Name, domain.FormatDate(n.StartDate), domain.FormatDate(n.DueDate))
		}
		return true
	})
	return err
}

// Removal records what Remove detached and where it was.
type Removal struct {
	Node   *domain.TaskNode
	Parent domain.NodePath
	Index  int
	// ParentDue is the parent's due date before the shrink; nil for top-level tasks.
	ParentDue *time.Time
}

// Remove detaches the task at path. The parent's due date is tightened down to
// its latest remaining child (never before its own start); this is the only
// automatic shrink in the engine.
func Remove(p *domain.Project, path domain.NodePath) (*Removal, error) {
	node, err := p.RemoveAt(path)
	if err != nil {
		return nil, err
	}
	r := &Removal{Node: node, Parent: path.Parent(), Index: path.Index()}
	if !r.Parent.IsRoot() {
		parent, err := p.Node(r.Parent)
		if err != nil {
			return nil, err
		}
		prev := parent.DueDate
		r.ParentDue = &prev
		if latest, ok := parent.LatestChildDue(); ok {
			target := domain.MaxDate(latest, parent.StartDate)
			if target.Before(parent.DueDate) {
				parent.DueDate = target
			}
		}
	}
	RecomputeCompletion(p)
	return r, nil
}

// Move relocates the task at srcPath in src relative to the task at target in
// dst. DropOnto makes it the last child of target (a root target path means the
// project's top level); DropBefore and DropAfter place it beside target.
//
// Moving a task into its own subtree is rejected before anything changes.
// A task landing under a different task becomes bound to it and is pinned to
// its due date; a task landing at the top level becomes free; a reorder within
// the same parent keeps its mode.
func Move(src *domain.Project, srcPath domain.NodePath, dst *domain.Project, target domain.NodePath, intent domain.DropIntent) (domain.NodePath, error) {
	node, err := src.Node(srcPath)
	if err != nil {
		return nil, err
	}
	if !target.IsRoot() {
		if _, err := dst.Node(target); err != nil {
			return nil, err
		}
	} else if intent != domain.DropOnto {
		return nil, fmt.Errorf("drop %s needs a target task, not the project root", intent)
	}
	if src == dst {
		if err := checkCycle(srcPath, target, intent); err != nil {
			return nil, err
		}
		if target.Equal(srcPath) {
			return srcPath, nil
		}
	}

	oldParent, err := parentNode(src, srcPath.Parent())
	if err != nil {
		return nil, err
	}

	if _, err := src.RemoveAt(srcPath); err != nil {
		return nil, err
	}
	if src == dst {
		target = shiftAfterRemoval(target, srcPath)
	}

	var destParent domain.NodePath
	var index int
	switch intent {
	case domain.DropOnto:
		destParent = target
		index = -1
	case domain.DropBefore:
		destParent = target.Parent()
		index = target.Index()
	case domain.DropAfter:
		destParent = target.Parent()
		index = target.Index() + 1
	default:
		return nil, fmt.Errorf("unknown drop intent %q", intent)
	}

	newParent, err := parentNode(dst, destParent)
	if err != nil {
		return nil, err
	}
	rebound := false
	switch {
	case destParent.IsRoot():
		node.Dependency = domain.DependencyFree
	case src != dst || newParent != oldParent:
		node.Dependency = domain.DependencyParent
		rebound = true
	}

	path, err := dst.InsertAt(destParent, index, node)
	if err != nil {
		return nil, err
	}
	if rebound {
		if err := PinToParent(dst, path); err != nil {
			return nil, err
		}
	}
	WidenAncestors(dst, path)
	RecomputeCompletion(dst)
	if src != dst {
		RecomputeCompletion(src)
	}
	return path, nil
}

// checkCycle walks the target's ancestor chain up to the root and rejects the
// move if the moved task is on it.
func checkCycle(srcPath, target domain.NodePath, intent domain.DropIntent) error {
	chain := target.Ancestors()
	if intent == domain.DropOnto {
		chain = append([]domain.NodePath{target}, chain...)
	}
	for _, anc := range chain {
		if anc.Equal(srcPath) {
			return fmt.Errorf("%w: %s into %s", domain.ErrCycle, srcPath, target)
		}
	}
	return nil
}

// shiftAfterRemoval adjusts path for the removal of the sibling subtree at removed.
func shiftAfterRemoval(path, removed domain.NodePath) domain.NodePath {
	depth := len(removed) - 1
	if len(path) <= depth || !removed.Parent().Equal(path[:depth]) {
		return path
	}
	if path[depth] > removed.Index() {
		out := append(domain.NodePath{}, path...)
		out[depth]--
		return out
	}
	return path
}

func parentNode(p *domain.Project, path domain.NodePath) (*domain.TaskNode, error) {
	if path.IsRoot() {
		return nil, nil
	}
	return p.Node(path)
}

// Reorder moves a child within the same parent from one index to another.
func Reorder(p *domain.Project, parent domain.NodePath, from, to int) (domain.NodePath, error) {
	list, err := p.ChildList(parent)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(list) {
		return nil, fmt.Errorf("%w: index %d under %q", domain.ErrNodeNotFound, from, parent.String())
	}
	if to < 0 || to >= len(list) {
		to = len(list) - 1
	}
	node, err := p.RemoveAt(parent.Child(from))
	if err != nil {
		return nil, err
	}
	path, err := p.InsertAt(parent, to, node)
	if err != nil {
		return nil, err
	}
	RecomputeCompletion(p)
	return path, nil
}
