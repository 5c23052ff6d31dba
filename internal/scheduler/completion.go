package scheduler

import "github.com/alexanderramin/taskline/internal/domain"

// RecomputeCompletion rolls completion up the tree, post-order. A task with
// sub-tasks gets the rounded mean of its children's freshly computed values;
// leaves keep the value that was set on them. The project's own completion is
// the rounded mean of its top-level tasks, and is returned.
func RecomputeCompletion(p *domain.Project) int {
	if len(p.Children) == 0 {
		p.Completion = 0
		return 0
	}
	sum := 0
	for _, n := range p.Children {
		sum += rollup(n)
	}
	p.Completion = domain.RoundedMean(sum, len(p.Children))
	return p.Completion
}

func rollup(n *domain.TaskNode) int {
	if n.IsLeaf() {
		n.Completion = clampCompletion(n.Completion)
		return n.Completion
	}
	sum := 0
	for _, c := range n.Children {
		sum += rollup(c)
	}
	n.Completion = domain.RoundedMean(sum, len(n.Children))
	return n.Completion
}

func clampCompletion(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
