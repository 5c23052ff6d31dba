package domain

import (
	"fmt"
	"math"
)

// Violation describes one broken tree invariant.
type Violation struct {
	ProjectID string
	Path      NodePath
	Rule      string
	Detail    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", Address{ProjectID: v.ProjectID, Path: v.Path}, v.Rule, v.Detail)
}

// CheckInvariants verifies the rules every project must satisfy after a
// mutation: start <= due, parents cover their children's due dates, and parent
// completion is the rounded mean of its children.
func CheckInvariants(p *Project) []Violation {
	var out []Violation
	add := func(path NodePath, rule, format string, args ...any) {
		out = append(out, Violation{ProjectID: p.ID, Path: path, Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	p.Walk(func(n *TaskNode, path NodePath) bool {
		if n.DueDate.Before(n.StartDate) {
			add(path, "start<=due", "start %s is after due %s", FormatDate(n.StartDate), FormatDate(n.DueDate))
		}
		if n.Completion < 0 || n.Completion > 100 {
			add(path, "completion-range", "completion %d outside 0..100", n.Completion)
		}
		if latest, ok := n.LatestChildDue(); ok && latest.After(n.DueDate) {
			add(path, "parent-covers-children", "due %s is before child due %s", FormatDate(n.DueDate), FormatDate(latest))
		}
		if !n.IsLeaf() {
			sum := 0
			for _, c := range n.Children {
				sum += c.Completion
			}
			want := RoundedMean(sum, len(n.Children))
			if n.Completion != want {
				add(path, "completion-rollup", "completion %d, children average %d", n.Completion, want)
			}
		}
		return true
	})

	if len(p.Children) > 0 {
		sum := 0
		for _, c := range p.Children {
			sum += c.Completion
		}
		if want := RoundedMean(sum, len(p.Children)); p.Completion != want {
			add(nil, "completion-rollup", "project completion %d, tasks average %d", p.Completion, want)
		}
	}
	return out
}

// RoundedMean returns round(sum/count), rounding halves away from zero.
func RoundedMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}
