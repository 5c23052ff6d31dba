package scheduler

import (
	"sort"

	"github.com/alexanderramin/taskline/internal/domain"
)

// DueStatePriority returns a sort priority (lower = more urgent).
func DueStatePriority(s domain.DueState) int {
	switch s {
	case domain.DueOverdue:
		return 0
	case domain.DueToday:
		return 1
	case domain.DueTomorrow:
		return 2
	default:
		return 3
	}
}

// SortByDue reorders one sibling list in place by the deterministic rules:
// 1. Due date: earliest first
// 2. Start date: earliest first
// 3. Name: lexical ascending
//
// Rendering never sorts; this only runs when explicitly requested, so a manual
// drag order survives until the user asks for a sort.
func SortByDue(p *domain.Project, parent domain.NodePath) error {
	list, err := p.ChildList(parent)
	if err != nil {
		return err
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.Name < b.Name
	})
	return nil
}

// sortNotices orders notices by urgency, then due date, then project and path.
func sortNotices(notices []Notice) {
	sort.SliceStable(notices, func(i, j int) bool {
		a, b := notices[i], notices[j]
		if pa, pb := DueStatePriority(a.State), DueStatePriority(b.State); pa != pb {
			return pa < pb
		}
		if !a.Due.Equal(b.Due) {
			return a.Due.Before(b.Due)
		}
		if a.Address.ProjectID != b.Address.ProjectID {
			return a.Address.ProjectID < b.Address.ProjectID
		}
		return a.Address.Path.String() < b.Address.Path.String()
	})
}
