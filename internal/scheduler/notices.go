package scheduler

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Notice flags a task whose due date needs attention.
type Notice struct {
	Address     domain.Address
	ProjectName string
	TaskName    string
	PIC         string
	Due         time.Time
	State       domain.DueState
	// DaysLeft is negative for overdue tasks.
	DaysLeft int
}

// ScanDue reports unfinished tasks that are overdue, due today, due tomorrow,
// or (when horizonDays > 1) due within the horizon. It only reads the tree.
func ScanDue(projects []*domain.Project, today time.Time, horizonDays int) []Notice {
	today = domain.Day(today)
	var out []Notice
	for _, p := range projects {
		p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
			if n.Completion >= 100 {
				return true
			}
			days := domain.DaysBetween(today, n.DueDate)
			var state domain.DueState
			switch {
			case days < 0:
				state = domain.DueOverdue
			case days == 0:
				state = domain.DueToday
			case days == 1:
				state = domain.DueTomorrow
			case days <= horizonDays:
				state = domain.DueUpcoming
			default:
				return true
			}
			out = append(out, Notice{
				Address:     domain.Address{ProjectID: p.ID, Path: path},
				ProjectName: p.Name,
				TaskName:    n.Name,
				PIC:         domain.CoalesceStr(n.PersonInCharge, p.PersonInCharge),
				Due:         n.DueDate,
				State:       state,
				DaysLeft:    days,
			})
			return true
		})
	}
	sortNotices(out)
	return out
}
