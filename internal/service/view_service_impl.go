package service

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

// CalendarEntry is a task that starts or is due on a calendar day.
type CalendarEntry struct {
	Address     domain.Address
	ProjectName string
	TaskName    string
	PIC         string
	Completion  int
	Starts      bool
	Due         bool
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Entries []CalendarEntry
}

// CalendarMonth is a month grid of whole weeks, Sunday first.
type CalendarMonth struct {
	Year  int
	Month time.Month
	Weeks [][7]CalendarDay
}

// ProjectSummary is one dashboard line.
type ProjectSummary struct {
	ID         string
	Name       string
	PIC        string
	Completion int
	Tasks      int
	Done       int
	Overdue    int
	// Start and Due span every task; zero when the project is empty.
	Start    time.Time
	Due      time.Time
	NextTask string
	NextDue  time.Time
}

// Dashboard is the board overview.
type Dashboard struct {
	Today    time.Time
	Projects []ProjectSummary
	// Notices lists overdue tasks and tasks due today or tomorrow.
	Notices []scheduler.Notice
}

type viewService struct {
	ws *Workspace
}

func NewViewService(ws *Workspace) ViewService {
	return &viewService{ws: ws}
}

func (s *viewService) Timeline(projectID string, opts gantt.LayoutOptions) (*gantt.Timeline, error) {
	p, err := projectOf(s.ws.state, projectID)
	if err != nil {
		return nil, err
	}
	tl := gantt.Layout(p, s.ws.Today(), opts)
	return &tl, nil
}

func (s *viewService) Calendar(year int, month time.Month) *CalendarMonth {
	first := domain.Date(year, month, 1)
	last := domain.AddDays(first.AddDate(0, 1, 0), -1)
	gridStart := domain.AddDays(first, -int(first.Weekday()))
	gridEnd := domain.AddDays(last, 6-int(last.Weekday()))
	today := s.ws.Today()

	byDay := map[string][]CalendarEntry{}
	for _, p := range s.ws.state.Projects {
		p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
			e := CalendarEntry{
				Address:     domain.Address{ProjectID: p.ID, Path: append(domain.NodePath{}, path...)},
				ProjectName: p.Name,
				TaskName:    n.Name,
				PIC:         domain.CoalesceStr(n.PersonInCharge, p.PersonInCharge),
				Completion:  n.Completion,
			}
			if n.StartDate.Equal(n.DueDate) {
				e.Starts, e.Due = true, true
				due := domain.FormatDate(n.DueDate)
				byDay[due] = append(byDay[due], e)
				return true
			}
			start := e
			start.Starts = true
			startKey, dueKey := domain.FormatDate(n.StartDate), domain.FormatDate(n.DueDate)
			byDay[startKey] = append(byDay[startKey], start)
			e.Due = true
			byDay[dueKey] = append(byDay[dueKey], e)
			return true
		})
	}

	cal := &CalendarMonth{Year: year, Month: month}
	for d := gridStart; !d.After(gridEnd); d = domain.AddDays(d, 7) {
		var week [7]CalendarDay
		for i := range week {
			day := domain.AddDays(d, i)
			week[i] = CalendarDay{
				Date:    day,
				InMonth: day.Month() == month,
				Today:   day.Equal(today),
				Entries: byDay[domain.FormatDate(day)],
			}
		}
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}

func (s *viewService) Dashboard() *Dashboard {
	today := s.ws.Today()
	d := &Dashboard{Today: today}
	for _, p := range s.ws.state.Projects {
		sum := ProjectSummary{
			ID:         p.ID,
			Name:       p.Name,
			PIC:        p.PersonInCharge,
			Completion: p.Completion,
		}
		if start, due, ok := p.DateSpan(); ok {
			sum.Start, sum.Due = start, due
		}
		p.Walk(func(n *domain.TaskNode, _ domain.NodePath) bool {
			sum.Tasks++
			if n.Completion >= 100 {
				sum.Done++
				return true
			}
			if n.DueDate.Before(today) {
				sum.Overdue++
			} else if sum.NextTask == "" || n.DueDate.Before(sum.NextDue) {
				sum.NextTask, sum.NextDue = n.Name, n.DueDate
			}
			return true
		})
		d.Projects = append(d.Projects, sum)
	}
	d.Notices = scheduler.ScanDue(s.ws.state.Projects, today, 1)
	return d
}
