package gantt

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Row is one visible task line of the timeline.
type Row struct {
	Address     domain.Address
	Name        string
	Depth       int
	Start       time.Time
	Due         time.Time
	Completion  int
	PIC         string
	Bound       bool
	HasChildren bool
	Expanded    bool
	Bar         Bar
}

// Timeline is everything a renderer needs to draw one project's chart.
type Timeline struct {
	ProjectID   string
	ProjectName string
	Completion  int
	Viewport    Viewport
	Granularity Granularity
	Ticks       []Tick
	Rows        []Row
	// Today is the marker position, or -1 when today is outside the window.
	Today float64
}

// LayoutOptions controls which rows are emitted.
type LayoutOptions struct {
	// ExpandAll ignores the per-task Expanded flag and emits every task.
	ExpandAll bool
}

// Layout derives a fresh viewport from the tree and places every visible
// task on it, in the tree's display order. It never reorders children.
func Layout(p *domain.Project, today time.Time, opts LayoutOptions) Timeline {
	v := ViewportFor(p, today)
	tl := Timeline{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Completion:  p.Completion,
		Viewport:    v,
		Granularity: GranularityFor(v.TotalDays()),
		Ticks:       Ticks(v),
		Today:       -1,
	}
	if pct := v.ToPercent(today); pct >= 0 && pct <= 100 {
		tl.Today = pct
	}

	p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
		tl.Rows = append(tl.Rows, Row{
			Address:     domain.Address{ProjectID: p.ID, Path: append(domain.NodePath{}, path...)},
			Name:        n.Name,
			Depth:       len(path) - 1,
			Start:       n.StartDate,
			Due:         n.DueDate,
			Completion:  n.Completion,
			PIC:         n.PersonInCharge,
			Bound:       n.Dependency.IsBound(),
			HasChildren: !n.IsLeaf(),
			Expanded:    n.Expanded,
			Bar:         v.BarFor(n.StartDate, n.DueDate),
		})
		return opts.ExpandAll || n.Expanded
	})
	return tl
}

// Row returns the row at addr, if it is visible.
func (t Timeline) Row(addr domain.Address) (Row, bool) {
	for _, r := range t.Rows {
		if r.Address.ProjectID == addr.ProjectID && r.Address.Path.Equal(addr.Path) {
			return r, true
		}
	}
	return Row{}, false
}
