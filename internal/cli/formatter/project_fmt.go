package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taskline/internal/domain"
)

// FormatProjectList renders projects as a table with span and progress.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with `taskline project add NAME`.") + "\n"
	}

	headers := []string{"ID", "NAME", "PIC", "TASKS", "SPAN", "PROGRESS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		span := Dim("--")
		if start, due, ok := p.DateSpan(); ok {
			span = DateRange(start, due)
		}
		name := p.Name
		if !p.Expanded {
			name += Dim(" (folded)")
		}
		rows = append(rows, []string{
			Bold(p.ID),
			name,
			PICBadge(p.PersonInCharge),
			strconv.Itoa(p.TaskCount()),
			span,
			RenderProgress(p.Completion, 12),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProjectTree renders one project's task tree with dates, completion,
// PIC and dependency markers. Folded tasks hide their sub-tasks unless all
// is set.
func FormatProjectTree(p *domain.Project, all bool) string {
	var b strings.Builder
	title := fmt.Sprintf("%s  %s", p.ID, p.Name)
	b.WriteString(Header(title) + "\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
		Dim("PIC"), PICBadge(p.PersonInCharge),
		Dim("Progress"), RenderProgress(p.Completion, 20)))

	if len(p.Children) == 0 {
		b.WriteString(Dim("No tasks yet.") + "\n")
		return b.String()
	}

	var items []TreeItem
	p.Walk(func(n *domain.TaskNode, path domain.NodePath) bool {
		depth := len(path) - 1
		siblings, _ := p.ChildList(path.Parent())
		title := n.Name
		if !n.IsLeaf() && !n.Expanded && !all {
			title += Dim(fmt.Sprintf(" (+%d folded)", countBelow(n)))
		}
		items = append(items, TreeItem{
			Title:  title,
			Label:  path.String(),
			Level:  depth,
			IsLast: path.Index() == len(siblings)-1,
			Done:   n.Completion >= 100,
			Active: n.Completion > 0 && n.Completion < 100,
			Detail: taskDetail(n),
		})
		return all || n.Expanded
	})
	b.WriteString(RenderTree(items))
	return b.String()
}

func taskDetail(n *domain.TaskNode) string {
	parts := []string{
		DateRange(n.StartDate, n.DueDate),
		fmt.Sprintf("%d%%", n.Completion),
	}
	if n.PersonInCharge != "" {
		parts = append(parts, n.PersonInCharge)
	}
	if n.Dependency.IsBound() {
		parts = append(parts, "⇣ parent")
	}
	if n.Notes != "" {
		parts = append(parts, "✎")
	}
	return strings.Join(parts, " · ")
}

func countBelow(n *domain.TaskNode) int {
	count := -1
	n.Walk(func(*domain.TaskNode, int) bool {
		count++
		return true
	})
	return count
}

// FormatTask renders a single task's fields. notes is the already rendered
// notes block and may be empty.
func FormatTask(addr domain.Address, n *domain.TaskNode, notes string) string {
	var b strings.Builder
	b.WriteString(Header(n.Name) + "\n")

	dep := "free"
	if n.Dependency.IsBound() {
		dep = "starts on parent's due date"
	}
	kind := "task"
	if !n.IsLeaf() {
		kind = fmt.Sprintf("%d sub-tasks, completion derived", len(n.Children))
	}
	fields := [][2]string{
		{"Address", addr.String()},
		{"Dates", DateRange(n.StartDate, n.DueDate)},
		{"Duration", fmt.Sprintf("%dd", n.Duration()+1)},
		{"Progress", RenderProgress(n.Completion, 20)},
		{"PIC", PICBadge(n.PersonInCharge)},
		{"Dependency", dep},
		{"Kind", kind},
	}
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(PadRight(f[0], 11)), f[1]))
	}
	if notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	return b.String()
}
