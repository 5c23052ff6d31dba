package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
	"github.com/alexanderramin/taskline/internal/service"
)

// FormatDashboard renders the board overview followed by the notices.
func FormatDashboard(d *service.Dashboard) string {
	var b strings.Builder
	b.WriteString(Header("Dashboard") + "  " + Dim(d.Today.Format("Mon Jan 2, 2006")) + "\n\n")

	if len(d.Projects) == 0 {
		b.WriteString(Dim("No projects yet. Create one with `taskline project add NAME`.") + "\n")
		return b.String()
	}

	headers := []string{"ID", "PROJECT", "PIC", "PROGRESS", "DONE", "OVERDUE", "DUE", "NEXT"}
	rows := make([][]string, 0, len(d.Projects))
	for _, p := range d.Projects {
		overdue := Dim("0")
		if p.Overdue > 0 {
			overdue = StyleRed.Render(fmt.Sprint(p.Overdue))
		}
		next := Dim("--")
		if p.NextTask != "" {
			next = fmt.Sprintf("%s %s", p.NextTask,
				RelativeDaysStyled(domain.DaysBetween(d.Today, p.NextDue)))
		}
		rows = append(rows, []string{
			Bold(p.ID),
			p.Name,
			PICBadge(p.PIC),
			RenderProgress(p.Completion, 10),
			fmt.Sprintf("%d/%d", p.Done, p.Tasks),
			overdue,
			ShortDate(p.Due),
			next,
		})
	}
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	b.WriteString(FormatNotices(d.Notices))
	return b.String()
}

// FormatNotices renders due-date notices, most urgent first as given.
func FormatNotices(notices []scheduler.Notice) string {
	if len(notices) == 0 {
		return StyleGreen.Render("✔ Nothing overdue or due soon.") + "\n"
	}
	headers := []string{"STATE", "TASK", "PROJECT", "PIC", "DUE", "WHEN"}
	rows := make([][]string, 0, len(notices))
	for _, n := range notices {
		rows = append(rows, []string{
			DueStateIndicator(n.State),
			fmt.Sprintf("%s %s", Dim(n.Address.String()), n.TaskName),
			n.ProjectName,
			PICBadge(n.PIC),
			domain.FormatDate(n.Due),
			DueStateStyle(n.State).Render(RelativeDays(n.DaysLeft)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatUndoHistory lists undoable deletes, most recent first.
func FormatUndoHistory(entries []domain.UndoEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("Nothing to undo.") + "\n"
	}
	headers := []string{"#", "KIND", "DELETED", "WHEN"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			string(e.Kind),
			e.Label,
			Dim(sinceLabel(now.Sub(e.DeletedAt))),
		})
	}
	return RenderTable(headers, rows)
}

func sinceLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// FormatRestored confirms an undo.
func FormatRestored(r *scheduler.Restored) string {
	msg := fmt.Sprintf("Restored %s %q at %s", r.Entry.Kind, r.Entry.Label, r.Address)
	if r.Relocated {
		return StyleYellow.Render(msg+" (original parent is gone; restored at top level)") + "\n"
	}
	return StyleGreen.Render(msg) + "\n"
}

// FormatViolations renders invariant check results.
func FormatViolations(vs []domain.Violation) string {
	if len(vs) == 0 {
		return StyleGreen.Render("✔ All projects are consistent.") + "\n"
	}
	headers := []string{"TASK", "RULE", "DETAIL"}
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{
			domain.Address{ProjectID: v.ProjectID, Path: v.Path}.String(),
			StyleRed.Render(v.Rule),
			v.Detail,
		})
	}
	return RenderTable(headers, rows)
}

// FormatImportSummary reports the outcome of a CSV import.
func FormatImportSummary(s *service.ImportSummary) string {
	var b strings.Builder
	verb := "Replaced board with"
	if s.Merged {
		verb = "Merged"
	}
	tasks := 0
	for _, p := range s.Projects {
		tasks += p.TaskCount()
	}
	b.WriteString(StyleGreen.Render(fmt.Sprintf("%s %d project(s), %d task(s)", verb, len(s.Projects), tasks)) + "\n")
	for _, p := range s.Projects {
		b.WriteString(fmt.Sprintf("  %s %s\n", Bold(p.ID), p.Name))
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("%d warning(s):", len(s.Warnings))) + "\n")
		for _, w := range s.Warnings {
			b.WriteString("  " + Dim(w.String()) + "\n")
		}
	}
	return b.String()
}
