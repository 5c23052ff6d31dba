package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/service"
)

const (
	calendarCell       = 14
	calendarMaxEntries = 3
)

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatCalendar renders a month grid. Each day lists the tasks that start
// (▸) or are due (●) on it; busy days are cut off with a "+n more" line.
func FormatCalendar(m *service.CalendarMonth) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %d", m.Month, m.Year)) + "\n")

	for i, d := range weekdays {
		b.WriteString(StyleHeader.Render(PadRight(d, calendarCell)))
		if i < 6 {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")

	for _, week := range m.Weeks {
		lines := 1
		for _, day := range week {
			lines = max(lines, 1+min(len(day.Entries), calendarMaxEntries+1))
		}
		for line := 0; line < lines; line++ {
			for i, day := range week {
				b.WriteString(PadRight(calendarLine(day, line), calendarCell))
				if i < 6 {
					b.WriteString(" ")
				}
			}
			b.WriteString("\n")
		}
		b.WriteString(Dim(strings.Repeat("─", 7*calendarCell+6)) + "\n")
	}

	b.WriteString(Dim("▸ starts  ● due") + "\n")
	return b.String()
}

func calendarLine(day service.CalendarDay, line int) string {
	if line == 0 {
		num := fmt.Sprintf("%2d", day.Date.Day())
		switch {
		case day.Today:
			return StyleHeader.Render("[" + num + "]")
		case !day.InMonth:
			return Dim(num)
		default:
			return Bold(num)
		}
	}

	idx := line - 1
	if idx >= len(day.Entries) {
		return ""
	}
	if idx == calendarMaxEntries && len(day.Entries) > calendarMaxEntries+1 {
		return Dim(fmt.Sprintf("+%d more", len(day.Entries)-calendarMaxEntries))
	}
	e := day.Entries[idx]
	marker := StyleBlue.Render("▸")
	if e.Due {
		marker = CompletionStyle(e.Completion).Render("●")
	}
	text := Truncate(e.TaskName, calendarCell-2)
	if !day.InMonth {
		text = Dim(text)
	}
	return marker + " " + text
}
