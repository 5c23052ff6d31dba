package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
)

const (
	// GanttLabelWidth is the task-name column left of the chart, including
	// the one-cell cursor gutter.
	GanttLabelWidth = 28
	// GanttHeaderLines precede the first task row: title, tick labels, axis.
	GanttHeaderLines = 3

	ganttTrailer = 5 // " 100%"
	minChart     = 20
)

// GanttChartWidth is the number of chart columns that fit in a terminal of
// the given width.
func GanttChartWidth(total int) int {
	return max(total-GanttLabelWidth-1-ganttTrailer, minChart)
}

// GanttChartLeft is the terminal column where the chart starts.
func GanttChartLeft() int {
	return GanttLabelWidth + 1
}

// BarCells maps a bar onto chart columns as [from, to). Every bar covers at
// least one column.
func BarCells(b gantt.Bar, width int) (from, to int) {
	from = int(math.Round(b.Left / 100 * float64(width)))
	to = int(math.Round(b.Right() / 100 * float64(width)))
	from = min(max(from, 0), width-1)
	to = min(max(to, from+1), width)
	return from, to
}

// GanttDrag is the provisional geometry of a bar being dragged.
type GanttDrag struct {
	Address domain.Address
	Frame   gantt.Frame
}

// GanttOptions controls RenderTimeline.
type GanttOptions struct {
	// Width is the chart width in columns.
	Width int
	// Selected is the highlighted row index, or -1.
	Selected int
	Drag     *GanttDrag
}

// RenderTimeline draws a project's Gantt chart. While a drag is in progress
// every bar is placed on the drag's (possibly grown) viewport and the
// dragged row uses the provisional bar.
func RenderTimeline(tl gantt.Timeline, opts GanttOptions) string {
	width := max(opts.Width, minChart)
	v := tl.Viewport
	ticks := tl.Ticks
	todayPct := tl.Today
	if opts.Drag != nil {
		v = opts.Drag.Frame.Viewport
		ticks = gantt.Ticks(v)
		if tl.Today >= 0 {
			todayPct = v.ToPercent(tl.Viewport.ToDate(tl.Today))
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
		Bold(tl.ProjectID), tl.ProjectName,
		RenderProgress(tl.Completion, 10),
		Dim(fmt.Sprintf("%s · %s", v, tl.Granularity))))
	b.WriteString(strings.Repeat(" ", GanttChartLeft()) + Dim(tickLabels(ticks, width)) + "\n")
	b.WriteString(PadRight(Dim(" TASK"), GanttChartLeft()) + Dim(axis(ticks, width)) + "\n")

	if len(tl.Rows) == 0 {
		b.WriteString(Dim(" No tasks yet.") + "\n")
		return b.String()
	}

	todayCol := -1
	if todayPct >= 0 && todayPct < 100 {
		todayCol = int(math.Floor(todayPct/100*float64(width) + 1e-9))
	}

	for i, r := range tl.Rows {
		bar := r.Bar
		dragged := false
		if opts.Drag != nil {
			bar = v.BarFor(r.Start, r.Due)
			if r.Address.ProjectID == opts.Drag.Address.ProjectID && r.Address.Path.Equal(opts.Drag.Address.Path) {
				bar = opts.Drag.Frame.Bar
				dragged = true
			}
		}
		b.WriteString(rowLabel(r, i == opts.Selected))
		b.WriteString(" ")
		b.WriteString(chartCells(r, bar, width, todayCol, dragged))
		b.WriteString(" " + CompletionStyle(r.Completion).Render(fmt.Sprintf("%3d%%", r.Completion)))
		b.WriteString("\n")
	}
	return b.String()
}

func rowLabel(r gantt.Row, selected bool) string {
	marker := "  "
	switch {
	case r.HasChildren && r.Expanded:
		marker = "▾ "
	case r.HasChildren:
		marker = "▸ "
	case r.Bound:
		marker = "⇣ "
	}
	text := Truncate(strings.Repeat("  ", r.Depth)+marker+r.Name, GanttLabelWidth-1)
	text = PadRight(text, GanttLabelWidth-1)
	if selected {
		return StyleHeader.Render("›" + text)
	}
	if r.HasChildren {
		return " " + Bold(text)
	}
	return " " + text
}

func chartCells(r gantt.Row, bar gantt.Bar, width, todayCol int, dragged bool) string {
	from, to := BarCells(bar, width)
	done := int(math.Round(float64(r.Completion) / 100 * float64(to-from)))

	var b strings.Builder
	for col := 0; col < width; {
		switch {
		case col == from:
			b.WriteString(barText(from, to, done, r, dragged))
			col = to
		case col == todayCol:
			b.WriteString(Dim("┊"))
			col++
		default:
			b.WriteString(" ")
			col++
		}
	}
	return b.String()
}

func barText(from, to, done int, r gantt.Row, dragged bool) string {
	filled := strings.Repeat(filledBlock, done)
	remaining := strings.Repeat("▒", to-from-done)
	switch {
	case dragged:
		return StyleYellowBold.Render(filled + remaining)
	case r.HasChildren:
		return CompletionStyle(r.Completion).Render(filled) + StylePurple.Render(remaining)
	default:
		return CompletionStyle(r.Completion).Render(filled) + StyleBlue.Render(remaining)
	}
}

func tickLabels(ticks []gantt.Tick, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for _, t := range ticks {
		col := int(math.Round(t.Percent / 100 * float64(width)))
		label := []rune(t.Label)
		if col < next || col+len(label) > width {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return string(line)
}

func axis(ticks []gantt.Tick, width int) string {
	line := []rune(strings.Repeat("─", width))
	for _, t := range ticks {
		if col := int(math.Round(t.Percent / 100 * float64(width))); col >= 0 && col < width {
			line[col] = '┬'
		}
	}
	return string(line)
}
