package gantt

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Viewport is the [Min, Max] date window one project's timeline is drawn in.
// Positions inside it are percentages: Min is 0%, Max is 100%.
type Viewport struct {
	Min time.Time
	Max time.Time
}

// NewViewport validates that the window spans at least one day.
func NewViewport(min, max time.Time) (Viewport, error) {
	v := Viewport{Min: domain.Day(min), Max: domain.Day(max)}
	if v.TotalDays() <= 0 {
		return Viewport{}, fmt.Errorf("viewport %s..%s must span at least one day",
			domain.FormatDate(v.Min), domain.FormatDate(v.Max))
	}
	return v, nil
}

// ViewportFor derives the project's window: one day of padding either side of
// the earliest and latest date in the tree. A project with no tasks is
// centred on today.
func ViewportFor(p *domain.Project, today time.Time) Viewport {
	earliest, latest, ok := p.DateSpan()
	if !ok {
		earliest, latest = domain.Day(today), domain.Day(today)
	}
	return Viewport{Min: domain.AddDays(earliest, -1), Max: domain.AddDays(latest, 1)}
}

// TotalDays is the window length in whole days.
func (v Viewport) TotalDays() int {
	return domain.DaysBetween(v.Min, v.Max)
}

// ToPercent maps a date onto the window.
func (v Viewport) ToPercent(date time.Time) float64 {
	return float64(domain.DaysBetween(v.Min, date)) / float64(v.TotalDays()) * 100
}

// ToDate maps a percentage back onto the nearest whole day.
func (v Viewport) ToDate(percent float64) time.Time {
	days := math.Round(percent / 100 * float64(v.TotalDays()))
	return domain.AddDays(v.Min, int(days))
}

// DayPercent is the width of one day, which is also the narrowest bar.
func (v Viewport) DayPercent() float64 {
	return 100 / float64(v.TotalDays())
}

// Contains reports whether both ends of the date range fall inside the window.
func (v Viewport) Contains(start, due time.Time) bool {
	return !start.Before(v.Min) && !domain.AddDays(due, 1).After(v.Max)
}

// Grow extends the window by whole days on either side. Negative amounts are
// ignored; the window never shrinks.
func (v Viewport) Grow(before, after int) Viewport {
	if before > 0 {
		v.Min = domain.AddDays(v.Min, -before)
	}
	if after > 0 {
		v.Max = domain.AddDays(v.Max, after)
	}
	return v
}

func (v Viewport) String() string {
	return fmt.Sprintf("%s..%s (%dd)", domain.FormatDate(v.Min), domain.FormatDate(v.Max), v.TotalDays())
}

// Bar is a task's horizontal geometry in percent of the viewport.
type Bar struct {
	Left  float64
	Width float64
}

// Right is the bar's trailing edge.
func (b Bar) Right() float64 {
	return b.Left + b.Width
}

// BarFor places a task's [start, due] span. The due day is inclusive, so a
// task starting and ending on the same day is one day wide.
func (v Viewport) BarFor(start, due time.Time) Bar {
	left := v.ToPercent(start)
	return Bar{Left: left, Width: v.ToPercent(domain.AddDays(due, 1)) - left}
}

// DatesOf converts bar geometry back to the dates it covers.
func (v Viewport) DatesOf(b Bar) (start, due time.Time) {
	start = v.ToDate(b.Left)
	due = domain.AddDays(v.ToDate(b.Right()), -1)
	if due.Before(start) {
		due = start
	}
	return start, due
}
