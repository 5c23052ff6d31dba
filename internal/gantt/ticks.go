package gantt

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Granularity is the spacing of the timeline header labels.
type Granularity string

const (
	Daily   Granularity = "day"
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
)

// GranularityFor picks the header density from the window length. It only
// affects labels, never date math.
func GranularityFor(totalDays int) Granularity {
	switch {
	case totalDays <= 14:
		return Daily
	case totalDays <= 60:
		return Weekly
	default:
		return Monthly
	}
}

// Tick is one header label.
type Tick struct {
	Date    time.Time
	Percent float64
	Label   string
}

// Ticks lays out the header labels for the window. Daily and weekly ticks
// start at Min; monthly ticks fall on the first of each month inside the
// window.
func Ticks(v Viewport) []Tick {
	var out []Tick
	add := func(d time.Time, layout string) {
		out = append(out, Tick{Date: d, Percent: v.ToPercent(d), Label: d.Format(layout)})
	}

	switch GranularityFor(v.TotalDays()) {
	case Daily:
		for d := v.Min; !d.After(v.Max); d = domain.AddDays(d, 1) {
			add(d, "Jan 2")
		}
	case Weekly:
		for d := v.Min; !d.After(v.Max); d = domain.AddDays(d, 7) {
			add(d, "Jan 2")
		}
	case Monthly:
		d := time.Date(v.Min.Year(), v.Min.Month(), 1, 0, 0, 0, 0, time.UTC)
		if d.Before(v.Min) {
			d = d.AddDate(0, 1, 0)
		}
		for ; !d.After(v.Max); d = d.AddDate(0, 1, 0) {
			add(d, "Jan 2006")
		}
	}
	return out
}
