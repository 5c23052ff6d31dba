package gantt

import (
	"testing"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = testutil.MustDate

func sampleProject() *domain.Project {
	return testutil.NewTestProject("P1", "Launch",
		testutil.NewTestTask("Design", testutil.WithDates("2025-04-01", "2025-04-10"), testutil.WithChildren(
			testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04")),
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-05", "2025-04-08"), testutil.Bound()),
		)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-04-09", "2025-04-09")),
	)
}

func TestViewportFor_PadsOneDayEachSide(t *testing.T) {
	v := ViewportFor(sampleProject(), d("2025-01-01"))

	assert.Equal(t, d("2025-03-31"), v.Min)
	assert.Equal(t, d("2025-04-11"), v.Max)
	assert.Equal(t, 11, v.TotalDays())
}

func TestViewportFor_SingleZeroDurationTask(t *testing.T) {
	p := testutil.NewTestProject("P1", "Tiny",
		testutil.NewTestTask("Only", testutil.WithDates("2025-04-05", "2025-04-05")))

	v := ViewportFor(p, d("2025-01-01"))

	assert.Equal(t, 2, v.TotalDays())
	assert.Equal(t, Bar{Left: 50, Width: 50}, v.BarFor(d("2025-04-05"), d("2025-04-05")))
}

func TestViewportFor_EmptyProjectCentresOnToday(t *testing.T) {
	v := ViewportFor(testutil.NewTestProject("P1", "Empty"), d("2025-06-10"))
	assert.Equal(t, d("2025-06-09"), v.Min)
	assert.Equal(t, d("2025-06-11"), v.Max)
}

func TestNewViewport_RejectsEmptyWindow(t *testing.T) {
	_, err := NewViewport(d("2025-04-01"), d("2025-04-01"))
	assert.Error(t, err)

	v, err := NewViewport(d("2025-04-01"), d("2025-04-03"))
	require.NoError(t, err)
	assert.Equal(t, 2, v.TotalDays())
}

func TestViewport_PercentRoundTrip(t *testing.T) {
	v := ViewportFor(sampleProject(), d("2025-01-01"))

	assert.InDelta(t, 0, v.ToPercent(v.Min), 1e-9)
	assert.InDelta(t, 100, v.ToPercent(v.Max), 1e-9)
	for day := v.Min; !day.After(v.Max); day = domain.AddDays(day, 1) {
		assert.Equal(t, day, v.ToDate(v.ToPercent(day)))
	}
	assert.Equal(t, d("2025-04-01"), v.ToDate(100.0/11*1.4), "rounds to the nearest day")
	assert.InDelta(t, 100.0/11, v.DayPercent(), 1e-9)
}

func TestViewport_BarUsesInclusiveDue(t *testing.T) {
	v := ViewportFor(sampleProject(), d("2025-01-01"))

	b := v.BarFor(d("2025-04-01"), d("2025-04-10"))

	assert.InDelta(t, 100.0/11, b.Left, 1e-9)
	assert.InDelta(t, 100, b.Right(), 1e-9)
	start, due := v.DatesOf(b)
	assert.Equal(t, d("2025-04-01"), start)
	assert.Equal(t, d("2025-04-10"), due)
	assert.True(t, v.Contains(start, due))
	assert.False(t, v.Contains(start, d("2025-04-11")))
}

func TestViewport_GrowNeverShrinks(t *testing.T) {
	v := ViewportFor(sampleProject(), d("2025-01-01"))

	g := v.Grow(2, -5)

	assert.Equal(t, d("2025-03-29"), g.Min)
	assert.Equal(t, v.Max, g.Max)
	assert.Equal(t, 13, g.TotalDays())
}

func TestGranularityFor(t *testing.T) {
	assert.Equal(t, Daily, GranularityFor(14))
	assert.Equal(t, Weekly, GranularityFor(15))
	assert.Equal(t, Weekly, GranularityFor(60))
	assert.Equal(t, Monthly, GranularityFor(61))
}

func TestTicks(t *testing.T) {
	daily := Ticks(ViewportFor(sampleProject(), d("2025-01-01")))
	require.Len(t, daily, 12)
	assert.Equal(t, "Mar 31", daily[0].Label)
	assert.InDelta(t, 100, daily[11].Percent, 1e-9)

	weekly := Ticks(Viewport{Min: d("2025-04-01"), Max: d("2025-05-01")})
	require.Len(t, weekly, 5)
	assert.Equal(t, d("2025-04-29"), weekly[4].Date)

	monthly := Ticks(Viewport{Min: d("2025-01-15"), Max: d("2025-05-20")})
	require.Len(t, monthly, 4)
	assert.Equal(t, "Feb 2025", monthly[0].Label)
	assert.Equal(t, d("2025-05-01"), monthly[3].Date)

	fromFirst := Ticks(Viewport{Min: d("2025-01-01"), Max: d("2025-04-01")})
	require.Len(t, fromFirst, 4)
	assert.Equal(t, d("2025-01-01"), fromFirst[0].Date)
}

func TestLayout(t *testing.T) {
	p := sampleProject()

	collapsed := Layout(p, d("2025-04-05"), LayoutOptions{})
	require.Len(t, collapsed.Rows, 2)
	assert.Equal(t, "Design", collapsed.Rows[0].Name)
	assert.True(t, collapsed.Rows[0].HasChildren)
	assert.Equal(t, Daily, collapsed.Granularity)
	assert.InDelta(t, 500.0/11, collapsed.Today, 1e-9)

	all := Layout(p, d("2025-04-05"), LayoutOptions{ExpandAll: true})
	require.Len(t, all.Rows, 4)
	review := all.Rows[2]
	assert.Equal(t, "P1:0.1", review.Address.String())
	assert.Equal(t, 1, review.Depth)
	assert.True(t, review.Bound)

	p.Children[0].Expanded = true
	assert.Len(t, Layout(p, d("2025-04-05"), LayoutOptions{}).Rows, 4)

	row, ok := all.Row(domain.Address{ProjectID: "P1", Path: domain.NodePath{1}})
	require.True(t, ok)
	assert.Equal(t, "Ship", row.Name)

	outside := Layout(p, d("2026-01-01"), LayoutOptions{})
	assert.Equal(t, -1.0, outside.Today)
}
