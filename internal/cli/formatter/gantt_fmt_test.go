package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fmtToday = testutil.MustDate("2025-04-05")

// launchProject spans 2025-03-31..2025-05-03 once padded: 33 days, so a
// 33-column chart has exactly one column per day.
func launchProject() *domain.Project {
	design := testutil.NewTestTask("Design",
		testutil.WithDates("2025-04-01", "2025-04-10"),
		testutil.WithCompletion(50),
		testutil.WithChildren(
			testutil.NewTestTask("Wireframes", testutil.WithDates("2025-04-01", "2025-04-04"), testutil.WithCompletion(100)),
			testutil.NewTestTask("Review", testutil.WithDates("2025-04-05", "2025-04-10")),
		),
	)
	design.Expanded = true
	p := testutil.NewTestProject("P1", "Launch",
		design,
		testutil.NewTestTask("Build", testutil.WithDates("2025-04-11", "2025-04-30"), testutil.WithCompletion(20)),
		testutil.NewTestTask("Ship", testutil.WithDates("2025-05-01", "2025-05-02"), testutil.WithPIC("Ben")),
	)
	p.Completion = 23
	return p
}

// chartOf extracts the chart columns of a rendered row.
func chartOf(line string, width int) string {
	r := []rune(line)
	left := GanttChartLeft()
	return string(r[left : left+width])
}

func TestBarCells(t *testing.T) {
	from, to := BarCells(gantt.Bar{Left: 10, Width: 20}, 50)
	assert.Equal(t, 5, from)
	assert.Equal(t, 15, to)

	// A sliver still gets one column.
	from, to = BarCells(gantt.Bar{Left: 50, Width: 0.1}, 20)
	assert.Equal(t, 10, from)
	assert.Equal(t, 11, to)

	// Bars past the edge are clamped.
	from, to = BarCells(gantt.Bar{Left: 99, Width: 5}, 20)
	assert.Equal(t, 19, from)
	assert.Equal(t, 20, to)
}

func TestGanttChartWidth(t *testing.T) {
	assert.Equal(t, 120-GanttLabelWidth-1-5, GanttChartWidth(120))
	assert.Equal(t, 20, GanttChartWidth(30))
}

func TestRenderTimeline_BarsAndTodayMarker(t *testing.T) {
	tl := gantt.Layout(launchProject(), fmtToday, gantt.LayoutOptions{})
	out := RenderTimeline(tl, GanttOptions{Width: 33, Selected: -1})
	lines := plainLines(out)
	require.Len(t, lines, GanttHeaderLines+5)

	assert.Contains(t, lines[0], "P1 Launch")
	assert.Contains(t, lines[0], "2025-03-31..2025-05-03 (33d) · week")
	assert.Contains(t, lines[1], "Mar 31")
	assert.Contains(t, lines[1], "Apr 21")
	assert.NotContains(t, lines[1], "Apr 28", "label that would overflow the chart is dropped")

	rows := lines[GanttHeaderLines:]
	want := []string{
		" █████▒▒▒▒▒                      ", // Design, 50%
		" ████┊                           ", // Wireframes, today just after
		"     ▒▒▒▒▒▒                      ", // Review
		"     ┊     ████▒▒▒▒▒▒▒▒▒▒▒▒▒▒▒▒  ", // Build, 20%
		"     ┊                         ▒▒", // Ship
	}
	for i, w := range want {
		assert.Equal(t, w, chartOf(rows[i], 33), "row %d", i)
	}
	assert.True(t, strings.HasPrefix(rows[0], " ▾ Design"))
	assert.True(t, strings.HasPrefix(rows[1], "     Wireframes"))
	assert.True(t, strings.HasSuffix(rows[3], " 20%"))
}

func TestRenderTimeline_FoldedParentHidesChildren(t *testing.T) {
	p := launchProject()
	p.Children[0].Expanded = false
	tl := gantt.Layout(p, fmtToday, gantt.LayoutOptions{})

	rows := plainLines(RenderTimeline(tl, GanttOptions{Width: 33, Selected: 0}))[GanttHeaderLines:]
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[0], "›▸ Design"), "selected row carries the cursor: %q", rows[0])
}

func TestRenderTimeline_DragUsesGrownViewport(t *testing.T) {
	p := launchProject()
	tl := gantt.Layout(p, fmtToday, gantt.LayoutOptions{})
	target, err := gantt.TargetFor(p, domain.NodePath{2}, tl.Viewport)
	require.NoError(t, err)

	var ctrl gantt.Controller
	_, err = ctrl.PointerDown(target, gantt.ModeResizeEnd, 325, 330)
	require.NoError(t, err)
	frame, err := ctrl.PointerMove(355)
	require.NoError(t, err)
	require.True(t, frame.Grew)

	out := RenderTimeline(tl, GanttOptions{
		Width:    36,
		Selected: -1,
		Drag:     &GanttDrag{Address: domain.Address{ProjectID: "P1", Path: domain.NodePath{2}}, Frame: frame},
	})
	lines := plainLines(out)
	assert.Contains(t, lines[0], "2025-03-31..2025-05-06 (36d)")

	rows := lines[GanttHeaderLines:]
	assert.Equal(t, " █████▒▒▒▒▒                         ", chartOf(rows[0], 36))
	assert.Equal(t, "     ┊                         ▒▒▒▒▒", chartOf(rows[4], 36))
}

func TestRenderTimeline_EmptyProject(t *testing.T) {
	p := testutil.NewTestProject("P2", "Empty")
	tl := gantt.Layout(p, fmtToday, gantt.LayoutOptions{})
	out := stripANSI(RenderTimeline(tl, GanttOptions{Width: 30, Selected: -1}))
	assert.Contains(t, out, "No tasks yet.")
}
