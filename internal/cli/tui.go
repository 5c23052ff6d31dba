package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/gantt"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// tuiChartTop is the screen line of the timeline's title; the header sits
// above it.
const tuiChartTop = 1

// gripCells is the width of each resize grip on a bar, in terminal columns.
const gripCells = 1

// reloadMsg asks the model to re-read the board.
type reloadMsg struct{}

// timelineModel is the interactive Gantt view. Board reads and writes happen
// inside Update so the workspace is only touched from one goroutine.
type timelineModel struct {
	ctx context.Context
	app *App

	projectIDs []string
	projectIdx int
	tl         *gantt.Timeline
	cursor     int
	expandAll  bool

	width  int
	height int

	drag   *formatter.GanttDrag
	status string
	err    error

	keys     tuiKeyMap
	help     help.Model
	quitting bool
}

func newTimelineModel(ctx context.Context, app *App, projectID string) timelineModel {
	m := timelineModel{
		ctx:       ctx,
		app:       app,
		expandAll: app.Config.ExpandAll,
		width:     120,
		keys:      defaultTUIKeys(),
		help:      help.New(),
	}
	for i, p := range app.Projects.List() {
		m.projectIDs = append(m.projectIDs, p.ID)
		if p.ID == projectID {
			m.projectIdx = i
		}
	}
	return m
}

func (m timelineModel) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case reloadMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// reload refreshes the project list and the current timeline, keeping the
// cursor in range.
func (m *timelineModel) reload() {
	current := m.currentProjectID()
	m.projectIDs = nil
	m.projectIdx = 0
	for i, p := range m.app.Projects.List() {
		m.projectIDs = append(m.projectIDs, p.ID)
		if p.ID == current {
			m.projectIdx = i
		}
	}
	m.tl = nil
	if len(m.projectIDs) == 0 {
		return
	}
	tl, err := m.app.Views.Timeline(m.currentProjectID(), gantt.LayoutOptions{ExpandAll: m.expandAll})
	if err != nil {
		m.err = err
		return
	}
	m.tl = tl
	m.cursor = min(max(m.cursor, 0), max(len(tl.Rows)-1, 0))
}

func (m timelineModel) currentProjectID() string {
	if m.projectIdx < 0 || m.projectIdx >= len(m.projectIDs) {
		return ""
	}
	return m.projectIDs[m.projectIdx]
}

func (m timelineModel) selectedRow() (gantt.Row, bool) {
	if m.tl == nil || m.cursor < 0 || m.cursor >= len(m.tl.Rows) {
		return gantt.Row{}, false
	}
	return m.tl.Rows[m.cursor], true
}

func (m timelineModel) chartWidth() int {
	return formatter.GanttChartWidth(m.width)
}

func (m timelineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.tl != nil && m.cursor < len(m.tl.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextProject, m.keys.PrevProject):
		if n := len(m.projectIDs); n > 1 {
			step := 1
			if key.Matches(msg, m.keys.PrevProject) {
				step = n - 1
			}
			m.projectIdx = (m.projectIdx + step) % n
			m.cursor = 0
			m.reload()
		}

	case key.Matches(msg, m.keys.Fold):
		if r, ok := m.selectedRow(); ok && r.HasChildren {
			m.err = m.app.Tasks.SetExpanded(m.ctx, r.Address, !r.Expanded)
			m.reload()
		}

	case key.Matches(msg, m.keys.ExpandAll):
		m.expandAll = !m.expandAll
		m.reload()

	case key.Matches(msg, m.keys.Earlier):
		m.nudge(gantt.ModeMove, -1)
	case key.Matches(msg, m.keys.Later):
		m.nudge(gantt.ModeMove, 1)
	case key.Matches(msg, m.keys.Shorter):
		m.nudge(gantt.ModeResizeEnd, -1)
	case key.Matches(msg, m.keys.Longer):
		m.nudge(gantt.ModeResizeEnd, 1)

	case key.Matches(msg, m.keys.Undo):
		r, err := m.app.Undo.Undo(m.ctx)
		if err != nil {
			m.err = err
			break
		}
		m.status = strings.TrimSpace(formatter.FormatRestored(r))
		m.reload()
	}
	return m, nil
}

// nudge runs a one-day drag on the selected bar. The container is one unit
// per day so the pointer travel is exact.
func (m *timelineModel) nudge(mode gantt.Mode, days int) {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	width := float64(m.tl.Viewport.TotalDays())
	if _, err := m.app.Interaction.PointerDown(r.Address, mode, 0, width); err != nil {
		m.err = err
		return
	}
	if _, err := m.app.Interaction.PointerMove(float64(days)); err != nil {
		m.err = err
	}
	m.finishDrag()
}

// finishDrag releases the pointer and reports what was committed.
func (m *timelineModel) finishDrag() {
	c, err := m.app.Interaction.PointerUp(m.ctx)
	m.drag = nil
	switch {
	case err != nil:
		m.err = err
	case c.Changed:
		m.status = fmt.Sprintf("%s now runs %s", c.Address, formatter.DateRange(c.Start, c.Due))
	}
	m.reload()
}

func (m timelineModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := float64(msg.X-formatter.GanttChartLeft()) + 0.5
	width := float64(m.chartWidth())

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.app.Interaction.Active() {
			return m, nil
		}
		idx, ok := m.rowAt(msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = idx
		r := m.tl.Rows[idx]
		mode, hit := gantt.HitTest(r.Bar, x, width, gripCells)
		if !hit {
			return m, nil
		}
		frame, err := m.app.Interaction.PointerDown(r.Address, mode, x, width)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.drag = &formatter.GanttDrag{Address: r.Address, Frame: frame}

	case tea.MouseActionMotion:
		if m.drag == nil {
			return m, nil
		}
		frame, err := m.app.Interaction.PointerMove(x)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.drag.Frame = frame

	case tea.MouseActionRelease:
		if m.drag == nil {
			return m, nil
		}
		if _, err := m.app.Interaction.PointerMove(x); err != nil {
			m.err = err
		}
		m.finishDrag()
	}
	return m, nil
}

// rowAt maps a screen line to a timeline row index.
func (m timelineModel) rowAt(y int) (int, bool) {
	if m.tl == nil {
		return 0, false
	}
	idx := y - tuiChartTop - formatter.GanttHeaderLines
	if idx < 0 || idx >= len(m.tl.Rows) {
		return 0, false
	}
	return idx, true
}

func (m timelineModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n")

	switch {
	case len(m.projectIDs) == 0:
		b.WriteString(formatter.Dim(" No projects yet. Create one with `taskline project add NAME`.") + "\n")
	case m.tl != nil:
		b.WriteString(formatter.RenderTimeline(*m.tl, formatter.GanttOptions{
			Width:    m.chartWidth(),
			Selected: m.cursor,
			Drag:     m.drag,
		}))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(" " + m.err.Error()))
	case m.drag != nil:
		b.WriteString(formatter.StyleYellowBold.Render(fmt.Sprintf(" %s → %s",
			m.drag.Address, formatter.DateRange(m.drag.Frame.Start, m.drag.Frame.Due))))
	case m.status != "":
		b.WriteString(" " + m.status)
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	result := b.String()
	if m.height > 0 {
		if lines := strings.Count(result, "\n") + 1; lines < m.height {
			result += strings.Repeat("\n", m.height-lines)
		}
	}
	return result
}

func (m timelineModel) renderHeader() string {
	header := formatter.StylePurple.Render("taskline")
	if id := m.currentProjectID(); id != "" {
		header += " " + formatter.Dim("›") + " " + formatter.StyleGreen.Render(id)
		header += formatter.Dim(fmt.Sprintf("  [%d/%d]", m.projectIdx+1, len(m.projectIDs)))
	}
	if m.expandAll {
		header += formatter.Dim("  (all tasks)")
	}
	return header
}

// runTUI starts the timeline view full-screen with mouse tracking.
func runTUI(ctx context.Context, app *App, projectID string) error {
	m := newTimelineModel(ctx, app, projectID)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [PROJECT]",
		Short: "Open the interactive timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := ""
			if len(args) == 1 {
				if _, err := app.Projects.Get(args[0]); err != nil {
					return err
				}
				projectID = args[0]
			}
			return runTUI(cmd.Context(), app, projectID)
		},
	}
}

var _ tea.Model = timelineModel{}
