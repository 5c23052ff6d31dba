// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver stands in for tea.Program: it calls Update directly and runs the
// returned Cmds inline, feeding their messages back until nothing is left.
// Keyboard and mouse helpers build the same messages the terminal would.
//
// Cmds that block (cursor blink timers, tick loops) are abandoned after a
// short timeout.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// cmdTimeout separates Cmds that compute a message from Cmds that wait on a
// timer.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a Cmd yields tea.QuitMsg.
	Quitting bool

	// pressed tracks the held mouse button so motion events carry it.
	pressed tea.MouseButton
}

// Option configures a Driver.
type Option func(*Driver)

// New wraps model. Call DrainInit afterwards to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, pressed: tea.MouseButtonNone}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── keyboard ────────────────────────────────────────────────────────────────

// PressKey sends a printable key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Press sends a special key such as tea.KeyEnter or tea.KeyShiftTab.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// PressEnter sends Enter.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Press(tea.KeyEnter)
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Press(tea.KeyCtrlC)
}

// PressUp sends the Up arrow.
func (d *Driver) PressUp() {
	d.T.Helper()
	d.Press(tea.KeyUp)
}

// PressDown sends the Down arrow.
func (d *Driver) PressDown() {
	d.T.Helper()
	d.Press(tea.KeyDown)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ── mouse ───────────────────────────────────────────────────────────────────

// MouseDown presses the left button at cell (x, y).
func (d *Driver) MouseDown(x, y int) {
	d.T.Helper()
	d.pressed = tea.MouseButtonLeft
	d.Send(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
}

// MouseMove reports pointer motion to (x, y), carrying the held button.
func (d *Driver) MouseMove(x, y int) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Button: d.pressed, Action: tea.MouseActionMotion})
}

// MouseUp releases the button at (x, y).
func (d *Driver) MouseUp(x, y int) {
	d.T.Helper()
	d.pressed = tea.MouseButtonNone
	d.Send(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})
}

// Drag presses at from, moves through each point of path, and releases at
// the last one.
func (d *Driver) Drag(fromX, fromY int, path ...[2]int) {
	d.T.Helper()
	d.MouseDown(fromX, fromY)
	x, y := fromX, fromY
	for _, p := range path {
		x, y = p[0], p[1]
		d.MouseMove(x, y)
	}
	d.MouseUp(x, y)
}

// ── draining ────────────────────────────────────────────────────────────────

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining at depth %d", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
		return
	}
	if isBlink(msg) {
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.drain(next, depth+1)
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages from bubbles.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
