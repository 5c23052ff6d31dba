package gantt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// Mode is what a drag session does to the bar.
type Mode string

const (
	ModeMove        Mode = "move"
	ModeResizeStart Mode = "resize-start"
	ModeResizeEnd   Mode = "resize-end"
)

// ParseMode validates a drag mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMove, ModeResizeStart, ModeResizeEnd:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid drag mode %q (expected move|resize-start|resize-end)", s)
}

var (
	ErrSessionActive = errors.New("a drag is already in progress")
	ErrNoSession     = errors.New("no drag in progress")
	ErrBadGeometry   = errors.New("invalid pointer geometry")
)

// Target is the bar a pointer-down landed on.
type Target struct {
	Address  domain.Address
	Viewport Viewport
	Start    time.Time
	Due      time.Time
	// Floor is the latest due date anywhere below the task; the trailing
	// edge may not be dragged before it. Zero for leaves.
	Floor time.Time
}

// TargetFor builds the drag target for the task at addr.
func TargetFor(p *domain.Project, path domain.NodePath, v Viewport) (Target, error) {
	n, err := p.Node(path)
	if err != nil {
		return Target{}, err
	}
	t := Target{
		Address:  domain.Address{ProjectID: p.ID, Path: path},
		Viewport: v,
		Start:    n.StartDate,
		Due:      n.DueDate,
	}
	if floor, ok := n.LatestDescendantDue(); ok {
		t.Floor = floor
	}
	return t, nil
}

// Session is the state of one drag, created on pointer-down and consumed on
// pointer-up. Geometry is tracked in days from the anchor viewport's Min so
// that viewport growth never changes the scale mid-drag.
type Session struct {
	Mode    Mode
	Address domain.Address

	anchorX   float64
	pxPerDay  float64
	anchor    Viewport
	left0     float64 // days from anchor.Min to the bar's leading edge
	span0     float64 // bar width in days, due inclusive
	floorEnd  float64 // earliest allowed trailing edge in days; -Inf if none
	grewLeft  int
	grewRight int
	left      float64
	span      float64
}

// Frame is the provisional geometry after a pointer event.
type Frame struct {
	Viewport Viewport
	Bar      Bar
	// Start and Due are what the bar would commit to if released now.
	Start time.Time
	Due   time.Time
	Grew  bool
}

// Commit is the date change a finished drag asks for.
type Commit struct {
	Address domain.Address
	Mode    Mode
	Start   time.Time
	Due     time.Time
	// Changed is false when the bar was released where it started.
	Changed bool
}

// Controller is the drag state machine: Idle until PointerDown, Active until
// PointerUp. There is no cancel; releasing always commits.
type Controller struct {
	session *Session
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns the current session, or nil when idle.
func (c *Controller) Session() *Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// PointerDown starts a drag on target at pointer position x within a bar
// container containerWidth wide (any unit, as long as x uses the same one).
func (c *Controller) PointerDown(target Target, mode Mode, x, containerWidth float64) (Frame, error) {
	if c.session != nil {
		return Frame{}, ErrSessionActive
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return Frame{}, err
	}
	if !finite(x) || !finite(containerWidth) || containerWidth <= 0 {
		return Frame{}, fmt.Errorf("%w: x=%v width=%v", ErrBadGeometry, x, containerWidth)
	}
	v := target.Viewport
	if v.TotalDays() <= 0 {
		return Frame{}, fmt.Errorf("%w: empty viewport %s", ErrBadGeometry, v)
	}

	s := &Session{
		Mode:     mode,
		Address:  target.Address,
		anchorX:  x,
		pxPerDay: containerWidth / float64(v.TotalDays()),
		anchor:   v,
		left0:    float64(domain.DaysBetween(v.Min, target.Start)),
		span0:    float64(domain.DaysBetween(target.Start, target.Due) + 1),
		floorEnd: math.Inf(-1),
	}
	if !target.Floor.IsZero() {
		s.floorEnd = float64(domain.DaysBetween(v.Min, target.Floor) + 1)
	}
	s.left, s.span = s.left0, s.span0
	// Bars that already overflow the anchor window are brought inside first.
	s.fit()
	c.session = s
	return s.frame(false), nil
}

// PointerMove updates the provisional geometry. Non-finite input leaves the
// previous geometry in place.
func (c *Controller) PointerMove(x float64) (Frame, error) {
	s := c.session
	if s == nil {
		return Frame{}, ErrNoSession
	}
	if !finite(x) {
		return s.frame(false), nil
	}
	delta := (x - s.anchorX) / s.pxPerDay

	switch s.Mode {
	case ModeResizeStart:
		right := s.left0 + s.span0
		left := math.Min(s.left0+delta, right-1)
		s.left, s.span = left, right-left
	case ModeResizeEnd:
		right := math.Max(s.left0+s.span0+delta, s.left0+1)
		right = math.Max(right, s.floorEnd)
		s.left, s.span = s.left0, right-s.left0
	case ModeMove:
		left := s.left0 + delta
		if left+s.span0 < s.floorEnd {
			left = s.floorEnd - s.span0
		}
		s.left, s.span = left, s.span0
	}
	return s.frame(s.fit()), nil
}

// PointerUp ends the drag and returns the dates to commit.
func (c *Controller) PointerUp() (Commit, error) {
	s := c.session
	if s == nil {
		return Commit{}, ErrNoSession
	}
	c.session = nil
	f := s.frame(false)
	startOrig := domain.AddDays(s.anchor.Min, int(s.left0))
	dueOrig := domain.AddDays(startOrig, int(s.span0)-1)
	return Commit{
		Address: s.Address,
		Mode:    s.Mode,
		Start:   f.Start,
		Due:     f.Due,
		Changed: !f.Start.Equal(startOrig) || !f.Due.Equal(dueOrig),
	}, nil
}

// fit grows the session viewport, in whole days, until the provisional bar
// lies inside it. Growth is kept for the rest of the drag.
func (s *Session) fit() bool {
	grew := false
	if need := int(math.Ceil(-s.left)); need > s.grewLeft {
		s.grewLeft = need
		grew = true
	}
	total := float64(s.anchor.TotalDays())
	if need := int(math.Ceil(s.left + s.span - total)); need > s.grewRight {
		s.grewRight = need
		grew = true
	}
	return grew
}

func (s *Session) viewport() Viewport {
	return s.anchor.Grow(s.grewLeft, s.grewRight)
}

func (s *Session) frame(grew bool) Frame {
	v := s.viewport()
	total := float64(v.TotalDays())
	offset := float64(s.grewLeft)
	bar := Bar{
		Left:  (s.left + offset) / total * 100,
		Width: s.span / total * 100,
	}
	start, due := v.DatesOf(bar)
	return Frame{Viewport: v, Bar: bar, Start: start, Due: due, Grew: grew}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
