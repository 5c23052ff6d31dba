package domain

import "fmt"

// DependencyMode describes how a task's start date relates to its parent.
type DependencyMode string

const (
	// DependencyFree tasks keep whatever dates they are given.
	DependencyFree DependencyMode = "free"
	// DependencyParent tasks start on their parent's due date and follow it
	// whenever the parent's dates are edited.
	DependencyParent DependencyMode = "parent"
)

// IsBound reports whether the mode pins the start date to the parent.
func (m DependencyMode) IsBound() bool {
	return m == DependencyParent
}

// ParseDependencyMode accepts "free", "parent" or an empty string (free).
func ParseDependencyMode(s string) (DependencyMode, error) {
	switch DependencyMode(s) {
	case "", DependencyFree:
		return DependencyFree, nil
	case DependencyParent:
		return DependencyParent, nil
	}
	return "", fmt.Errorf("invalid dependency mode %q (expected free|parent)", s)
}

// DropIntent is where a dragged row lands relative to the row under the pointer.
type DropIntent string

const (
	DropBefore DropIntent = "before"
	DropAfter  DropIntent = "after"
	DropOnto   DropIntent = "onto"
)

// ParseDropIntent validates a drop intent string.
func ParseDropIntent(s string) (DropIntent, error) {
	switch DropIntent(s) {
	case DropBefore, DropAfter, DropOnto:
		return DropIntent(s), nil
	}
	return "", fmt.Errorf("invalid drop intent %q (expected before|after|onto)", s)
}

// DropIntentAt picks the intent from the pointer's vertical offset within the
// target row: the top third means before, the bottom third after, the middle onto.
func DropIntentAt(offsetY, rowHeight float64) DropIntent {
	if rowHeight <= 0 {
		return DropOnto
	}
	switch {
	case offsetY < rowHeight/3:
		return DropBefore
	case offsetY >= rowHeight*2/3:
		return DropAfter
	default:
		return DropOnto
	}
}

// DueState classifies a task's due date relative to today.
type DueState string

const (
	DueOverdue  DueState = "overdue"
	DueToday    DueState = "today"
	DueTomorrow DueState = "tomorrow"
	DueUpcoming DueState = "upcoming"
)
