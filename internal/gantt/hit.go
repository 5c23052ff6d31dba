package gantt

import "math"

// HitTest maps a pointer position to the drag mode of the bar region under
// it. x and containerWidth share a unit; handle is the width of each resize
// grip in that unit. Grips shrink on narrow bars so the middle stays
// grabbable. ok is false when the pointer is outside the bar.
func HitTest(b Bar, x, containerWidth, handle float64) (Mode, bool) {
	if !finite(x) || containerWidth <= 0 {
		return "", false
	}
	left := b.Left / 100 * containerWidth
	right := b.Right() / 100 * containerWidth
	if x < left || x >= right {
		return "", false
	}
	grip := math.Min(handle, (right-left)/3)
	switch {
	case x < left+grip:
		return ModeResizeStart, true
	case x >= right-grip:
		return ModeResizeEnd, true
	default:
		return ModeMove, true
	}
}
