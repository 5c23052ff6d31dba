package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░]  45%.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	if width < 2 {
		width = 2
	}
	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3d%%", CompletionStyle(pct).Render(bar), pct)
}

// RenderCompactBar renders the bar alone, without brackets or the number.
func RenderCompactBar(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	if width < 1 {
		width = 1
	}
	filled := pct * width / 100
	return CompletionStyle(pct).Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
