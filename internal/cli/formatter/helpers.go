package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDays describes a day offset from today: "Today", "In 3d", "2w ago".
func RelativeDays(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDaysStyled colors RelativeDays by urgency.
func RelativeDaysStyled(days int) string {
	text := RelativeDays(days)
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// DateRange renders "2025-04-01 → 2025-04-10", or the single date when the
// range is one day.
func DateRange(start, due time.Time) string {
	if start.Equal(due) {
		return domain.FormatDate(due)
	}
	return domain.FormatDate(start) + " → " + domain.FormatDate(due)
}

// ShortDate renders a date without the year, e.g. "Apr 5".
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2")
}

// PICBadge renders a person-in-charge name, or a dim placeholder.
func PICBadge(name string) string {
	if name == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(name)
}

// Truncate shortens s to at most width cells, ending in an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// PadRight pads s with spaces to width visible cells.
func PadRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
