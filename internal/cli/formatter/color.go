package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CompletionStyle colors a completion percentage: done is green, under a
// third is red, under two thirds is yellow, the rest blue.
func CompletionStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 100:
		return StyleGreen
	case pct < 33:
		return StyleRed
	case pct < 66:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// DueStateStyle returns the style for a due-date notice.
func DueStateStyle(s domain.DueState) lipgloss.Style {
	switch s {
	case domain.DueOverdue:
		return StyleRed
	case domain.DueToday:
		return StyleYellowBold
	case domain.DueTomorrow:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// DueStateIndicator returns a colored label such as "● OVERDUE".
func DueStateIndicator(s domain.DueState) string {
	switch s {
	case domain.DueOverdue:
		return StyleRed.Render("● OVERDUE")
	case domain.DueToday:
		return StyleYellowBold.Render("● DUE TODAY")
	case domain.DueTomorrow:
		return StyleYellow.Render("● TOMORROW")
	default:
		return StyleBlue.Render("○ UPCOMING")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
