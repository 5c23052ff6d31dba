package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one node of a tree display, listed in pre-order.
type TreeItem struct {
	Title string
	// Label is a dim prefix such as the node's path.
	Label  string
	Level  int
	IsLast bool
	Done   bool
	Active bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Level 0 items have no connector. Done items get a green ✔, active items an
// amber ▶, and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}
	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// open[d] is true while the ancestor at depth d still has siblings below.
	var open []bool
	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for d := 1; d < item.Level; d++ {
				if d < len(open) && open[d] {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeBlank)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		for len(open) <= item.Level {
			open = append(open, false)
		}
		open = open[:item.Level+1]
		open[item.Level] = !item.IsLast

		title := item.Title
		status := ""
		switch {
		case item.Done:
			status = StyleGreen.Render("✔ ")
			title = Dim(title)
		case item.Active:
			status = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}
		if item.Label != "" {
			title = Dim(item.Label+" ") + title
		}

		content := prefix.String() + status + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		b.WriteString(PadRight(li.content, maxContentWidth) + "  " + li.badge + "\n")
	}
	return b.String()
}
