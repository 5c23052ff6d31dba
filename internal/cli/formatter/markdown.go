package formatter

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width; building one is slow.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders task notes. color selects the dark palette; without
// it the output is plain text suitable for pipes. Rendering failures fall
// back to the raw text.
func RenderMarkdown(md string, width int, color bool) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	style := styles.NoTTYStyle
	if color {
		style = styles.DarkStyle
	}
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = r
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
