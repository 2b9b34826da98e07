package approval

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// MarkdownRenderer returns a glamour renderer that adapts to the terminal's
// light or dark background.
func MarkdownRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// HeaderStyle colours stage headers for the current terminal profile.
func HeaderStyle() func(string) string {
	p := termenv.ColorProfile()
	return func(s string) string {
		return termenv.String(s).Foreground(p.Color("#c084fc")).Bold().String()
	}
}
