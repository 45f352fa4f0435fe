package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpItem struct {
	key  string
	desc string
}

var helpItems = []helpItem{
	{"Enter", "Send question / choose"},
	{"↑ / ↓", "Browse previous questions"},
	{"Tab / Shift+Tab", "Cycle suggestions"},
	{"Ctrl+O", "Browse categories"},
	{"Ctrl+F", "Search questions"},
	{"Ctrl+N", "New fact"},
	{"Ctrl+Y", "Copy latest answer"},
	{"Ctrl+L", "Jump to latest answer"},
	{"PgUp / PgDn", "Scroll"},
	{"End", "Go to bottom (auto-scroll)"},
	{"Ctrl+R", "Start over"},
	{"Esc", "Close / Cancel"},
	{"F1", "Toggle help"},
	{"Ctrl+C", "Quit"},
}

// RenderHelp renders the help overlay centered in width x height.
func RenderHelp(width, height int) string {
	maxKeyLen := 0
	for _, item := range helpItems {
		if w := lipgloss.Width(item.key); w > maxKeyLen {
			maxKeyLen = w
		}
	}

	lines := []string{titleStyle.Render("⌨ Keyboard Shortcuts"), ""}
	for _, item := range helpItems {
		key := helpKeyStyle.Render(padRight(item.key, maxKeyLen))
		lines = append(lines, key+"  "+helpDescStyle.Render(item.desc))
	}

	box := overlayStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, length int) string {
	if w := lipgloss.Width(s); w < length {
		return s + strings.Repeat(" ", length-w)
	}
	return s
}
