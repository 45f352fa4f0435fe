package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xonecas/tilawa/internal/chat"
)

// Colors adapt to the terminal background.
var (
	colorBrand    = lipgloss.AdaptiveColor{Light: "#0B6E4F", Dark: "#2BC08A"} // Mosque green
	colorGold     = lipgloss.AdaptiveColor{Light: "#9A6B00", Dark: "#E8B64C"}
	colorBrandDim = lipgloss.AdaptiveColor{Light: "#5E9C86", Dark: "#1C6B50"}

	colorUser  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#7AA2F7"}
	colorBot   = colorBrand
	colorFact  = colorGold
	colorError = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FF5F7E"}

	colorMuted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7C7F93"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#C8CCD4", Dark: "#3B3F51"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(colorBrand).
				Bold(true)

	// Transcript
	transcriptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBrandDim)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorBot).
			Bold(true)

	factLabelStyle = lipgloss.NewStyle().
			Foreground(colorFact).
			Bold(true)

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(colorError)

	factTextStyle = lipgloss.NewStyle().
			Foreground(colorFact).
			Italic(true)

	latestMarkerStyle = lipgloss.NewStyle().
				Foreground(colorGold)

	// Fact panel
	factPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGold).
			Padding(0, 1)

	// Suggestions
	chipStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(colorBorder).
			Padding(0, 1)

	chipSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(colorGold).
				Bold(true).
				Padding(0, 1)

	// Input
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBrand).
			Padding(0, 1)

	inputShakeStyle = inputStyle.
			BorderForeground(colorError).
			MarginLeft(1)

	inputDisabledStyle = inputStyle.
				BorderForeground(colorMuted)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(colorBrand).
				Bold(true)

	// Overlays
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorBrand).
			Padding(1, 2)

	listItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	listItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(colorBrand).
				Bold(true).
				Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Misc
	dimmedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorBot).
				Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	scrollTrackStyle = lipgloss.NewStyle().Foreground(colorBorder)
	scrollThumbStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// MessageStyles returns the label and body styles for a message.
func MessageStyles(m chat.Message) (label lipgloss.Style, body lipgloss.Style) {
	switch {
	case m.Kind == chat.KindError:
		return errorLabelStyle, errorTextStyle
	case m.Kind == chat.KindFact:
		return factLabelStyle, factTextStyle
	case m.Sender == chat.SenderUser:
		return userLabelStyle, lipgloss.NewStyle()
	default:
		return botLabelStyle, lipgloss.NewStyle()
	}
}

// messageLabel names the sender of a message in the transcript.
func messageLabel(m chat.Message) string {
	switch {
	case m.Kind == chat.KindError:
		return "✗ خرابی"
	case m.Kind == chat.KindFact:
		return "✦ کیا آپ جانتے ہیں؟"
	case m.Sender == chat.SenderUser:
		return "● آپ"
	default:
		return "◆ تلاوت"
	}
}

// renderSectionTitle renders a title line spanning the full width.
func renderSectionTitle(title, suffix string, width int) string {
	// Format: ⬧── TITLE ──⬧ suffix
	titleWithSpaces := " " + title + " "
	available := width - lipgloss.Width(titleWithSpaces) - 4 - lipgloss.Width(suffix)
	if available < 2 {
		available = 2
	}
	left := available / 2
	right := available - left

	line := "⬧─" + strings.Repeat("─", left) + titleWithSpaces + strings.Repeat("─", right) + "─⬧" + suffix
	return sectionTitleStyle.Render(line)
}

// truncateToWidth truncates a string to fit within maxWidth display columns.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	currentWidth := 0
	for i, r := range s {
		charWidth := lipgloss.Width(string(r))
		if currentWidth+charWidth > maxWidth {
			return s[:i]
		}
		currentWidth += charWidth
	}
	return s
}

func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return truncateToWidth(s, maxWidth)
	}
	return truncateToWidth(s, maxWidth-1) + "…"
}

// wrapText wraps text to maxWidth display columns, preserving words.
// Words longer than maxWidth are hard-wrapped.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for lipgloss.Width(word) > maxWidth {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				chunk := truncateToWidth(word, maxWidth)
				if chunk == "" {
					// A single glyph wider than the line
					chunk = string([]rune(word)[:1])
				}
				lines = append(lines, chunk)
				word = word[len(chunk):]
			}
			if word == "" {
				continue
			}

			switch {
			case current == "":
				current = word
			case lipgloss.Width(current)+1+lipgloss.Width(word) <= maxWidth:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}
