package tui

import "strings"

const (
	scrollbarThumb = "┃"
	scrollbarTrack = "│"
)

// thumbGeometry returns the thumb position and size for a viewport of
// height lines showing total lines from offset.
func thumbGeometry(height, total, offset int) (pos, size int) {
	if height <= 0 || total <= height {
		return 0, 0
	}

	size = height * height / total
	if size < 1 {
		size = 1
	}

	maxOffset := total - height
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	pos = (height - size) * offset / maxOffset
	return pos, size
}

// renderScrollbar returns one line per viewport row. Content that fits
// shows an empty track.
func renderScrollbar(height, total, offset int) string {
	if height <= 0 {
		return ""
	}

	pos, size := thumbGeometry(height, total, offset)
	lines := make([]string, height)
	for i := range lines {
		if size > 0 && i >= pos && i < pos+size {
			lines[i] = scrollThumbStyle.Render(scrollbarThumb)
		} else {
			lines[i] = scrollTrackStyle.Render(scrollbarTrack)
		}
	}
	return strings.Join(lines, "\n")
}
