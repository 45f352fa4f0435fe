package tui

import "github.com/charmbracelet/bubbles/viewport"

// ScrollController decides whether new content may move the viewport.
// Once the user scrolls more than threshold lines above the bottom,
// automatic scrolling stops until an explicit jump or a new submission.
type ScrollController struct {
	threshold        int
	userScrolledAway bool
}

// NewScrollController creates a controller. A negative threshold is treated as zero.
func NewScrollController(threshold int) ScrollController {
	if threshold < 0 {
		threshold = 0
	}
	return ScrollController{threshold: threshold}
}

// ShouldAutoScroll reports whether content updates should follow the bottom.
func (s ScrollController) ShouldAutoScroll() bool {
	return !s.userScrolledAway
}

// UserScrolledAway reports whether the user left the bottom of the transcript.
func (s ScrollController) UserScrolledAway() bool {
	return s.userScrolledAway
}

// OnUserScroll records a manual scroll of a viewport showing height lines
// of total from offset.
func (s *ScrollController) OnUserScroll(offset, height, total int) {
	distance := total - (offset + height)
	s.userScrolledAway = distance > s.threshold
}

// Reset resumes automatic scrolling without moving the viewport.
func (s *ScrollController) Reset() {
	s.userScrolledAway = false
}

// ScrollToBottom jumps to the end of the content.
func (s *ScrollController) ScrollToBottom(vp *viewport.Model) {
	vp.GotoBottom()
	s.userScrolledAway = false
}

// ScrollToLine jumps so line is at the top of the viewport.
func (s *ScrollController) ScrollToLine(vp *viewport.Model, line int) {
	vp.SetYOffset(line)
	s.userScrolledAway = false
}

// ScrollToMessage jumps to the first line of message id, given the line
// offsets of the rendered transcript. It reports whether id was found.
func (s *ScrollController) ScrollToMessage(vp *viewport.Model, offsets map[string]int, id string) bool {
	line, ok := offsets[id]
	if !ok {
		return false
	}
	s.ScrollToLine(vp, line)
	return true
}

// Follow moves to the bottom if automatic scrolling is allowed.
func (s *ScrollController) Follow(vp *viewport.Model) {
	if s.ShouldAutoScroll() {
		vp.GotoBottom()
	}
}
