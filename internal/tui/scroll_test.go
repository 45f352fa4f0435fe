package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
)

func contentOf(lines int) string {
	out := make([]string, lines)
	for i := range out {
		out[i] = "line"
	}
	return strings.Join(out, "\n")
}

func TestScrollControllerThreshold(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		wantAway  bool
		threshold int
	}{
		{"at_bottom", 90, false, 3},
		{"within_threshold", 87, false, 3},
		{"past_threshold", 86, true, 3},
		{"top", 0, true, 3},
		{"zero_threshold_one_line_up", 89, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScrollController(tt.threshold)
			s.OnUserScroll(tt.offset, 10, 100)
			if s.UserScrolledAway() != tt.wantAway {
				t.Errorf("UserScrolledAway() = %v, want %v", s.UserScrolledAway(), tt.wantAway)
			}
			if s.ShouldAutoScroll() == tt.wantAway {
				t.Error("ShouldAutoScroll() should be the inverse of UserScrolledAway()")
			}
		})
	}
}

func TestScrollControllerJumpsClearState(t *testing.T) {
	vp := viewport.New(20, 10)
	vp.SetContent(contentOf(100))

	s := NewScrollController(3)
	s.OnUserScroll(0, 10, 100)
	if s.ShouldAutoScroll() {
		t.Fatal("expected auto-scroll disabled after scrolling to top")
	}

	// Follow must not move a viewport the user scrolled away from
	s.Follow(&vp)
	if vp.YOffset != 0 {
		t.Errorf("Follow moved viewport to %d while scrolled away", vp.YOffset)
	}

	s.ScrollToBottom(&vp)
	if !s.ShouldAutoScroll() {
		t.Error("ScrollToBottom should re-enable auto-scroll")
	}
	if !vp.AtBottom() {
		t.Error("expected viewport at bottom")
	}

	s.OnUserScroll(0, 10, 100)
	s.ScrollToLine(&vp, 42)
	if vp.YOffset != 42 {
		t.Errorf("YOffset = %d, want 42", vp.YOffset)
	}
	if !s.ShouldAutoScroll() {
		t.Error("ScrollToLine should re-enable auto-scroll")
	}

	s.OnUserScroll(0, 10, 100)
	s.Reset()
	if !s.ShouldAutoScroll() {
		t.Error("Reset should re-enable auto-scroll")
	}
}

func TestScrollToMessage(t *testing.T) {
	vp := viewport.New(20, 10)
	vp.SetContent(contentOf(100))
	s := NewScrollController(3)
	offsets := map[string]int{"a": 12, "b": 57}

	s.OnUserScroll(0, 10, 100)
	if !s.ScrollToMessage(&vp, offsets, "b") {
		t.Fatal("ScrollToMessage(b) = false, want true")
	}
	if vp.YOffset != 57 {
		t.Errorf("YOffset = %d, want 57", vp.YOffset)
	}
	if !s.ShouldAutoScroll() {
		t.Error("ScrollToMessage should re-enable auto-scroll")
	}

	vp.SetYOffset(5)
	if s.ScrollToMessage(&vp, offsets, "missing") {
		t.Error("ScrollToMessage(missing) = true, want false")
	}
	if vp.YOffset != 5 {
		t.Errorf("YOffset moved to %d on a missing id", vp.YOffset)
	}
}
