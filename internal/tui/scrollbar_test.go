package tui

import (
	"strings"
	"testing"
)

func TestThumbGeometry(t *testing.T) {
	tests := []struct {
		name                  string
		height, total, offset int
		wantPos, wantSize     int
	}{
		{"fits", 10, 5, 0, 0, 0},
		{"top", 10, 100, 0, 0, 1},
		{"bottom", 10, 100, 90, 9, 1},
		{"past_bottom", 10, 100, 500, 9, 1},
		{"half", 10, 20, 5, 2, 5},
		{"zero_height", 0, 100, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, size := thumbGeometry(tt.height, tt.total, tt.offset)
			if pos != tt.wantPos || size != tt.wantSize {
				t.Errorf("thumbGeometry(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.height, tt.total, tt.offset, pos, size, tt.wantPos, tt.wantSize)
			}
		})
	}
}

func TestRenderScrollbar(t *testing.T) {
	bar := renderScrollbar(10, 100, 90)
	lines := strings.Split(bar, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[9], scrollbarThumb) {
		t.Error("expected thumb in last line when at bottom")
	}
	if strings.Contains(lines[0], scrollbarThumb) {
		t.Error("expected track in first line when at bottom")
	}

	for i, line := range strings.Split(renderScrollbar(4, 2, 0), "\n") {
		if !strings.Contains(line, scrollbarTrack) {
			t.Errorf("line %d: expected empty track when content fits", i)
		}
	}

	if renderScrollbar(0, 10, 0) != "" {
		t.Error("expected empty scrollbar for zero height")
	}
}
