package tui

import (
	"testing"
	"time"
)

func TestGraphemesKeepClustersWhole(t *testing.T) {
	// Base letter plus combining mark, and an emoji with a modifier
	got := graphemes("قُ👍🏽a")
	if len(got) != 3 {
		t.Fatalf("expected 3 clusters, got %d: %q", len(got), got)
	}
	if got[0] != "قُ" {
		t.Errorf("first cluster = %q, want base letter with its mark", got[0])
	}
}

func TestRevealSteps(t *testing.T) {
	r := NewReveal(time.Millisecond)
	if cmd := r.Start("m1", "u1", "114"); cmd == nil {
		t.Fatal("Start should schedule a tick")
	}
	gen := r.Generation()

	for i, want := range []string{"1", "11", "114"} {
		ok, cmd := r.Step(revealTickMsg{gen: gen})
		if !ok {
			t.Fatalf("step %d rejected", i)
		}
		if r.Visible() != want {
			t.Errorf("step %d: Visible() = %q, want %q", i, r.Visible(), want)
		}
		last := i == 2
		if last && cmd != nil {
			t.Error("expected no tick after the last cluster")
		}
		if !last && cmd == nil {
			t.Errorf("step %d: expected another tick", i)
		}
	}
	if !r.Done() {
		t.Error("expected reveal done")
	}
}

func TestRevealIgnoresStaleTicks(t *testing.T) {
	r := NewReveal(time.Millisecond)
	r.Start("m1", "u1", "first")
	stale := r.Generation()

	r.Start("m2", "u2", "second")
	if ok, _ := r.Step(revealTickMsg{gen: stale}); ok {
		t.Error("stale tick should be ignored")
	}
	if r.Visible() != "" {
		t.Errorf("stale tick changed visible text to %q", r.Visible())
	}
	if r.MessageID() != "m2" || r.ReplyTo() != "u2" {
		t.Errorf("unexpected reveal target %s/%s", r.MessageID(), r.ReplyTo())
	}

	current := r.Generation()
	r.Cancel()
	if r.Active() {
		t.Error("expected inactive after Cancel")
	}
	if ok, _ := r.Step(revealTickMsg{gen: current}); ok {
		t.Error("tick after Cancel should be ignored")
	}
}
