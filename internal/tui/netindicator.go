package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NetActivity is the kind of backend traffic in progress.
type NetActivity int

const (
	NetActivityIdle NetActivity = iota
	NetActivityAsk              // Waiting for an answer
	NetActivityCatalog          // Loading categories and facts
	NetActivitySearch           // Running a search
)

func (a NetActivity) label() string {
	switch a {
	case NetActivityAsk:
		return "ASK"
	case NetActivityCatalog:
		return "SYNC"
	case NetActivitySearch:
		return "FIND"
	default:
		return "IDLE"
	}
}

// NetIndicator is a bouncing bar shown while requests are in flight.
// Overlapping requests are counted so the bar stops only when all finish.
type NetIndicator struct {
	inflight  map[NetActivity]int
	position  int
	direction int
	width     int
	ticking   bool
}

// netTickMsg animates the indicator.
type netTickMsg time.Time

// NewNetIndicator creates an idle indicator.
func NewNetIndicator() NetIndicator {
	return NetIndicator{
		inflight:  make(map[NetActivity]int),
		direction: 1,
		width:     8,
	}
}

// Begin marks the start of a request. It returns a tick command when the
// animation was not already running.
func (n *NetIndicator) Begin(a NetActivity) tea.Cmd {
	n.inflight[a]++
	if n.ticking {
		return nil
	}
	n.ticking = true
	return n.tick()
}

// End marks the end of a request.
func (n *NetIndicator) End(a NetActivity) {
	if n.inflight[a] > 0 {
		n.inflight[a]--
	}
}

// Activity returns the most relevant activity in flight.
func (n NetIndicator) Activity() NetActivity {
	for _, a := range []NetActivity{NetActivityAsk, NetActivitySearch, NetActivityCatalog} {
		if n.inflight[a] > 0 {
			return a
		}
	}
	return NetActivityIdle
}

// Update advances the animation.
func (n NetIndicator) Update(msg tea.Msg) (NetIndicator, tea.Cmd) {
	if _, ok := msg.(netTickMsg); !ok {
		return n, nil
	}
	if n.Activity() == NetActivityIdle {
		n.ticking = false
		n.position = 0
		n.direction = 1
		return n, nil
	}

	n.position += n.direction
	if n.position >= n.width-1 {
		n.position = n.width - 1
		n.direction = -1
	} else if n.position <= 0 {
		n.position = 0
		n.direction = 1
	}
	return n, n.tick()
}

func (n NetIndicator) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return netTickMsg(t)
	})
}

// View renders the indicator.
func (n NetIndicator) View() string {
	activity := n.Activity()
	if activity == NetActivityIdle {
		return dimmedStyle.Render("⬦ " + activity.label())
	}

	var bar strings.Builder
	for i := 0; i < n.width; i++ {
		if i == n.position {
			bar.WriteString("●")
		} else {
			bar.WriteString("·")
		}
	}
	style := lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	return style.Render("⬥ " + activity.label() + " " + bar.String())
}
