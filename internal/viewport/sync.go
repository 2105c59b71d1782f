package viewport

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the quiet period after the last resize event.
const DefaultDebounce = 200 * time.Millisecond

// SettledMsg is delivered once resizing has been quiet for the debounce
// window. Only the message carrying the latest sequence number is applied.
type SettledMsg struct {
	seq    uint64
	width  int
	height int
}

// Sync debounces resize events. It is a value type owned by a Bubble Tea model.
type Sync struct {
	delay   time.Duration
	seq     uint64
	applied bool
	layout  Layout
}

// NewSync returns a Sync with an initial layout for width x height.
func NewSync(delay time.Duration, width, height int) Sync {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return Sync{delay: delay, layout: Compute(width, height)}
}

// Layout returns the layout currently in effect.
func (s Sync) Layout() Layout {
	return s.layout
}

// Resize records a new terminal size. The first size is applied at once and
// reported by the boolean; later sizes return a command that settles after
// the debounce window.
func (s *Sync) Resize(msg tea.WindowSizeMsg) (tea.Cmd, bool) {
	s.seq++
	if !s.applied {
		s.applied = true
		s.layout = Compute(msg.Width, msg.Height)
		return nil, true
	}
	settled := SettledMsg{seq: s.seq, width: msg.Width, height: msg.Height}
	return tea.Tick(s.delay, func(time.Time) tea.Msg { return settled }), false
}

// Settle applies msg if no resize arrived after it. It reports whether the
// layout changed.
func (s *Sync) Settle(msg SettledMsg) bool {
	if msg.seq != s.seq {
		return false
	}
	next := Compute(msg.width, msg.height)
	if next == s.layout {
		return false
	}
	s.layout = next
	return true
}
