package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const defaultSurfaceBuffer = 64

// ChannelSurface turns sink and pipeline callbacks into Bubble Tea messages.
// Sends wait for the program to read them until Close is called.
type ChannelSurface struct {
	msgs chan tea.Msg
	done chan struct{}
	once sync.Once
}

// NewChannelSurface returns a surface with a small message buffer.
func NewChannelSurface() *ChannelSurface {
	return &ChannelSurface{
		msgs: make(chan tea.Msg, defaultSurfaceBuffer),
		done: make(chan struct{}),
	}
}

// ShowOutput implements ports.OutputSurface.
func (s *ChannelSurface) ShowOutput(artifact string) {
	s.send(OutputMsg{Artifact: artifact})
}

// ShowIndicator implements ports.OutputSurface.
func (s *ChannelSurface) ShowIndicator(active bool) {
	s.send(IndicatorMsg{Active: active})
}

// Outcome forwards a pipeline outcome. It matches pipeline.Options.OnOutcome.
func (s *ChannelSurface) Outcome(o playground.Outcome) {
	s.send(OutcomeMsg{Outcome: o})
}

// Close releases pending and future senders.
func (s *ChannelSurface) Close() {
	s.once.Do(func() { close(s.done) })
}

// Listen waits for the next message.
func (s *ChannelSurface) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.msgs:
			return msg
		case <-s.done:
			return nil
		}
	}
}

func (s *ChannelSurface) send(msg tea.Msg) {
	select {
	case s.msgs <- msg:
	case <-s.done:
	}
}

var _ ports.OutputSurface = (*ChannelSurface)(nil)
