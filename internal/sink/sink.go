// Package sink publishes build artifacts to an output surface. It keeps the
// last published artifact so identical rebuilds are not shown twice, and it
// drives the transient "updated" indicator.
package sink

import (
	"sync"
	"time"

	"github.com/alexisbeaulieu97/varplay/internal/clock"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
	"github.com/alexisbeaulieu97/varplay/pkg/diff"
)

// DefaultIndicator is how long the updated indicator stays on.
const DefaultIndicator = time.Second

// Options configures a Sink.
type Options struct {
	Clock     ports.Clock
	Indicator time.Duration
}

// Publication describes an artifact that reached the surface.
type Publication struct {
	Artifact string
	Changes  diff.Summary
	At       time.Time
}

// Sink forwards changed artifacts to a surface. Surface methods are called
// with the sink's lock held and must not call back into the sink.
type Sink struct {
	surface   ports.OutputSurface
	clock     ports.Clock
	indicator time.Duration

	mu        sync.Mutex
	previous  string
	published bool
	clear     ports.Timer
	gen       uint64
}

// New returns a sink writing to surface.
func New(surface ports.OutputSurface, opts Options) *Sink {
	if opts.Indicator <= 0 {
		opts.Indicator = DefaultIndicator
	}
	if opts.Clock == nil {
		opts.Clock = clock.Wall{}
	}
	return &Sink{
		surface:   surface,
		clock:     opts.Clock,
		indicator: opts.Indicator,
	}
}

// Offer publishes artifact if it differs from the previously published one.
// It reports false, and touches nothing, when the artifact is unchanged.
func (s *Sink) Offer(artifact string) (Publication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.published && artifact == s.previous {
		return Publication{}, false
	}

	pub := Publication{
		Artifact: artifact,
		Changes:  diff.Summarize(s.previous, artifact),
		At:       s.clock.Now(),
	}
	s.previous = artifact
	s.published = true

	s.surface.ShowOutput(artifact)
	s.surface.ShowIndicator(true)

	if s.clear != nil {
		s.clear.Stop()
	}
	s.gen++
	gen := s.gen
	s.clear = s.clock.AfterFunc(s.indicator, func() { s.clearIndicator(gen) })

	return pub, true
}

// Previous returns the artifact currently shown, if any.
func (s *Sink) Previous() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous, s.published
}

func (s *Sink) clearIndicator(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.clear = nil
	s.surface.ShowIndicator(false)
}
