// Package pipeline implements the change pipeline: it watches content and
// diagnostics events for one document, waits for both to settle, consults
// the diagnostics gate and runs at most one build per settled edit.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexisbeaulieu97/varplay/internal/clock"
	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/gate"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
	"github.com/alexisbeaulieu97/varplay/internal/sink"
)

// DefaultDebounce is the quiet window after the last diagnostics event.
const DefaultDebounce = 500 * time.Millisecond

// Publisher receives finished artifacts. *sink.Sink implements it.
type Publisher interface {
	Offer(artifact string) (sink.Publication, bool)
}

// Options configures a Pipeline.
type Options struct {
	Document playground.DocumentID
	Debounce time.Duration
	Clock    ports.Clock
	Gate     *gate.Gate
	Builder  *Builder
	Sink     Publisher
	Events   ports.EventPublisher
	Logger   ports.Logger

	// OnOutcome is called on the pipeline goroutine after every run. It must
	// not block and must not call back into the pipeline synchronously.
	OnOutcome func(playground.Outcome)
}

// Pipeline is the change pipeline for one document. ContentChanged,
// DiagnosticsChanged and BuildNow never block; Run processes their events in
// order on a single goroutine.
type Pipeline struct {
	doc       playground.DocumentID
	debounce  time.Duration
	clock     ports.Clock
	gate      *gate.Gate
	builder   *Builder
	sink      Publisher
	events    ports.EventPublisher
	logger    ports.Logger
	onOutcome func(playground.Outcome)

	inbox    *mailbox
	state    atomic.Int32
	inflight sync.WaitGroup

	// Owned by the Run goroutine.
	current  playground.Snapshot
	edited   bool
	timer    ports.Timer
	timerGen uint64
	seq      uint64
}

type contentChanged struct{ snap playground.Snapshot }

type diagnosticsChanged struct{ set playground.DiagnosticSet }

type timerFired struct{ gen uint64 }

type buildRequested struct{ snap playground.Snapshot }

type documentReset struct{}

type buildFinished struct {
	seq      uint64
	revision playground.Revision
	started  time.Time
	artifact string
	err      error
}

type flushRequest struct{ done chan struct{} }

// New validates opts and returns an idle pipeline.
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.Gate == nil:
		return nil, fmt.Errorf("pipeline requires a diagnostics gate")
	case opts.Builder == nil:
		return nil, fmt.Errorf("pipeline requires a builder")
	case opts.Sink == nil:
		return nil, fmt.Errorf("pipeline requires a sink")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Clock == nil {
		opts.Clock = clock.Wall{}
	}

	p := &Pipeline{
		doc:       opts.Document,
		debounce:  opts.Debounce,
		clock:     opts.Clock,
		gate:      opts.Gate,
		builder:   opts.Builder,
		sink:      opts.Sink,
		events:    opts.Events,
		logger:    opts.Logger,
		onOutcome: opts.OnOutcome,
		inbox:     newMailbox(),
	}
	p.current = playground.Snapshot{Document: opts.Document}
	return p, nil
}

// Document returns the document this pipeline serves.
func (p *Pipeline) Document() playground.DocumentID {
	return p.doc
}

// State returns the current state. It is safe to call from any goroutine.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// ContentChanged reports an edit.
func (p *Pipeline) ContentChanged(snap playground.Snapshot) {
	p.inbox.push(contentChanged{snap: snap})
}

// DiagnosticsChanged reports a recomputed diagnostic set.
func (p *Pipeline) DiagnosticsChanged(set playground.DiagnosticSet) {
	p.inbox.push(diagnosticsChanged{set: set})
}

// BuildNow runs one ungated build of snap, as done for the initial render.
func (p *Pipeline) BuildNow(snap playground.Snapshot) {
	p.inbox.push(buildRequested{snap: snap})
}

// Reset starts a new epoch for the document, as when an editor closes and
// reopens it and its revisions restart. The next edit is accepted whatever
// its revision, recorded diagnostics are forgotten and builds still in flight
// are reported stale.
func (p *Pipeline) Reset() {
	p.inbox.push(documentReset{})
}

// Run processes events until ctx is cancelled. In-flight loads are waited
// for before it returns.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.logger != nil {
		p.logger.Debug(ctx, "pipeline started", "document", p.doc, "debounce", p.debounce)
	}
	defer func() {
		p.stopTimer()
		p.inflight.Wait()
		if p.logger != nil {
			p.logger.Debug(ctx, "pipeline stopped", "document", p.doc, "last_seq", p.seq)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.inbox.notify:
			for _, msg := range p.inbox.drain() {
				p.handle(ctx, msg)
			}
		}
	}
}

// flush blocks until every event queued before the call has been handled.
func (p *Pipeline) flush(ctx context.Context) error {
	done := make(chan struct{})
	p.inbox.push(flushRequest{done: done})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) handle(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case contentChanged:
		p.onContent(ctx, m.snap)
	case diagnosticsChanged:
		p.onDiagnostics(ctx, m.set)
	case timerFired:
		p.onTimer(ctx, m.gen)
	case buildRequested:
		if m.snap.Document != p.doc {
			return
		}
		if p.current.Revision <= m.snap.Revision {
			p.current = m.snap
		}
		p.startBuild(ctx, m.snap, false)
	case buildFinished:
		p.onFinished(ctx, m)
	case documentReset:
		p.onReset(ctx)
	case flushRequest:
		close(m.done)
	}
}

func (p *Pipeline) onContent(ctx context.Context, snap playground.Snapshot) {
	if snap.Document != p.doc {
		if p.logger != nil {
			p.logger.Debug(ctx, "ignoring edit of another document", "document", snap.Document)
		}
		return
	}
	if p.edited && !snap.Supersedes(p.current) {
		return
	}

	p.current = snap
	p.edited = true
	p.stopTimer()
	p.setState(StatePendingContent)
}

func (p *Pipeline) onDiagnostics(ctx context.Context, set playground.DiagnosticSet) {
	if set.Document != p.doc {
		if p.logger != nil {
			p.logger.Debug(ctx, "ignoring diagnostics of another document", "document", set.Document)
		}
		return
	}

	p.gate.Record(set)

	if !p.edited {
		return
	}
	if set.Revision != p.current.Revision {
		if p.logger != nil {
			p.logger.Debug(ctx, "diagnostics do not match current revision",
				"diagnostics_revision", set.Revision, "revision", p.current.Revision)
		}
		return
	}

	p.setState(StatePendingDiagnostics)
	p.arm()
	p.setState(StateDebouncing)
}

func (p *Pipeline) onReset(ctx context.Context) {
	p.stopTimer()
	p.gate.Forget(p.doc)
	p.current = playground.Snapshot{Document: p.doc}
	p.edited = false
	// In-flight builds compare against seq, so they finish as stale.
	p.seq++
	p.setState(StateIdle)
	if p.logger != nil {
		p.logger.Debug(ctx, "document epoch reset", "document", p.doc)
	}
}

func (p *Pipeline) onTimer(ctx context.Context, gen uint64) {
	if gen != p.timerGen || p.timer == nil {
		return
	}
	p.timer = nil
	p.startBuild(ctx, p.current, true)
}

func (p *Pipeline) startBuild(ctx context.Context, snap playground.Snapshot, gated bool) {
	p.setState(StateBuilding)

	if gated {
		verdict := p.gate.Check(p.doc, snap.Revision)
		if verdict.Blocked {
			p.report(ctx, playground.Outcome{
				Revision: snap.Revision,
				Status:   playground.OutcomeGated,
				Reason:   string(verdict.Reason),
			})
			p.setState(StateIdle)
			return
		}
	}

	p.seq++
	seq := p.seq
	started := p.clock.Now()

	publishEvent(ctx, p.events, p.logger, ports.EventBuildStarted, map[string]interface{}{
		"seq":      seq,
		"revision": snap.Revision,
		"gated":    gated,
	})

	executable, err := p.builder.Compile(snap.Text)
	if err != nil {
		p.report(ctx, playground.Outcome{
			Seq:      seq,
			Revision: snap.Revision,
			Status:   playground.OutcomeFailed,
			Err:      err,
			Duration: p.clock.Now().Sub(started),
		})
		p.setState(StateIdle)
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		artifact, err := p.builder.Finish(ctx, executable)
		p.inbox.push(buildFinished{
			seq:      seq,
			revision: snap.Revision,
			started:  started,
			artifact: artifact,
			err:      err,
		})
	}()
}

func (p *Pipeline) onFinished(ctx context.Context, m buildFinished) {
	outcome := playground.Outcome{
		Seq:      m.seq,
		Revision: m.revision,
		Duration: p.clock.Now().Sub(m.started),
	}

	if m.seq != p.seq {
		outcome.Status = playground.OutcomeStale
		outcome.Reason = fmt.Sprintf("superseded by build %d", p.seq)
		p.report(ctx, outcome)
		return
	}

	switch {
	case m.err != nil:
		outcome.Status = playground.OutcomeFailed
		outcome.Err = m.err
	default:
		outcome.Artifact = m.artifact
		if pub, ok := p.sink.Offer(m.artifact); ok {
			outcome.Status = playground.OutcomePublished
			outcome.Changes = pub.Changes
		} else {
			outcome.Status = playground.OutcomeUnchanged
		}
	}

	p.report(ctx, outcome)
	if p.State() == StateBuilding {
		p.setState(StateIdle)
	}
}

func (p *Pipeline) report(ctx context.Context, outcome playground.Outcome) {
	fields := map[string]interface{}{
		"seq":         outcome.Seq,
		"revision":    outcome.Revision,
		"duration_ms": outcome.Duration.Milliseconds(),
	}
	var eventType string
	switch outcome.Status {
	case playground.OutcomePublished:
		eventType = ports.EventBuildPublished
		fields["added"] = outcome.Changes.Added
		fields["removed"] = outcome.Changes.Removed
	case playground.OutcomeUnchanged:
		eventType = ports.EventBuildUnchanged
	case playground.OutcomeGated:
		eventType = ports.EventBuildGated
		fields["reason"] = outcome.Reason
	case playground.OutcomeFailed:
		eventType = ports.EventBuildFailed
		fields["code"] = string(playground.CodeOf(outcome.Err))
		fields["error"] = outcome.Err
	case playground.OutcomeStale:
		eventType = ports.EventBuildStale
		fields["reason"] = outcome.Reason
	}
	publishEvent(ctx, p.events, p.logger, eventType, fields)

	if p.onOutcome != nil {
		p.onOutcome(outcome)
	}
}

func (p *Pipeline) arm() {
	p.stopTimer()
	p.timerGen++
	gen := p.timerGen
	p.timer = p.clock.AfterFunc(p.debounce, func() {
		p.inbox.push(timerFired{gen: gen})
	})
}

func (p *Pipeline) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}
