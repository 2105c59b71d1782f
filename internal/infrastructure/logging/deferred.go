package logging

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const defaultDeferredLimit = 1000

type deferredEntry struct {
	ctx    context.Context
	level  zerolog.Level
	msg    string
	fields []interface{}
}

// Deferred holds log entries while the editor owns the terminal and replays
// them once it is released. It keeps the newest entries up to its limit.
type Deferred struct {
	mu      sync.Mutex
	ring    []deferredEntry
	start   int
	count   int
	dropped int
}

// NewDeferred returns a holder for at most limit entries (1000 when limit <= 0).
func NewDeferred(limit int) *Deferred {
	if limit <= 0 {
		limit = defaultDeferredLimit
	}
	return &Deferred{ring: make([]deferredEntry, limit)}
}

// Logger returns a ports.Logger that records into d.
func (d *Deferred) Logger() ports.Logger {
	return &deferredLogger{holder: d}
}

// Len returns the number of held entries.
func (d *Deferred) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Dropped returns how many entries were overwritten since the last replay.
func (d *Deferred) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Replay writes the held entries to delegate in order and empties d.
func (d *Deferred) Replay(delegate ports.Logger) {
	if delegate == nil {
		return
	}

	d.mu.Lock()
	entries := make([]deferredEntry, 0, d.count)
	for i := 0; i < d.count; i++ {
		entries = append(entries, d.ring[(d.start+i)%len(d.ring)])
	}
	dropped := d.dropped
	d.start, d.count, d.dropped = 0, 0, 0
	d.mu.Unlock()

	if dropped > 0 {
		delegate.Warn(context.Background(), "log entries dropped while the editor was open", "dropped", dropped)
	}
	for _, e := range entries {
		switch e.level {
		case zerolog.DebugLevel:
			delegate.Debug(e.ctx, e.msg, e.fields...)
		case zerolog.WarnLevel:
			delegate.Warn(e.ctx, e.msg, e.fields...)
		case zerolog.ErrorLevel:
			delegate.Error(e.ctx, e.msg, e.fields...)
		default:
			delegate.Info(e.ctx, e.msg, e.fields...)
		}
	}
}

func (d *Deferred) record(e deferredEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.count < len(d.ring) {
		d.ring[(d.start+d.count)%len(d.ring)] = e
		d.count++
		return
	}
	d.ring[d.start] = e
	d.start = (d.start + 1) % len(d.ring)
	d.dropped++
}

type deferredLogger struct {
	holder *Deferred
	fields []interface{}
}

func (l *deferredLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, zerolog.DebugLevel, msg, fields)
}

func (l *deferredLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, zerolog.InfoLevel, msg, fields)
}

func (l *deferredLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, zerolog.WarnLevel, msg, fields)
}

func (l *deferredLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, zerolog.ErrorLevel, msg, fields)
}

func (l *deferredLogger) With(fields ...interface{}) ports.Logger {
	return &deferredLogger{holder: l.holder, fields: append(append([]interface{}{}, l.fields...), fields...)}
}

func (l *deferredLogger) record(ctx context.Context, level zerolog.Level, msg string, fields []interface{}) {
	l.holder.record(deferredEntry{
		ctx:    ctx,
		level:  level,
		msg:    msg,
		fields: append(append([]interface{}{}, l.fields...), fields...),
	})
}
