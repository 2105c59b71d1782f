// Package gate decides whether the current editor state may be built.
package gate

import (
	"sync"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

// Reason explains a verdict.
type Reason string

const (
	ReasonClear   Reason = "clear"
	ReasonErrors  Reason = "blocking_errors"
	ReasonPending Reason = "diagnostics_pending"
	ReasonStale   Reason = "diagnostics_stale"
)

// Verdict is the gate's answer for one document revision.
type Verdict struct {
	Blocked bool
	Reason  Reason
	Errors  []playground.Diagnostic
}

// Gate keeps the latest diagnostic set per document. Sets only replace older
// or equal revisions, so a late analysis of an earlier edit never overwrites
// a newer one.
type Gate struct {
	mu   sync.RWMutex
	sets map[playground.DocumentID]playground.DiagnosticSet
}

// New returns an empty gate.
func New() *Gate {
	return &Gate{sets: make(map[playground.DocumentID]playground.DiagnosticSet)}
}

// Record stores set as the current diagnostics of its document. It reports
// false when a newer revision is already recorded.
func (g *Gate) Record(set playground.DiagnosticSet) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, ok := g.sets[set.Document]; ok && current.Revision > set.Revision {
		return false
	}
	g.sets[set.Document] = set
	return true
}

// Forget drops everything recorded for doc.
func (g *Gate) Forget(doc playground.DocumentID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sets, doc)
}

// Latest returns the most recent set recorded for doc.
func (g *Gate) Latest(doc playground.DocumentID) (playground.DiagnosticSet, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set, ok := g.sets[doc]
	return set, ok
}

// Check evaluates doc at revision. Diagnostics recorded for another document
// are never consulted. A missing or lagging set is treated as blocking: the
// gate cannot vouch for text nobody analyzed.
func (g *Gate) Check(doc playground.DocumentID, revision playground.Revision) Verdict {
	g.mu.RLock()
	set, ok := g.sets[doc]
	g.mu.RUnlock()

	switch {
	case !ok:
		return Verdict{Blocked: true, Reason: ReasonPending}
	case set.Revision < revision:
		return Verdict{Blocked: true, Reason: ReasonStale}
	}

	if errs := set.Errors(); len(errs) > 0 {
		return Verdict{Blocked: true, Reason: ReasonErrors, Errors: errs}
	}
	return Verdict{Reason: ReasonClear}
}

// HasBlockingErrors reports whether building doc at revision must be skipped.
func (g *Gate) HasBlockingErrors(doc playground.DocumentID, revision playground.Revision) bool {
	return g.Check(doc, revision).Blocked
}
