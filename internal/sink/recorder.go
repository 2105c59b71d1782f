package sink

import (
	"sync"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

// Recorder is an OutputSurface that remembers everything shown on it.
type Recorder struct {
	mu        sync.Mutex
	outputs   []string
	indicator []bool
}

// ShowOutput implements ports.OutputSurface.
func (r *Recorder) ShowOutput(artifact string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, artifact)
}

// ShowIndicator implements ports.OutputSurface.
func (r *Recorder) ShowIndicator(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicator = append(r.indicator, active)
}

// Outputs returns every artifact shown, oldest first.
func (r *Recorder) Outputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outputs...)
}

// Last returns the artifact currently shown.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outputs) == 0 {
		return "", false
	}
	return r.outputs[len(r.outputs)-1], true
}

// Indicator returns the sequence of indicator transitions.
func (r *Recorder) Indicator() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.indicator...)
}

// IndicatorOn reports the current indicator state.
func (r *Recorder) IndicatorOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.indicator) > 0 && r.indicator[len(r.indicator)-1]
}

var _ ports.OutputSurface = (*Recorder)(nil)
