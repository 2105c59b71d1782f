package ports

import (
	"context"
	"time"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

// Compiler turns editor source into executable text. It must not panic on
// invalid input; failures are returned as errors.
type Compiler interface {
	Compile(source string) (string, error)
}

// Analyzer computes the diagnostics for one snapshot. The returned set is
// tagged with the snapshot's document and revision.
type Analyzer interface {
	Diagnose(snap playground.Snapshot) playground.DiagnosticSet
}

// Evaluator instantiates executable text as an isolated module and returns its
// exports. Overlapping calls must each resolve to their own input.
type Evaluator interface {
	Load(ctx context.Context, executable string) (playground.Exports, error)
}

// Transformer derives the output artifact from a module's exports.
type Transformer interface {
	Name() string
	Transform(exports playground.Exports) (string, error)
}

// OutputSurface is the read-only pane the artifact is shown on.
type OutputSurface interface {
	ShowOutput(artifact string)
	ShowIndicator(active bool)
}

// Timer is a pending clock callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Production code uses the wall clock; tests drive
// a fake one.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
