package playground

import "fmt"

// Position is a zero-based line and column (in bytes) inside a document.
type Position struct {
	Line   int
	Column int
}

// Range spans two positions; End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Diagnostic is a single analyzer finding.
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    Range
	Source   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line+1, d.Range.Start.Column+1, d.Severity, d.Message)
}

// DiagnosticSet is the complete result of one analysis run. Sets are replaced
// wholesale, never mutated item by item.
type DiagnosticSet struct {
	Document DocumentID
	Revision Revision
	Items    []Diagnostic
}

// Errors returns the blocking subset of the set.
func (s DiagnosticSet) Errors() []Diagnostic {
	var out []Diagnostic
	for _, item := range s.Items {
		if item.Severity.Blocking() {
			out = append(out, item)
		}
	}
	return out
}

// ErrorCount returns the number of blocking diagnostics.
func (s DiagnosticSet) ErrorCount() int {
	count := 0
	for _, item := range s.Items {
		if item.Severity.Blocking() {
			count++
		}
	}
	return count
}

// HasErrors reports whether any blocking diagnostic is present.
func (s DiagnosticSet) HasErrors() bool {
	return s.ErrorCount() > 0
}

// Matches reports whether the set was computed for the given snapshot.
func (s DiagnosticSet) Matches(snap Snapshot) bool {
	return s.Document == snap.Document && s.Revision == snap.Revision
}
