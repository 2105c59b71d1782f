package tui

import "github.com/alexisbeaulieu97/varplay/internal/domain/playground"

// OutputMsg carries a newly published artifact.
type OutputMsg struct {
	Artifact string
}

// IndicatorMsg switches the "updated" indicator.
type IndicatorMsg struct {
	Active bool
}

// OutcomeMsg reports how a pipeline run ended.
type OutcomeMsg struct {
	Outcome playground.Outcome
}

// DiagnosticsMsg carries a recomputed diagnostic set for the editor text.
type DiagnosticsMsg struct {
	Set playground.DiagnosticSet
}
