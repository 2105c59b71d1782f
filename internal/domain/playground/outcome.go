package playground

import (
	"time"

	"github.com/alexisbeaulieu97/varplay/pkg/diff"
)

// OutcomeStatus classifies how a pipeline run ended.
type OutcomeStatus string

const (
	OutcomePublished OutcomeStatus = "published"
	OutcomeUnchanged OutcomeStatus = "unchanged"
	OutcomeGated     OutcomeStatus = "gated"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeStale     OutcomeStatus = "stale"
)

// Outcome is the result of one pipeline run.
type Outcome struct {
	Seq      uint64
	Revision Revision
	Status   OutcomeStatus
	Artifact string
	Changes  diff.Summary
	Reason   string
	Err      error
	Duration time.Duration
}

// Visible reports whether the outcome changed the output pane.
func (o Outcome) Visible() bool {
	return o.Status == OutcomePublished
}
