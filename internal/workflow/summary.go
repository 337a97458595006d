package workflow

import (
	"time"
)

// OutcomeKind classifies a record that did not advance during a pass.
type OutcomeKind string

const (
	// OutcomeRetry marks a record whose step failed; it is retried next pass.
	OutcomeRetry OutcomeKind = "retry"
	// OutcomeWaiting marks a copied record with no completed counterpart yet.
	OutcomeWaiting OutcomeKind = "waiting"
)

// Outcome describes why a record stayed at its status.
type Outcome struct {
	Path   string
	Phase  string
	Kind   OutcomeKind
	Reason string
	Err    error
}

// Counts is the per-pass tally handed to notifiers.
type Counts struct {
	New       int
	Copied    int
	Completed int
}

// Summary reports the result of one Run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	New       int
	Copied    int
	Completed int

	Outcomes []Outcome
}

// Counts returns the new/copied/completed triple for this pass.
func (s Summary) Counts() Counts {
	return Counts{New: s.New, Copied: s.Copied, Completed: s.Completed}
}

// OutcomeCount returns how many records ended the pass with kind.
func (s Summary) OutcomeCount(kind OutcomeKind) int {
	count := 0
	for _, outcome := range s.Outcomes {
		if outcome.Kind == kind {
			count++
		}
	}
	return count
}

func (s *Summary) addOutcome(phase, path string, kind OutcomeKind, err error) {
	outcome := Outcome{Path: path, Phase: phase, Kind: kind, Err: err}
	if err != nil {
		outcome.Reason = err.Error()
	}
	s.Outcomes = append(s.Outcomes, outcome)
}
