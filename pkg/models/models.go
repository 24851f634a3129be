// Package models defines the data types shared between the capture engine,
// the exporters and the CLI.
package models

import "time"

// Outcome is the result of a single capture attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// TerminalState is the definite state a run finishes in
type TerminalState string

const (
	// StateCompleted means the configured number of items was captured.
	StateCompleted TerminalState = "completed"
	// StateExhausted means the feed stopped yielding new items, or the
	// scan-round budget ran out before it did.
	StateExhausted TerminalState = "exhausted"
	// StateAborted means a non-recoverable driver error or cancellation
	// ended the run early.
	StateAborted TerminalState = "aborted"
)

// CaptureRecord describes one capture attempt. Records are appended in
// discovery order and never mutated afterwards.
type CaptureRecord struct {
	Identity  string    `json:"identity"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`

	// Err is the underlying failure for failed records. It is kept for
	// in-process classification and never serialized.
	Err error `json:"-"`
}

// RunResult is the final report of one capture run
type RunResult struct {
	Query      string          `json:"query"`
	State      TerminalState   `json:"state"`
	Reason     string          `json:"reason,omitempty"`
	Records    []CaptureRecord `json:"records"`
	Rounds     int             `json:"rounds"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Successes counts the records with a success outcome
func (r *RunResult) Successes() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome == OutcomeSuccess {
			n++
		}
	}
	return n
}

// Failures counts the records with a failed outcome
func (r *RunResult) Failures() int {
	return len(r.Records) - r.Successes()
}

// Succeeded reports whether the run ended in a non-aborted state
func (r *RunResult) Succeeded() bool {
	return r.State == StateCompleted || r.State == StateExhausted
}

// Analysis holds the enrichment output for one captured file
type Analysis struct {
	Filename      string   `json:"filename"`
	Path          string   `json:"path"`
	ExtractedText string   `json:"extracted_text"`
	Caption       string   `json:"caption"`
	Keywords      []string `json:"keywords"`
}
