package processing

import (
	"time"

	"github.com/pantopia/console/internal/pantopia"
)

// State is a step of the processing lifecycle as seen by the console.
type State int

const (
	Idle State = iota
	Submitting
	Queued
	Extracting
	Processed
	SubmitFailed
	Stalled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Queued:
		return "queued"
	case Extracting:
		return "extracting"
	case Processed:
		return "processed"
	case SubmitFailed:
		return "submit failed"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Progress is the percentage shown for s. Stalled reports -1 because it keeps
// whatever the run had reached.
func (s State) Progress() int {
	switch s {
	case Submitting:
		return 15
	case Queued:
		return 30
	case Extracting:
		return 60
	case Processed:
		return 100
	case Stalled:
		return -1
	default:
		return 0
	}
}

// Terminal reports whether the poll loop stops in s.
func (s State) Terminal() bool {
	return s == Processed || s == Stalled || s == SubmitFailed
}

func (s State) rank() int {
	switch s {
	case Submitting:
		return 1
	case Queued:
		return 2
	case Extracting:
		return 3
	case Processed:
		return 4
	default:
		return 0
	}
}

// FromStatus maps a backend status to the state it announces.
func FromStatus(status pantopia.Status) State {
	switch status {
	case pantopia.StatusInQueue:
		return Queued
	case pantopia.StatusExtracting:
		return Extracting
	case pantopia.StatusProcessed:
		return Processed
	default:
		return Idle
	}
}

// advance applies a polled status to cur. Reports that would move the run
// backwards keep the current state.
func advance(cur State, status pantopia.Status) State {
	target := FromStatus(status)
	if target.rank() < cur.rank() {
		return cur
	}
	return target
}

// Update is a point-in-time copy of a Machine.
type Update struct {
	DataSourceID string
	State        State
	Status       pantopia.Status
	Progress     int
	Failures     int
	Err          error
	// NextPoll is the wait before the next status call, zero when stopped.
	NextPoll time.Duration
}

// Done reports whether the run has finished one way or another.
func (u Update) Done() bool {
	return u.State.Terminal()
}

// Message returns the user-facing line for u.
func (u Update) Message() string {
	switch u.State {
	case Idle:
		return "Not processed yet"
	case Submitting:
		return "Submitting data source…"
	case Queued:
		return "Waiting in queue"
	case Extracting:
		return "Extracting content"
	case Processed:
		return "Processing complete"
	case SubmitFailed:
		return SubmitFailedMessage
	case Stalled:
		return "Status checks keep failing, press r to retry"
	default:
		return ""
	}
}
