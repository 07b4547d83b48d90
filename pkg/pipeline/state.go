package pipeline

import "errors"

// State identifies where a pipeline run is in its lifecycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateWriting    State = "WRITING"
	StateReviewing  State = "REVIEWING"
	StateOptimizing State = "OPTIMIZING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// ErrInvalidTransition indicates an illegal state transition was attempted.
var ErrInvalidTransition = errors.New("invalid pipeline transition")

// Transitions defines the allowed forward path for each state. The pipeline
// is strictly linear; DONE and FAILED park until the next run resets to IDLE.
var Transitions = map[State][]State{
	StateIdle:       {StateWriting},
	StateWriting:    {StateReviewing},
	StateReviewing:  {StateOptimizing},
	StateOptimizing: {StateDone},
	StateDone:       {StateIdle},
	StateFailed:     {StateIdle},
}

// CanTransition reports whether moving from one state to another is allowed.
// FAILED is an absorbing state reachable from any active state.
func CanTransition(from, to State) bool {
	if to == StateFailed {
		return from != StateIdle && from != StateFailed
	}

	allowed, ok := Transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
