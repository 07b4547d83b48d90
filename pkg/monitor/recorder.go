package monitor

import "time"

// LabelProvider supplies run-scoped labels for request-level metrics. The
// pipeline runner implements it; client middleware queries it at call time so
// labels follow the active stage.
type LabelProvider interface {
	// RunID returns the ID of the run in flight, or "" outside a run.
	RunID() string
	// Stage returns the label of the stage currently executing.
	Stage() string
}

// Recorder receives observations from the Monitor and from the LLM client
// middleware. Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveStage records one pipeline stage completing.
	ObserveStage(stage string, success bool, duration time.Duration)

	// ObserveRequest records one generative API call.
	ObserveRequest(model, runID, stage string, promptTokens, completionTokens int, success bool, errorKind string, duration time.Duration)
}

// NopRecorder implements Recorder with no-op behavior for when metrics are disabled.
type NopRecorder struct{}

// Nop returns a recorder that discards all observations.
func Nop() Recorder {
	return &NopRecorder{}
}

// ObserveStage does nothing.
func (n *NopRecorder) ObserveStage(_ string, _ bool, _ time.Duration) {}

// ObserveRequest does nothing.
func (n *NopRecorder) ObserveRequest(_, _, _ string, _, _ int, _ bool, _ string, _ time.Duration) {
}
