// Package monitor times pipeline stage invocations, keeps an append-only
// record of outcomes, and aggregates them into summary statistics.
package monitor

import (
	"sync"
	"time"

	"copydesk/pkg/logx"
)

// Record captures a single tracked invocation. Records are append-only and
// never mutated after the fact.
type Record struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// Stats summarizes all records seen so far.
type Stats struct {
	Total       int           `json:"total"`
	AvgDuration time.Duration `json:"avgDuration"`
	SuccessRate float64       `json:"successRate"`
}

// Monitor collects Records and fans each observation out to a Recorder.
// Safe for concurrent use.
type Monitor struct {
	mu       sync.Mutex
	records  []Record
	recorder Recorder
	logger   *logx.Logger
}

// New creates a Monitor. A nil recorder discards fan-out observations.
func New(recorder Recorder, logger *logx.Logger) *Monitor {
	if recorder == nil {
		recorder = Nop()
	}
	if logger == nil {
		logger = logx.NewLogger("monitor")
	}
	return &Monitor{recorder: recorder, logger: logger}
}

// Observe appends a record for a completed operation.
func (m *Monitor) Observe(name string, duration time.Duration, err error) {
	rec := Record{Name: name, Duration: duration, Success: err == nil}
	if err != nil {
		rec.Error = err.Error()
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()

	m.recorder.ObserveStage(name, rec.Success, duration)
	m.logger.Debug("%s: success=%v duration=%dms", name, rec.Success, duration.Milliseconds())
}

// Recorder returns the fan-out target, never nil. Callers instrumenting
// their own operations share it so all observations land in one place.
func (m *Monitor) Recorder() Recorder {
	return m.recorder
}

// Records returns a copy of all records in observation order.
func (m *Monitor) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record{}, m.records...)
}

// Stats aggregates the records seen so far. With no records it returns the
// zero Stats rather than dividing by zero.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) == 0 {
		return Stats{}
	}

	var total time.Duration
	succeeded := 0
	for i := range m.records {
		total += m.records[i].Duration
		if m.records[i].Success {
			succeeded++
		}
	}

	return Stats{
		Total:       len(m.records),
		AvgDuration: total / time.Duration(len(m.records)),
		SuccessRate: float64(succeeded) / float64(len(m.records)),
	}
}

// Reset drops all records, keeping the recorder wiring.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}

// Track runs fn, records its duration and outcome under name, and passes the
// result and error through unchanged.
func Track[T any](m *Monitor, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	m.Observe(name, time.Since(start), err)
	return result, err
}
