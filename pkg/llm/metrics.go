package llm

import (
	"context"
	"time"

	"copydesk/pkg/logx"
	"copydesk/pkg/monitor"
)

// MetricsClient wraps a Client and reports request latency, token usage, and
// outcome to a monitor.Recorder. Results and errors pass through unchanged.
type MetricsClient struct {
	next     Client
	recorder monitor.Recorder
	labels   monitor.LabelProvider
	logger   *logx.Logger
}

// NewMetricsClient creates a metrics wrapper around next. A nil recorder
// discards observations; a nil labels provider records empty run/stage
// labels.
func NewMetricsClient(next Client, recorder monitor.Recorder, labels monitor.LabelProvider, logger *logx.Logger) *MetricsClient {
	if recorder == nil {
		recorder = monitor.Nop()
	}
	if logger == nil {
		logger = logx.NewLogger("llm.metrics")
	}
	return &MetricsClient{next: next, recorder: recorder, labels: labels, logger: logger}
}

// Generate implements Client.
func (m *MetricsClient) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result, err := m.next.Generate(ctx, req)
	duration := time.Since(start)

	var promptTokens, completionTokens int
	if err == nil && result != nil {
		promptTokens = CountTokens(req.System) + CountTokens(req.Prompt)
		completionTokens = CountTokens(result.Text)
	}

	errorKind := ""
	if err != nil {
		errorKind = KindOf(err).String()
	}

	runID, stage := "", ""
	if m.labels != nil {
		runID, stage = m.labels.RunID(), m.labels.Stage()
	}

	m.recorder.ObserveRequest(m.next.ModelName(), runID, stage,
		promptTokens, completionTokens, err == nil, errorKind, duration)

	status := "success"
	if err != nil {
		status = "error"
	}
	m.logger.Debug("request: model=%s stage=%s tokens=%d+%d status=%s duration=%dms",
		m.next.ModelName(), stage, promptTokens, completionTokens, status, duration.Milliseconds())

	return result, err
}

// ModelName delegates to the wrapped client.
func (m *MetricsClient) ModelName() string {
	return m.next.ModelName()
}
