package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	stagesTotal     *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a Prometheus-based recorder registered with
// the default registry. Construct it at most once per process.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		stagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_stages_total",
				Help: "Total number of pipeline stage executions by stage and status",
			},
			[]string{"stage", "status"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by model, run, stage, and status",
			},
			[]string{"model", "run_id", "stage", "status", "error_kind"},
		),
		tokensTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total number of tokens used in LLM requests",
			},
			[]string{"model", "run_id", "stage", "type"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "stage"},
		),
	}
}

// ObserveStage records one pipeline stage completing.
func (p *PrometheusRecorder) ObserveStage(stage string, success bool, duration time.Duration) {
	p.stagesTotal.WithLabelValues(stage, statusLabel(success)).Inc()
	p.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveRequest records one generative API call.
func (p *PrometheusRecorder) ObserveRequest(model, runID, stage string, promptTokens, completionTokens int, success bool, errorKind string, duration time.Duration) {
	p.requestsTotal.WithLabelValues(model, runID, stage, statusLabel(success), errorKind).Inc()

	// Token counts are only meaningful on success.
	if success {
		p.tokensTotal.WithLabelValues(model, runID, stage, "prompt").Add(float64(promptTokens))
		p.tokensTotal.WithLabelValues(model, runID, stage, "completion").Add(float64(completionTokens))
	}

	p.requestDuration.WithLabelValues(model, stage).Observe(duration.Seconds())
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
