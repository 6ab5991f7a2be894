package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the service's Prometheus metrics:
//   - evaluation volume, outcome and latency by language
//   - the distribution of final criterion scores
//   - clarification rule adjustments
//   - result cache effectiveness
//   - persistence enqueue and worker outcomes
//   - HTTP request latency
//
// A nil *Metrics is valid and records nothing, so the core can run without a registry.
//
// Usage:
//
//	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
//	metrics.RecordEvaluation("ar", "success", time.Since(start).Seconds())
type Metrics struct {
	// EvaluationCounter counts evaluations.
	// Labels: language (ar|en), outcome (success|invalid|error)
	EvaluationCounter *prometheus.CounterVec

	// EvaluationDuration measures the evaluation pipeline in seconds.
	// Labels: language
	EvaluationDuration *prometheus.HistogramVec

	// CriterionScores counts final scores per criterion.
	// Labels: criterion, score (1-4)
	CriterionScores *prometheus.CounterVec

	// AdjustmentCounter counts scores moved by clarification rules.
	// Labels: criterion
	AdjustmentCounter *prometheus.CounterVec

	// CacheLookups counts result cache lookups.
	// Labels: result (hit|miss|error)
	CacheLookups *prometheus.CounterVec

	// EnqueueCounter counts visit persistence enqueues.
	// Labels: status (ok|error)
	EnqueueCounter *prometheus.CounterVec

	// WorkerMessages counts messages handled by the persistence worker.
	// Labels: status (persisted|duplicate|requeued|dlq)
	WorkerMessages *prometheus.CounterVec

	// HTTPRequestDuration measures HTTP API request latency.
	// Labels: method, path, status_code
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestCounter counts HTTP requests.
	// Labels: method, path, status_code
	HTTPRequestCounter *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EvaluationCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_evaluations_total",
				Help: "Total number of lesson evaluations by language and outcome",
			},
			[]string{"language", "outcome"},
		),

		EvaluationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eleot_evaluation_duration_seconds",
				Help:    "Duration of the evaluation pipeline in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"language"},
		),

		CriterionScores: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_criterion_scores_total",
				Help: "Final criterion scores by criterion and score",
			},
			[]string{"criterion", "score"},
		),

		AdjustmentCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_clarification_adjustments_total",
				Help: "Scores adjusted by clarification rules by criterion",
			},
			[]string{"criterion"},
		),

		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_cache_lookups_total",
				Help: "Evaluation result cache lookups by result",
			},
			[]string{"result"},
		),

		EnqueueCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_visit_enqueues_total",
				Help: "Visit persistence enqueues by status",
			},
			[]string{"status"},
		),

		WorkerMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_worker_messages_total",
				Help: "Persistence worker messages by status",
			},
			[]string{"status"},
		),

		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eleot_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eleot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// RecordEvaluation records one evaluation. durationSeconds is ignored for
// outcomes that did not run the pipeline.
func (m *Metrics) RecordEvaluation(language, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.EvaluationCounter.WithLabelValues(language, outcome).Inc()
	if outcome == "success" {
		m.EvaluationDuration.WithLabelValues(language).Observe(durationSeconds)
	}
}

func (m *Metrics) RecordCriterionScore(criterionID string, score int) {
	if m == nil {
		return
	}
	m.CriterionScores.WithLabelValues(criterionID, strconv.Itoa(score)).Inc()
}

func (m *Metrics) RecordAdjustment(criterionID string) {
	if m == nil {
		return
	}
	m.AdjustmentCounter.WithLabelValues(criterionID).Inc()
}

// RecordCacheLookup records a cache lookup result: hit, miss or error.
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordEnqueue(status string) {
	if m == nil {
		return
	}
	m.EnqueueCounter.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordWorkerMessage(status string) {
	if m == nil {
		return
	}
	m.WorkerMessages.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records metrics for an HTTP request.
//
// Example:
//
//	metrics.RecordHTTPRequest("POST", "/api/v1/evaluations", "200", time.Since(start).Seconds())
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestCounter.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
}
