// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Cycle metrics
	CyclesTotal     *prometheus.CounterVec
	CycleDuration   prometheus.Histogram
	PairsProcessed  prometheus.Counter
	PairsSaved      prometheus.Counter
	PairsFiltered   prometheus.Counter
	PairsFreshSkips prometheus.Counter

	// Filter metrics
	FilterRejections *prometheus.CounterVec

	// Upstream metrics
	UpstreamRequestLatency *prometheus.HistogramVec
	UpstreamRequestErrors  *prometheus.CounterVec

	// Alert metrics
	AlertsEmitted       prometheus.Counter
	AlertNotifyFailures prometheus.Counter

	// Health metrics
	LastSuccessfulCycle prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_monitor"
	}

	return &Metrics{
		CyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "cycles_total",
			Help:      "Total number of ingestion cycles by status",
		}, []string{"status"}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "cycle_duration_seconds",
			Help:      "Ingestion cycle duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		PairsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "pairs_processed_total",
			Help:      "Total number of candidate pairs processed",
		}),
		PairsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "pairs_saved_total",
			Help:      "Total number of pairs upserted",
		}),
		PairsFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "pairs_filtered_total",
			Help:      "Total number of pairs rejected by the filter",
		}),
		PairsFreshSkips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "pairs_fresh_skips_total",
			Help:      "Total number of pairs skipped inside the freshness window",
		}),
		FilterRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "rejections_total",
			Help:      "Total number of filter rejections by stage",
		}, []string{"stage"}),
		UpstreamRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		UpstreamRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_errors_total",
			Help:      "Total number of upstream API request errors",
		}, []string{"endpoint"}),
		AlertsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "emitted_total",
			Help:      "Total number of alerts emitted",
		}),
		AlertNotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "notify_failures_total",
			Help:      "Total number of failed alert deliveries",
		}),
		LastSuccessfulCycle: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_cycle_timestamp",
			Help:      "Unix timestamp of last successful ingestion cycle",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCycle records one cycle outcome.
func RecordCycle(status string, durationSeconds float64) {
	DefaultMetrics.CyclesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.CycleDuration.Observe(durationSeconds)
}

// RecordPairOutcome updates the per-pair counters.
func RecordPairOutcome(processed, saved, filtered, freshSkips int) {
	DefaultMetrics.PairsProcessed.Add(float64(processed))
	DefaultMetrics.PairsSaved.Add(float64(saved))
	DefaultMetrics.PairsFiltered.Add(float64(filtered))
	DefaultMetrics.PairsFreshSkips.Add(float64(freshSkips))
}

// RecordFilterRejection increments the rejection counter for a stage.
func RecordFilterRejection(stage string) {
	DefaultMetrics.FilterRejections.WithLabelValues(stage).Inc()
}

// RecordUpstreamRequest records latency and errors for an upstream call.
func RecordUpstreamRequest(endpoint string, seconds float64, err error) {
	DefaultMetrics.UpstreamRequestLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.UpstreamRequestErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordAlert records an emitted alert and, when delivery failed, the
// failure.
func RecordAlert(notifyErr error) {
	DefaultMetrics.AlertsEmitted.Inc()
	if notifyErr != nil {
		DefaultMetrics.AlertNotifyFailures.Inc()
	}
}

// MarkCycleSuccess sets the last successful cycle timestamp.
func MarkCycleSuccess(unixSeconds int64) {
	DefaultMetrics.LastSuccessfulCycle.Set(float64(unixSeconds))
}
