// Package metrics holds the Prometheus collectors for the coaching service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CoachingRequests counts scored messages by endpoint and badge.
	CoachingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachlab_coaching_requests_total",
			Help: "Total number of scored coaching messages",
		},
		[]string{"endpoint", "badge"},
	)

	// CoachingScore tracks the distribution of total scores.
	CoachingScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coachlab_coaching_score",
			Help:    "Distribution of coaching scores",
			Buckets: []float64{10, 20, 30, 40, 50, 65, 80, 90, 100},
		},
	)

	// EnrichmentOutcomes counts enrichment attempts by provider and outcome.
	EnrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachlab_enrichment_total",
			Help: "Enrichment attempts by outcome",
		},
		[]string{"provider", "outcome"}, // outcome: replaced, unchanged, error, rate_limited
	)

	// EnrichmentLatency tracks provider call duration.
	EnrichmentLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coachlab_enrichment_latency_seconds",
			Help:    "Enrichment provider latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"provider"},
	)

	// ArchiveFailures counts session archive writes that failed.
	ArchiveFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachlab_archive_failures_total",
			Help: "Session archive failures by stage",
		},
		[]string{"stage"}, // stage: blob, index
	)

	// RequestLatency tracks HTTP handler latency.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coachlab_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// Enrichment outcome labels.
const (
	OutcomeReplaced    = "replaced"
	OutcomeUnchanged   = "unchanged"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// RecordCoaching records one scored message.
func RecordCoaching(endpoint, badge string, score int) {
	CoachingRequests.WithLabelValues(endpoint, badge).Inc()
	CoachingScore.Observe(float64(score))
}

// RecordEnrichment records one enrichment attempt.
func RecordEnrichment(provider, outcome string, d time.Duration) {
	EnrichmentOutcomes.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeRateLimited {
		EnrichmentLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// RecordArchiveFailure records a failed archive write.
func RecordArchiveFailure(stage string) {
	ArchiveFailures.WithLabelValues(stage).Inc()
}

// RecordRequest records one HTTP request.
func RecordRequest(route string, status int, d time.Duration) {
	RequestLatency.WithLabelValues(route, statusClass(status)).Observe(d.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
