// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeNoCredential = "no_credential"
	OutcomeFailure      = "failure"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacttriage_classifications_total",
			Help: "Total number of classification requests by outcome",
		},
		[]string{"outcome"},
	)

	AnalyzerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contacttriage_analyzer_request_duration_seconds",
			Help:    "Duration of model requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
		[]string{"status"},
	)

	CredentialChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacttriage_credential_changes_total",
			Help: "Total number of credential store and clear operations",
		},
		[]string{"action"},
	)
)
