// Package telemetry provides Prometheus metrics for the API service.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks inbound HTTP requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shieldads",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shieldads",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// QuotaRejectionsTotal tracks plan quota rejections by resource
	QuotaRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shieldads",
			Subsystem: "quota",
			Name:      "rejections_total",
			Help:      "Total number of requests rejected by plan quota checks",
		},
		[]string{"tenant_id", "resource"},
	)

	// SuspensionsRecordedTotal tracks suspension records created
	SuspensionsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shieldads",
			Subsystem: "suspensions",
			Name:      "recorded_total",
			Help:      "Total number of suspensions recorded",
		},
		[]string{"tenant_id", "suspension_type"},
	)

	// RateLimitHits tracks mutation rate limit hits
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shieldads",
			Subsystem: "ratelimit",
			Name:      "hits_total",
			Help:      "Total number of rate limit hits",
		},
		[]string{"tenant_id"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shieldads",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)
)

// RecordQuotaRejection records a plan quota rejection
func RecordQuotaRejection(tenantID, resource string) {
	QuotaRejectionsTotal.WithLabelValues(tenantID, resource).Inc()
}

// RecordSuspension records a suspension creation
func RecordSuspension(tenantID, suspensionType string) {
	SuspensionsRecordedTotal.WithLabelValues(tenantID, suspensionType).Inc()
}
