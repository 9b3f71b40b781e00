// Package metrics defines Prometheus metrics for the countledger service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "countledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countledger_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countledger_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "countledger_audit_queue_depth",
			Help: "Current audit event queue depth",
		},
	)

	AuditEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "countledger_audit_events_dropped_total",
			Help: "Audit events dropped because the queue was full",
		},
	)

	AuditEventsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "countledger_audit_events_recorded_total",
			Help: "Audit events persisted to the trail",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "countledger_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	SignInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countledger_signins_total",
			Help: "Sign-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countledger_registrations_total",
			Help: "Tenant registrations by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AuditQueueDepth, AuditEventsDropped, AuditEventsRecorded,
		WSConnections,
		SignInsTotal, RegistrationsTotal,
	)
}
