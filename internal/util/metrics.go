package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registrations_created_total",
		Help: "Total number of registrations created",
	})

	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Total number of checkout sessions created",
	}, []string{"mode"})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout session creations",
	}, []string{"reason"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Total number of gateway webhook events received",
	}, []string{"type", "outcome"})

	PaymentsReconciledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_reconciled_total",
		Help: "Total number of payments reconciled onto registrations",
	}, []string{"payment_status"})

	LedgerAppendFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_append_failed_total",
		Help: "Total number of ledger writes that failed after a registration update",
	})

	FallbackReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fallback_reads_total",
		Help: "Total number of reads served from fixture data",
	}, []string{"resource"})

	WebhookProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "webhook_processing_latency_seconds",
		Help:    "Latency of webhook event processing",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
