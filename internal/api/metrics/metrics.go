// Package metrics defines and registers all custom Prometheus metrics for
// the bookings API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookings"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthDecisionsTotal counts guard decisions on protected routes.
// Labels:
//   - outcome: "allowed", "unauthenticated", "forbidden", "misconfigured"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsInitializedTotal counts gateway checkout sessions opened.
var PaymentsInitializedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_initialized_total",
		Help:      "Total number of payment transactions initialized with the gateway.",
	},
)

// PaymentsVerifiedTotal counts verify outcomes as reported by the gateway.
// Label:
//   - status: the gateway-reported transaction status (e.g. "success", "failed")
var PaymentsVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_verified_total",
		Help:      "Total number of payment verifications, by gateway-reported status.",
	},
	[]string{"status"},
)

// WebhookDedupTotal counts webhook deduplication decisions.
// Label:
//   - result: "hit" (redelivery, skipped) or "miss" (new delivery, processed)
var WebhookDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_dedup_total",
		Help:      "Total number of webhook deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// WebhookQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var WebhookQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "webhook_queue_depth",
		Help:      "Current number of webhook events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// GatewayRequestDuration measures gateway round-trip latency.
// Labels:
//   - op: "initialize" or "verify"
//   - result: "ok" or "error"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of HTTP calls to the payment gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "result"},
)

// BookingsCreatedTotal counts newly created bookings.
// Label:
//   - service: the booked service type
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by service.",
	},
	[]string{"service"},
)
