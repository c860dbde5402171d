// Package metrics defines all custom Prometheus metrics for the social
// network API. It is the single source of truth for metric names, labels and
// help strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - result: "success" or a short failure reason
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token rotations by outcome.
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the auth guard.
// Label:
//   - reason: "missing_token" or "invalid_token"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// ── Feed metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts created publications.
// Label:
//   - type: "text" or "image"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by post type.",
	},
	[]string{"type"},
)

// ── Engagement pipeline metrics ───────────────────────────────────────────────

// EngagementEventsTotal counts engagement events that completed processing.
// Label:
//   - kind: event kind (e.g. "post_liked")
var EngagementEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engagement_events_total",
		Help:      "Total number of engagement events successfully processed, by kind.",
	},
	[]string{"kind"},
)

// EngagementErrorsTotal counts engagement events that failed processing.
var EngagementErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engagement_errors_total",
		Help:      "Total number of engagement events that failed processing.",
	},
	[]string{"kind"},
)

// EngagementQueueDepth tracks the events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var EngagementQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "engagement_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EngagementProcessingDuration measures per-event processing time.
var EngagementProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engagement_processing_duration_seconds",
		Help:      "Duration of engagement event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
