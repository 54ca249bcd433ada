// Package metrics defines and registers the custom Prometheus metrics of the
// GoRide admin API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is initialised; /metrics serves them via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "goride"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts auth operations.
// Labels:
//   - kind: "admin", "customer" or "driver"
//   - operation: "login", "signup", "forgot_password" or "reset_password"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of auth operations, by account kind, operation and result.",
	},
	[]string{"kind", "operation", "result"},
)

// AccountsRegisteredTotal counts successful signups.
// Label:
//   - kind: the account kind
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by kind.",
	},
	[]string{"kind"},
)

// ProfileMutationsTotal counts admin and self-service profile changes.
// Labels:
//   - kind: the kind of the account being changed
//   - operation: "update" or "delete"
var ProfileMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_mutations_total",
		Help:      "Total number of profile updates and deletions, by kind.",
	},
	[]string{"kind", "operation"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency per route template.
// Labels:
//   - method: HTTP method
//   - route: the echo route path (e.g. "/admin/customer-profile/:id")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route", "status"},
)

// HTTPErrorsTotal counts error envelopes rendered by the error handler.
// Label:
//   - status: response status code
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of error responses, by status code.",
	},
	[]string{"status"},
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
