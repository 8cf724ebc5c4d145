// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var BalanceDeltas = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "balance_deltas_total",
	Help:      "Committed balance deltas by sign and reason",
}, []string{"sign", "reason"})

var GoalOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "goal_operations_total",
	Help:      "Goal reservation operations by kind and outcome",
}, []string{"operation", "outcome"})

var ConflictRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "conflict_retries_total",
	Help:      "Transactions retried after a version conflict, by resource",
}, []string{"resource"})

var AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "auth_rejections_total",
	Help:      "Requests rejected by authentication",
}, []string{"reason"})

var TokensSwept = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "whitelist_tokens_swept_total",
	Help:      "Expired session tokens removed from the whitelist",
})

var EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "events_handled_total",
	Help:      "Domain events processed by in-process handlers",
}, []string{"type"})

var LedgerDrift = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "saveblue",
	Name:      "ledger_drift_total",
	Help:      "Accounts found with available balance out of line with their goals",
})
