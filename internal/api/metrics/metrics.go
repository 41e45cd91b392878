// Package metrics defines and registers all custom Prometheus metrics for
// the hive automation service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hive"

// ── Message metrics ───────────────────────────────────────────────────────────

// MessagesDispatchedTotal counts inbound messages by chain outcome.
// Label:
//   - result: "claimed", "unclaimed", or "error"
var MessagesDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_dispatched_total",
		Help:      "Total number of inbound messages routed through the handler chain.",
	},
	[]string{"result"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts protocol orders activated on command.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of protocol orders activated.",
	},
)

// OrdersCompletedTotal counts orders deactivated by the completion sweep.
var OrdersCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_completed_total",
		Help:      "Total number of protocol orders deactivated on expiry.",
	},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// DronesStoredTotal counts drones placed into storage.
var DronesStoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "drones_stored_total",
		Help:      "Total number of drones placed into the storage chambers.",
	},
)

// DronesReleasedTotal counts releases from storage.
// Label:
//   - mode: "timed" (release sweep) or "manual" (release command)
var DronesReleasedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "drones_released_total",
		Help:      "Total number of drones released from storage, by mode.",
	},
	[]string{"mode"},
)

// DronesInStorage tracks the stored-drone count as of the last report sweep.
var DronesInStorage = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "drones_in_storage",
		Help:      "Number of drones currently in storage, sampled by the report sweep.",
	},
)

// ── Sweep metrics ─────────────────────────────────────────────────────────────

// SweepDurationSeconds measures how long one pass of a background task takes.
// Label:
//   - task: supervisor task name (e.g. "order_completion")
var SweepDurationSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of one pass of each background sweep task.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"task"},
)
