// Package metrics defines and registers all custom Prometheus metrics for the
// user directory API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// UsersCreatedTotal counts directory records created successfully.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user records created.",
	},
)

// UsersDeletedTotal counts record deletions.
// Label:
//   - mode: "single" for one-record deletes, "bulk" for whole-directory wipes
var UsersDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of delete operations, by mode (single/bulk).",
	},
	[]string{"mode"},
)

// ManagerLinksTotal counts manager-side in_charge writes performed while
// keeping the managed_by/in_charge mirror consistent.
// Label:
//   - action: "attach" or "detach"
var ManagerLinksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manager_links_total",
		Help:      "Total number of manager in_charge reconciliation writes, by action.",
	},
	[]string{"action"},
)

// StoreErrorsTotal counts unexpected key-value store failures.
// Label:
//   - op: the store operation that failed (e.g. "create user", "detach manager link")
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of unexpected directory store failures, by operation.",
	},
	[]string{"op"},
)
