// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of store operations executed",
		},
		[]string{"operation"},
	)

	StoreOperationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_failed_total",
			Help: "Total number of store operations that returned an error",
		},
		[]string{"operation", "error_code"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "store_operation_duration_seconds",
			Help: "Duration of store operations in seconds",
		},
		[]string{"operation"},
	)

	StoreConnectionsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_connections_opened_total",
			Help: "Dedicated database sessions checked out by the store",
		},
	)
)
