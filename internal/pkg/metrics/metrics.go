package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_lifecycle_operations_total",
			Help: "Total number of order lifecycle operations",
		},
		[]string{"operation", "status"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_lookups_total",
			Help: "Total number of view cache lookups",
		},
		[]string{"view", "result"},
	)
)

// RecordLifecycleOperation 記錄生命週期操作結果
func RecordLifecycleOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	lifecycleOperations.WithLabelValues(operation, status).Inc()
}

// RecordCacheLookup 記錄視圖快取命中情況
func RecordCacheLookup(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(view, result).Inc()
}
