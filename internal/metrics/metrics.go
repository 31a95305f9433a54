package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmarks_batch_actions_total",
		Help: "Batch bookmark actions processed, by action kind and outcome.",
	}, []string{"action", "outcome"})

	BatchItemErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tmarks_batch_item_errors_total",
		Help: "Per-item failures accumulated during batch tag updates.",
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmarks_exports_total",
		Help: "Completed exports, by format.",
	}, []string{"format"})

	ExportBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmarks_export_bytes_total",
		Help: "Bytes of export artifacts produced, by format.",
	}, []string{"format"})

	ShareCacheInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tmarks_share_cache_invalidations_total",
		Help: "Owner-keyed share cache invalidations triggered by batch actions.",
	})
)
