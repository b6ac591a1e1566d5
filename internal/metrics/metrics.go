package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scanner metrics
var (
	LastScannedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_last_scanned_block",
		Help: "The upper bound block number of the last fully successful scan",
	})

	ScanSubQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanner_sub_queries_total",
		Help: "The total number of range queries issued against the event source",
	})

	RangeBisections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanner_range_bisections_total",
		Help: "The number of times a sub-range was bisected after a range-size rejection",
	})

	MalformedLogs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanner_malformed_logs_total",
		Help: "The number of logs skipped because they could not be decoded",
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scanner_scan_duration_seconds",
		Help:    "Duration of full scans in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	FailedScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanner_failed_scans_total",
		Help: "The total number of scans aborted by a fatal event source error",
	})
)

// Chain head metric
var ChainHead = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "chain_head_block",
	Help: "The latest block number reported by the event source",
})
