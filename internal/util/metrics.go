package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetRowsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_rows_loaded",
		Help: "Rows kept per source after cleaning",
	}, []string{"source"})

	DatasetRowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_rows_dropped_total",
		Help: "Rows discarded during cleaning, by source and offending column",
	}, []string{"source", "column"})

	DatasetJoinedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_joined_rows",
		Help: "Rows in the denormalized dataset",
	})

	DatasetLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dataset_load_latency_seconds",
		Help:    "Latency of loading, cleaning and merging the dataset",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	ReportsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_generated_total",
		Help: "Total number of reports generated",
	}, []string{"kind"})

	InvalidRangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "report_invalid_ranges_total",
		Help: "Total number of rejected date ranges",
	})

	ReportLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_latency_seconds",
		Help:    "Latency of report generation",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_hits_total",
		Help: "Total number of report cache hits",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_misses_total",
		Help: "Total number of report cache misses",
	})

	SegmentEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_events_published_total",
		Help: "Total number of segment events published",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
