// Package metrics defines Prometheus instrumentation for the image
// sorter. All metrics carry the image_sorter_ prefix and are registered
// on the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hash cache metrics
var (
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_cache_hits_total",
			Help: "Total number of perceptual hash cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_cache_misses_total",
			Help: "Total number of perceptual hash cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_sorter_cache_entries",
			Help: "Number of entries currently held in the hash cache",
		},
	)

	CachePersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_sorter_cache_persist_total",
			Help: "Total number of cache persist attempts",
		},
		[]string{"status"},
	)
)

// Hashing pipeline metrics
var (
	HashesComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_hashes_computed_total",
			Help: "Total number of perceptual hashes computed (cache misses only)",
		},
	)

	HashErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_sorter_hash_errors_total",
			Help: "Total number of files dropped by the hashing pipeline",
		},
		[]string{"reason"}, // "stat", "decode", "hash"
	)

	HashDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_sorter_hash_duration_seconds",
			Help:    "Time spent decoding and hashing a single image",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PipelineWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_sorter_pipeline_workers",
			Help: "Number of workers used by the last hashing run",
		},
	)
)

// Duplicate detection metrics
var (
	DetectionRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_detection_runs_total",
			Help: "Total number of duplicate detection runs",
		},
	)

	DuplicateGroupsFound = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_sorter_duplicate_groups_found",
			Help: "Number of duplicate groups found by the last detection run",
		},
	)

	DetectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_sorter_detection_duration_seconds",
			Help:    "Duration of detection run stages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "hashing", "grouping"
	)
)

// Scanner metrics
var (
	ScannerFilesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_scanner_files_found_total",
			Help: "Total number of image files found by directory scans",
		},
	)

	ScannerErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_sorter_scanner_errors_total",
			Help: "Total number of directory entries skipped due to errors",
		},
	)
)

// Sorter metrics
var (
	SorterOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_sorter_sorter_operations_total",
			Help: "Total number of per-file sorter operations",
		},
		[]string{"operation", "status"}, // operation: "copy", "move", "trash"
	)
)

// Thumbnail metrics
var (
	ThumbnailsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_sorter_thumbnails_generated_total",
			Help: "Total number of thumbnails generated or served from cache",
		},
		[]string{"source"}, // "cache", "generated"
	)
)
