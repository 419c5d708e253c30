package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot outcome labels for SnapshotsTotal
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
)

// Heap kinds for RunHeapBytes
const (
	HeapInUse    = "in_use"
	HeapReserved = "reserved"
)

// Registry holds all metrics for the application
type Registry struct {
	// Detection Metrics
	SnapshotsTotal         *prometheus.CounterVec
	DetectionDuration      prometheus.Histogram
	CommunitiesPerSnapshot prometheus.Histogram
	CommunitySize          prometheus.Histogram
	EdgesRemovedTotal      prometheus.Counter

	// Tracking Metrics
	CommunityEventsTotal *prometheus.CounterVec
	Modularity           prometheus.Gauge
	NMI                  prometheus.Gauge
	CutRatio             prometheus.Gauge
	LoadBalance          prometheus.Gauge

	// Loader Metrics
	LoaderRecordsTotal *prometheus.CounterVec
	LoaderSnapshots    prometheus.Gauge
	LoaderDuration     prometheus.Histogram

	// Run Metrics
	RunInfo           *prometheus.GaugeVec
	RunStartTimestamp prometheus.Gauge
	RunDuration       prometheus.Gauge
	RunGoroutines     prometheus.Gauge
	RunHeapBytes      *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initDetectionMetrics()
	r.initTrackingMetrics()
	r.initLoaderMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
