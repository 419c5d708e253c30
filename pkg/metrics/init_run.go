package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunInfo = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dyncom_run_info",
			Help: "Constant 1, labelled with the analysis run ID and Go version",
		},
		[]string{"run_id", "go_version"},
	)

	r.RunStartTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_run_start_timestamp_seconds",
			Help: "Unix time the analysis run started",
		},
	)

	r.RunDuration = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_run_duration_seconds",
			Help: "Wall time of the analysis run in seconds",
		},
	)

	r.RunGoroutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_run_goroutines",
			Help: "Goroutines alive when the run finished, detection workers included",
		},
	)

	r.RunHeapBytes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dyncom_run_heap_bytes",
			Help: "Heap size in bytes when the run finished",
		},
		[]string{"kind"},
	)
}
