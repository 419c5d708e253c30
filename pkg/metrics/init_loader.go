package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLoaderMetrics() {
	r.LoaderRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dyncom_loader_records_total",
			Help: "Total number of input records read",
		},
		[]string{"status"},
	)

	r.LoaderSnapshots = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_loader_snapshots",
			Help: "Number of snapshots built by the last load",
		},
	)

	r.LoaderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyncom_loader_duration_seconds",
			Help:    "Time spent reading and windowing input in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}
