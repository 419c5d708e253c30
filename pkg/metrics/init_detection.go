package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.SnapshotsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dyncom_snapshots_total",
			Help: "Total number of snapshots analyzed",
		},
		[]string{"status"},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyncom_detection_duration_seconds",
			Help:    "Community detection duration per snapshot in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.CommunitiesPerSnapshot = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyncom_communities_per_snapshot",
			Help:    "Number of communities found per snapshot",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500},
		},
	)

	r.CommunitySize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyncom_community_size",
			Help:    "Number of nodes per detected community",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
	)

	r.EdgesRemovedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "dyncom_edges_removed_total",
			Help: "Total number of edges removed while pruning",
		},
	)
}
