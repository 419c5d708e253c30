package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrackingMetrics() {
	r.CommunityEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dyncom_community_events_total",
			Help: "Total number of community events by kind",
		},
		[]string{"kind"},
	)

	r.Modularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_modularity",
			Help: "Modularity of the most recent valid snapshot",
		},
	)

	r.NMI = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_nmi",
			Help: "NMI between the two most recent valid snapshots",
		},
	)

	r.CutRatio = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_cut_ratio",
			Help: "Fraction of edges crossing communities in the most recent valid snapshot",
		},
	)

	r.LoadBalance = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "dyncom_load_balance",
			Help: "Community size balance of the most recent valid snapshot (1 = equal sizes)",
		},
	)
}
