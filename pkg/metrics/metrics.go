package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordSnapshot records one analyzed snapshot. Invalid snapshots only bump
// the status counter.
func (r *Registry) RecordSnapshot(valid bool, duration time.Duration, communitySizes []int, edgesRemoved int) {
	if !valid {
		r.SnapshotsTotal.WithLabelValues(StatusInvalid).Inc()
		return
	}

	r.SnapshotsTotal.WithLabelValues(StatusOK).Inc()
	r.DetectionDuration.Observe(duration.Seconds())
	r.CommunitiesPerSnapshot.Observe(float64(len(communitySizes)))
	for _, size := range communitySizes {
		r.CommunitySize.Observe(float64(size))
	}
	r.EdgesRemovedTotal.Add(float64(edgesRemoved))
}

// RecordEvents adds event counts keyed by event kind
func (r *Registry) RecordEvents(counts map[string]int) {
	for kind, n := range counts {
		if n > 0 {
			r.CommunityEventsTotal.WithLabelValues(kind).Add(float64(n))
		}
	}
}

// SetQuality updates the quality gauges; nil values leave a gauge untouched
func (r *Registry) SetQuality(modularity, nmi *float64) {
	if modularity != nil {
		r.Modularity.Set(*modularity)
	}
	if nmi != nil {
		r.NMI.Set(*nmi)
	}
}

// SetStructure updates the cut ratio and size balance gauges
func (r *Registry) SetStructure(cutRatio, loadBalance float64) {
	r.CutRatio.Set(cutRatio)
	r.LoadBalance.Set(loadBalance)
}

// RecordLoad records the outcome of reading an input file
func (r *Registry) RecordLoad(records, skipped, snapshots int, duration time.Duration) {
	r.LoaderRecordsTotal.WithLabelValues(StatusOK).Add(float64(records))
	if skipped > 0 {
		r.LoaderRecordsTotal.WithLabelValues(StatusInvalid).Add(float64(skipped))
	}
	r.LoaderSnapshots.Set(float64(snapshots))
	r.LoaderDuration.Observe(duration.Seconds())
}

// UpdateRunMetrics marks the end of run runID started at startedAt and
// samples the runtime
func (r *Registry) UpdateRunMetrics(runID string, startedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.RunInfo.Reset()
	r.RunInfo.WithLabelValues(runID, runtime.Version()).Set(1)
	r.RunStartTimestamp.Set(float64(startedAt.UnixNano()) / 1e9)
	r.RunDuration.Set(time.Since(startedAt).Seconds())
	r.RunGoroutines.Set(float64(runtime.NumGoroutine()))
	r.RunHeapBytes.WithLabelValues(HeapInUse).Set(float64(m.HeapAlloc))
	r.RunHeapBytes.WithLabelValues(HeapReserved).Set(float64(m.HeapSys))
}

// WriteTextfile writes every metric in the Prometheus text format to path,
// for pickup by a node exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
