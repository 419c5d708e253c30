package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/partition"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// NewAnalyzer creates an analyzer. A nil logger discards output and a nil
// registry disables metrics.
func NewAnalyzer(opts Options, logger logging.Logger, registry *metrics.Registry) *Analyzer {
	opts.MinSize = validation.DefaultOrInt(opts.MinSize, algorithms.DefaultMinCommunitySize)
	opts.Workers = validation.ClampInt(opts.Workers, 0, validation.MaxWorkers)
	if opts.StableThreshold <= 0 {
		opts.StableThreshold = algorithms.DefaultStableThreshold
	}
	return &Analyzer{
		opts:    opts,
		logger:  logging.OrNop(logger),
		metrics: registry,
	}
}

// Run detects communities on every graph, then walks the snapshots in order
// comparing each valid partition with the previous valid one.
//
// A snapshot whose partition is empty or holds an empty community gets no
// metrics and does not replace the previous partition. Modularity is left
// out for graphs without edges or when it is undefined for the partition.
func (a *Analyzer) Run(ctx context.Context, graphs []graph.View) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Snapshots: make([]SnapshotReport, 0, len(graphs)),
	}
	logger := a.logger.With(logging.RunID(report.RunID))
	timer := logging.StartTimer(logger, "community analysis",
		logging.Int("snapshots", len(graphs)),
		logging.Int("workers", a.opts.Workers),
		logging.Bool("dedup_stable", a.opts.DedupStable),
	)

	detected, err := algorithms.ProcessSnapshots(ctx, graphs, algorithms.DetectOptions{
		MinSize: a.opts.MinSize,
		Workers: a.opts.Workers,
		Logger:  logger,
	})
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("community detection failed: %w", err)
	}

	trackOpts := algorithms.TrackOptions{
		StableThreshold: a.opts.StableThreshold,
		DedupStable:     a.opts.DedupStable,
	}

	var prev partition.Partition
	for _, snap := range detected {
		if err := ctx.Err(); err != nil {
			timer.EndError(err)
			return nil, err
		}

		row, valid := a.analyzeSnapshot(logger, snap, prev, trackOpts)
		if valid {
			prev = snap.Communities
		}
		report.Snapshots = append(report.Snapshots, row)
	}

	report.Summary = summarize(report.Snapshots, detected)
	report.Duration = timer.End(
		logging.Int("valid_snapshots", report.Summary.ValidSnapshots),
		logging.Int("communities", report.Summary.Communities),
		logging.Any("events", report.Summary.EventTotals),
	)

	if a.metrics != nil {
		a.metrics.UpdateRunMetrics(report.RunID, report.StartedAt)
	}

	return report, nil
}

func (a *Analyzer) analyzeSnapshot(logger logging.Logger, snap algorithms.Snapshot, prev partition.Partition, opts algorithms.TrackOptions) (SnapshotReport, bool) {
	row := SnapshotReport{
		Index:          snap.Index,
		CommunityCount: len(snap.Communities),
		Communities:    snap.Communities.Sorted(),
	}
	log := logger.With(logging.Snapshot(snap.Index), logging.Communities(len(snap.Communities)))

	if err := snap.Communities.Validate(); err != nil {
		log.Warn("invalid partition, metrics skipped", logging.Error(err))
		a.record(snap, false, nil, nil)
		return row, false
	}

	structure := partition.ComputeMetrics(snap.Graph, snap.Communities)
	log = log.With(
		logging.Int("cut_edges", structure.CutEdges),
		logging.Float64("cut_ratio", structure.CutRatio),
		logging.Float64("load_balance", structure.LoadBalance),
	)

	if snap.Graph.EdgeCount() == 0 {
		log.Info("graph has no edges, modularity skipped")
	} else if q, ok := algorithms.Modularity(snap.Graph, snap.Communities); ok {
		row.Modularity = &q
		log = log.With(logging.Modularity(q))
	} else {
		log.Warn("modularity undefined for partition")
	}

	if prev != nil {
		row.Events = algorithms.TrackEventsWithOptions(prev, snap.Communities, opts)
		nmi := algorithms.NMI(prev, snap.Communities, nil)
		row.NMI = &nmi
		log = log.With(logging.NMI(nmi))
	}

	log.Info("snapshot analyzed")
	a.record(snap, true, &row, structure)
	return row, true
}

func (a *Analyzer) record(snap algorithms.Snapshot, valid bool, row *SnapshotReport, structure *partition.Metrics) {
	if a.metrics == nil {
		return
	}

	removed := 0
	if snap.Prune != nil {
		removed = len(snap.Prune.Removed)
	}
	var sizes []int
	if structure != nil {
		sizes = structure.Sizes
	}
	a.metrics.RecordSnapshot(valid, snap.Duration, sizes, removed)

	if row == nil {
		return
	}
	a.metrics.SetQuality(row.Modularity, row.NMI)
	if structure != nil {
		a.metrics.SetStructure(structure.CutRatio, structure.LoadBalance)
	}
	if row.Events != nil {
		a.metrics.RecordEvents(eventCounts(row.Events))
	}
}

func eventCounts(events *algorithms.EventSet) map[string]int {
	counts := make(map[string]int, len(algorithms.EventKinds))
	for _, kind := range algorithms.EventKinds {
		counts[string(kind)] = events.Count(kind)
	}
	return counts
}

func summarize(rows []SnapshotReport, detected []algorithms.Snapshot) Summary {
	s := Summary{
		Snapshots:   len(rows),
		EventTotals: make(map[string]int, len(algorithms.EventKinds)),
	}
	for _, kind := range algorithms.EventKinds {
		s.EventTotals[string(kind)] = 0
	}

	var qSum, nmiSum float64
	var qCount, nmiCount int
	for i, row := range rows {
		if err := detected[i].Communities.Validate(); err == nil {
			s.ValidSnapshots++
		}
		s.Communities += row.CommunityCount
		if row.Modularity != nil {
			qSum += *row.Modularity
			qCount++
		}
		if row.NMI != nil {
			nmiSum += *row.NMI
			nmiCount++
		}
		if row.Events != nil {
			for kind, n := range eventCounts(row.Events) {
				s.EventTotals[kind] += n
			}
		}
	}
	if qCount > 0 {
		mean := qSum / float64(qCount)
		s.MeanModularity = &mean
	}
	if nmiCount > 0 {
		mean := nmiSum / float64(nmiCount)
		s.MeanNMI = &mean
	}

	scores := make([]float64, 0)
	for _, snap := range detected {
		if snap.Prune == nil {
			continue
		}
		for _, score := range snap.Prune.Scores {
			scores = append(scores, score)
		}
	}
	s.Dissimilarity = NewHistogram(scores, HistogramBins)

	return s
}
