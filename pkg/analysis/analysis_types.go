// Package analysis drives community detection over a snapshot sequence and
// derives per-snapshot quality metrics and community events.
package analysis

import (
	"time"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// HistogramBins is the number of bins of the dissimilarity histogram
const HistogramBins = 30

// Options configures an analysis run
type Options struct {
	MinSize         int
	Workers         int
	StableThreshold float64
	DedupStable     bool
}

// DefaultOptions returns the literal detection and tracking behavior
func DefaultOptions() Options {
	return Options{
		MinSize:         algorithms.DefaultMinCommunitySize,
		Workers:         1,
		StableThreshold: algorithms.DefaultStableThreshold,
	}
}

// Analyzer runs detection and tracking over graph sequences
type Analyzer struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// SnapshotReport is the outcome for one snapshot. Absent values are nil.
type SnapshotReport struct {
	Index          int                  `json:"t"`
	CommunityCount int                  `json:"nb_communities"`
	Modularity     *float64             `json:"modularity"`
	NMI            *float64             `json:"nmi"`
	Communities    [][]uint64           `json:"communities"`
	Events         *algorithms.EventSet `json:"events"`
}

// Histogram is a fixed-bin histogram over [Min, Max]
type Histogram struct {
	Bins   int     `json:"bins"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Counts []int   `json:"counts"`
}

// Summary aggregates a run
type Summary struct {
	Snapshots      int            `json:"snapshots"`
	ValidSnapshots int            `json:"valid_snapshots"`
	Communities    int            `json:"communities"`
	EventTotals    map[string]int `json:"event_totals"`
	MeanModularity *float64       `json:"mean_modularity"`
	MeanNMI        *float64       `json:"mean_nmi"`
	Dissimilarity  Histogram      `json:"dissimilarity"`
}

// Report is the full result of Analyzer.Run
type Report struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Snapshots []SnapshotReport `json:"snapshots"`
	Summary   Summary          `json:"summary"`
}
