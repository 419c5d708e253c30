package algorithms

import (
	"time"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/partition"
)

// DetectOptions configures dissimilarity-based community detection
type DetectOptions struct {
	MinSize int // Minimum community size (default DefaultMinCommunitySize)
	Workers int // Snapshots detected concurrently by ProcessSnapshots (<= 1 is sequential)
	Logger  logging.Logger
}

// DefaultDetectOptions returns sensible defaults
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		MinSize: DefaultMinCommunitySize,
		Workers: 1,
	}
}

// CommunityDetectionResult contains the communities of one graph
type CommunityDetectionResult struct {
	Communities partition.Partition
	Prune       *PruneResult
}

// Snapshot is one graph of a sequence together with its partition
type Snapshot struct {
	Index       int
	Graph       graph.View
	Communities partition.Partition
	Prune       *PruneResult
	Duration    time.Duration // detection wall time
}
