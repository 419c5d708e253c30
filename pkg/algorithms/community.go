package algorithms

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

// DetectCommunities partitions g by pruning high-dissimilarity edges and
// folding undersized fragments back through their bridge edges.
// g itself is left untouched.
func DetectCommunities(g graph.View, opts DetectOptions) *CommunityDetectionResult {
	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = DefaultMinCommunitySize
	}

	pruned := PruneEdges(g, PruneOptions{FragmentSize: minSize, Logger: opts.Logger})

	// merge on the pruned copy; it carries the same node set as g
	communities := MergeSmallCommunities(pruned.Graph, pruned.Bridges, minSize)

	return &CommunityDetectionResult{
		Communities: communities,
		Prune:       pruned,
	}
}

// ProcessSnapshots runs DetectCommunities on every graph independently and
// returns the snapshots in input order. With opts.Workers > 1 graphs are
// detected concurrently; the result is identical to a sequential run.
func ProcessSnapshots(ctx context.Context, graphs []graph.View, opts DetectOptions) ([]Snapshot, error) {
	logger := logging.OrNop(opts.Logger)

	snapshots := make([]Snapshot, len(graphs))
	err := parallel.ForEach(ctx, len(graphs), opts.Workers, func(i int) error {
		start := time.Now()
		result := DetectCommunities(graphs[i], opts)
		snapshots[i] = Snapshot{
			Index:       i,
			Graph:       graphs[i],
			Communities: result.Communities,
			Prune:       result.Prune,
			Duration:    time.Since(start),
		}
		logger.Debug("snapshot detected",
			logging.Snapshot(i),
			logging.Communities(len(result.Communities)),
			logging.Latency(snapshots[i].Duration),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshots, nil
}
