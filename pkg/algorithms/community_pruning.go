package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/partition"
)

// DefaultMinCommunitySize is the smallest component kept as a community on
// its own; smaller fragments are candidates for re-merging.
const DefaultMinCommunitySize = 4

// BridgeMap remembers, for each small fragment, the most recent removed edge
// that detached or preserved it. Keys are canonical node-set keys.
type BridgeMap map[string]graph.Edge

// Lookup returns the bridge edge recorded for the fragment with these nodes
func (b BridgeMap) Lookup(nodes []uint64) (graph.Edge, bool) {
	e, ok := b[partition.Key(nodes)]
	return e, ok
}

func (b BridgeMap) record(nodes []uint64, e graph.Edge) {
	b[partition.Key(nodes)] = e
}

// PruneOptions configures iterative edge removal
type PruneOptions struct {
	// FragmentSize is the component size below which a detached fragment is
	// remembered in the BridgeMap (default DefaultMinCommunitySize)
	FragmentSize int
	Logger       logging.Logger
}

// PruneResult holds the pruned working copy and the bridge memory
type PruneResult struct {
	Graph     *graph.Graph
	Bridges   BridgeMap
	Removed   []graph.Edge           // removed edges, in removal order
	Scores    map[graph.Edge]float64 // dissimilarity of every original edge, canonical keys
	Threshold float64
}

// PruneEdges removes edges from a private copy of g in descending
// dissimilarity order, ties kept in edge enumeration order. An edge is
// skipped when either endpoint has degree <= 1 at that moment, so leaves are
// never cut off. After every removal, each component smaller than
// FragmentSize that contains an endpoint is mapped to the removed edge.
//
// The caller's graph is never mutated.
func PruneEdges(g graph.View, opts PruneOptions) *PruneResult {
	fragmentSize := opts.FragmentSize
	if fragmentSize <= 0 {
		fragmentSize = DefaultMinCommunitySize
	}
	logger := logging.OrNop(opts.Logger)

	work := graph.Copy(g)
	threshold := ComputeAllDissimilarities(work)

	edges := work.Edges()
	scores := make(map[graph.Edge]float64, len(edges))
	for _, e := range edges {
		score, _ := work.EdgeAttr(e.U, e.V, DissimilarityKey)
		scores[e.Canonical()] = score
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return scores[edges[i].Canonical()] > scores[edges[j].Canonical()]
	})

	result := &PruneResult{
		Graph:     work,
		Bridges:   make(BridgeMap),
		Removed:   make([]graph.Edge, 0),
		Scores:    scores,
		Threshold: threshold,
	}
	debug := logger.GetLevel() <= logging.DebugLevel

	for _, e := range edges {
		u, v := e.U, e.V
		if work.Degree(u) <= 1 || work.Degree(v) <= 1 {
			continue
		}

		if debug {
			logger.Debug("removing edge",
				logging.Uint64("u", u),
				logging.Uint64("v", v),
				logging.Float64("dissimilarity", scores[e.Canonical()]),
				logging.Int("component_u", len(graph.ComponentOf(work, u))),
				logging.Int("component_v", len(graph.ComponentOf(work, v))),
			)
		}

		if err := work.RemoveEdge(u, v); err != nil {
			continue
		}
		result.Removed = append(result.Removed, e)

		compU := graph.ComponentOf(work, u)
		if len(compU) < fragmentSize {
			result.Bridges.record(compU, e)
		}
		if containsNode(compU, v) {
			continue
		}
		if compV := graph.ComponentOf(work, v); len(compV) < fragmentSize {
			result.Bridges.record(compV, e)
		}
	}

	logger.Debug("edge pruning finished",
		logging.Int("edges", len(edges)),
		logging.Int("removed", len(result.Removed)),
		logging.Int("bridges", len(result.Bridges)),
		logging.Float64("threshold", threshold),
	)

	return result
}

func containsNode(nodes []uint64, n uint64) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}
