package algorithms

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// graphFromFlat pairs consecutive ids into edges, skipping self-loops
func graphFromFlat(ids []uint64) *graph.Graph {
	g := graph.New()
	for i := 0; i+1 < len(ids); i += 2 {
		if ids[i] == ids[i+1] {
			g.AddNode(ids[i])
			continue
		}
		_ = g.AddEdge(ids[i], ids[i+1])
	}
	return g
}

// TestDetectionInvariants checks properties that must hold for any graph
func TestDetectionInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	edgeList := gen.SliceOf(gen.UInt64Range(0, 30))

	properties.Property("communities cover every node", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			result := DetectCommunities(g, DefaultDetectOptions())
			return result.Communities.Covers(g.Nodes())
		},
		edgeList,
	))

	properties.Property("communities are never empty", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			for _, c := range DetectCommunities(g, DefaultDetectOptions()).Communities {
				if len(c) == 0 {
					return false
				}
			}
			return true
		},
		edgeList,
	))

	properties.Property("input graph is not mutated", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			nodes, edges := g.NodeCount(), g.EdgeCount()
			DetectCommunities(g, DefaultDetectOptions())
			return g.NodeCount() == nodes && g.EdgeCount() == edges
		},
		edgeList,
	))

	properties.Property("pruning only removes existing edges", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			pruned := PruneEdges(g, PruneOptions{})
			for _, e := range pruned.Removed {
				if !g.HasEdge(e.U, e.V) || pruned.Graph.HasEdge(e.U, e.V) {
					return false
				}
			}
			return pruned.Graph.EdgeCount()+len(pruned.Removed) == g.EdgeCount()
		},
		edgeList,
	))

	properties.Property("modularity stays within [-0.5, 1]", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			q, ok := Modularity(g, DetectCommunities(g, DefaultDetectOptions()).Communities)
			if !ok {
				return true
			}
			return q >= -0.5-1e-9 && q <= 1.0+1e-9
		},
		edgeList,
	))

	properties.Property("NMI of a partition with itself is 1", prop.ForAll(
		func(ids []uint64) bool {
			g := graphFromFlat(ids)
			p := DetectCommunities(g, DefaultDetectOptions()).Communities
			return math.Abs(NMI(p, p, nil)-1.0) < 1e-9
		},
		edgeList,
	))

	properties.TestingRun(t)
}
