package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/partition"
)

// Modularity computes the Newman modularity of p on g:
//
//	Q = Σ_c [ L_c/m - (D_c / 2m)^2 ]
//
// where L_c is the number of edges inside community c and D_c the degree
// sum of its members. The second result is false when g has no edges or p
// is not a partition of exactly g's nodes; Q is undefined then.
func Modularity(g graph.View, p partition.Partition) (float64, bool) {
	m := g.EdgeCount()
	if m == 0 {
		return 0.0, false
	}
	if !p.IsDisjoint() || !p.Covers(g.Nodes()) {
		return 0.0, false
	}

	metrics := partition.ComputeMetrics(g, p)
	total := float64(m)

	q := 0.0
	for i := range p {
		internal := float64(metrics.InternalEdges[i]) / total
		degree := float64(metrics.DegreeSums[i]) / (2.0 * total)
		q += internal - degree*degree
	}
	return q, true
}
