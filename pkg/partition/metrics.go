package partition

import "github.com/dd0wney/cluso-communities/pkg/graph"

// Metrics summarizes how a partition sits on a graph
type Metrics struct {
	Sizes         []int // Nodes per community
	InternalEdges []int // Edges with both endpoints inside the community
	DegreeSums    []int // Total degree of community members
	CutEdges      int   // Edges whose endpoints share no community
	TotalEdges    int
	CutRatio      float64 // Fraction of edges that are cuts
	LoadBalance   float64 // 0-1 (1 = all communities the same size)
}

// ComputeMetrics analyzes the partition against the edges of g. Communities
// are treated independently, so an edge inside two overlapping communities
// counts as internal to both.
func ComputeMetrics(g graph.View, p Partition) *Metrics {
	m := &Metrics{
		Sizes:         make([]int, len(p)),
		InternalEdges: make([]int, len(p)),
		DegreeSums:    make([]int, len(p)),
	}

	membership := make(map[uint64][]int)
	for idx, c := range p {
		m.Sizes[idx] = len(c)
		for _, n := range c {
			membership[n] = append(membership[n], idx)
			m.DegreeSums[idx] += g.Degree(n)
		}
	}

	for _, e := range g.Edges() {
		m.TotalEdges++
		shared := false
		for _, cu := range membership[e.U] {
			for _, cv := range membership[e.V] {
				if cu == cv {
					m.InternalEdges[cu]++
					shared = true
				}
			}
		}
		if !shared {
			m.CutEdges++
		}
	}

	if m.TotalEdges > 0 {
		m.CutRatio = float64(m.CutEdges) / float64(m.TotalEdges)
	}

	if len(p) > 0 {
		total := 0
		for _, s := range m.Sizes {
			total += s
		}
		avg := float64(total) / float64(len(p))
		variance := 0.0
		for _, s := range m.Sizes {
			diff := float64(s) - avg
			variance += diff * diff
		}
		variance /= float64(len(p))
		if avg > 0 {
			m.LoadBalance = 1.0 / (1.0 + variance/avg)
		}
	}

	return m
}
