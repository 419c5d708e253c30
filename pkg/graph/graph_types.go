package graph

// Edge is an undirected edge between two distinct nodes.
// (U, V) and (V, U) denote the same edge.
type Edge struct {
	U uint64
	V uint64
}

// Canonical returns the edge with endpoints in ascending order
func (e Edge) Canonical() Edge {
	if e.U > e.V {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// View is the read side of an undirected graph. Every detection routine
// consumes a View; only the pruning step mutates, and it does so on its
// own Graph copy.
type View interface {
	// Nodes returns node IDs in insertion order
	Nodes() []uint64
	// Edges returns every edge once, walking nodes in insertion order and
	// each node's neighbors in the order their edges were added. An edge is
	// emitted from the endpoint visited first.
	Edges() []Edge
	// Neighbors returns the sorted neighbor IDs of n
	Neighbors(n uint64) []uint64
	HasNode(n uint64) bool
	HasEdge(u, v uint64) bool
	Degree(n uint64) int
	NodeCount() int
	EdgeCount() int
	// EdgeAttr returns a numeric attribute stored on edge (u, v)
	EdgeAttr(u, v uint64, key string) (float64, bool)
}

// Graph is an adjacency-set backed undirected simple graph with
// per-edge numeric attributes.
type Graph struct {
	order []uint64
	adj   map[uint64]map[uint64]struct{}

	// nbrs holds each node's neighbors in edge insertion order. A removed
	// and re-added edge moves to the back.
	nbrs  map[uint64][]uint64
	size  int
	attrs map[Edge]map[string]float64
}

var _ View = (*Graph)(nil)
