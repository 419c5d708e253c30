package graph

import "sort"

// New creates an empty graph
func New() *Graph {
	return &Graph{
		order: make([]uint64, 0),
		adj:   make(map[uint64]map[uint64]struct{}),
		nbrs:  make(map[uint64][]uint64),
		attrs: make(map[Edge]map[string]float64),
	}
}

// FromEdges builds a graph from an edge list. Endpoints are added as nodes
// in first-seen order. Self-loops are rejected.
func FromEdges(edges ...Edge) (*Graph, error) {
	g := New()
	for _, e := range edges {
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds n if it is not already present
func (g *Graph) AddNode(n uint64) {
	if _, ok := g.adj[n]; ok {
		return
	}
	g.adj[n] = make(map[uint64]struct{})
	g.order = append(g.order, n)
}

// AddEdge adds the undirected edge (u, v), creating missing endpoints.
// Adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v uint64) error {
	if u == v {
		return newGraphError("AddEdge", u, v, ErrSelfLoop)
	}
	g.AddNode(u)
	g.AddNode(v)

	if g.HasEdge(u, v) {
		return nil
	}

	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	g.nbrs[u] = append(g.nbrs[u], v)
	g.nbrs[v] = append(g.nbrs[v], u)
	g.size++
	return nil
}

// RemoveEdge deletes the edge (u, v) and its attributes. Nodes are kept.
func (g *Graph) RemoveEdge(u, v uint64) error {
	if !g.HasEdge(u, v) {
		return newGraphError("RemoveEdge", u, v, ErrEdgeNotFound)
	}

	delete(g.adj[u], v)
	delete(g.adj[v], u)
	g.nbrs[u] = dropNeighbor(g.nbrs[u], v)
	g.nbrs[v] = dropNeighbor(g.nbrs[v], u)
	delete(g.attrs, Edge{U: u, V: v}.Canonical())
	g.size--
	return nil
}

func dropNeighbor(nbrs []uint64, n uint64) []uint64 {
	for i, m := range nbrs {
		if m == n {
			return append(nbrs[:i], nbrs[i+1:]...)
		}
	}
	return nbrs
}

// SetEdgeAttr stores a numeric attribute on an existing edge
func (g *Graph) SetEdgeAttr(u, v uint64, key string, value float64) error {
	if !g.HasEdge(u, v) {
		return newGraphError("SetEdgeAttr", u, v, ErrEdgeNotFound)
	}
	ek := Edge{U: u, V: v}.Canonical()
	attrs, ok := g.attrs[ek]
	if !ok {
		attrs = make(map[string]float64, 1)
		g.attrs[ek] = attrs
	}
	attrs[key] = value
	return nil
}

// EdgeAttr returns a numeric attribute of edge (u, v)
func (g *Graph) EdgeAttr(u, v uint64, key string) (float64, bool) {
	attrs, ok := g.attrs[Edge{U: u, V: v}.Canonical()]
	if !ok {
		return 0, false
	}
	value, ok := attrs[key]
	return value, ok
}

// Nodes returns node IDs in insertion order
func (g *Graph) Nodes() []uint64 {
	nodes := make([]uint64, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// Edges returns every edge once. Nodes are walked in insertion order and
// each node emits the edges to neighbors not yet walked, in the order those
// edges were added.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.size)
	seen := make(map[uint64]struct{}, len(g.order))
	for _, n := range g.order {
		for _, m := range g.nbrs[n] {
			if _, ok := seen[m]; !ok {
				edges = append(edges, Edge{U: n, V: m})
			}
		}
		seen[n] = struct{}{}
	}
	return edges
}

// Neighbors returns the sorted neighbors of n (nil if n is unknown)
func (g *Graph) Neighbors(n uint64) []uint64 {
	set, ok := g.adj[n]
	if !ok {
		return nil
	}
	neighbors := make([]uint64, 0, len(set))
	for m := range set {
		neighbors = append(neighbors, m)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// HasNode reports whether n is in the graph
func (g *Graph) HasNode(n uint64) bool {
	_, ok := g.adj[n]
	return ok
}

// HasEdge reports whether the undirected edge (u, v) exists
func (g *Graph) HasEdge(u, v uint64) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Degree returns the number of neighbors of n
func (g *Graph) Degree(n uint64) int {
	return len(g.adj[n])
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return g.size
}

// Clone returns a deep copy that preserves node and neighbor order
func (g *Graph) Clone() *Graph {
	c := New()
	c.order = append(c.order, g.order...)
	for n, set := range g.adj {
		copied := make(map[uint64]struct{}, len(set))
		for m := range set {
			copied[m] = struct{}{}
		}
		c.adj[n] = copied
		c.nbrs[n] = append([]uint64(nil), g.nbrs[n]...)
	}
	c.size = g.size
	for e, attrs := range g.attrs {
		copied := make(map[string]float64, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
		c.attrs[e] = copied
	}
	return c
}

// Copy materializes any View into a private Graph. Attributes are carried
// over only when v is itself a *Graph.
func Copy(v View) *Graph {
	if g, ok := v.(*Graph); ok {
		return g.Clone()
	}
	c := New()
	for _, n := range v.Nodes() {
		c.AddNode(n)
	}
	for _, e := range v.Edges() {
		_ = c.AddEdge(e.U, e.V)
	}
	return c
}
