package graph

import "container/list"

// ConnectedComponents finds all connected components of v.
// Components are ordered by their first node in insertion order; members
// are listed in BFS discovery order.
func ConnectedComponents(v View) [][]uint64 {
	visited := make(map[uint64]bool, v.NodeCount())
	components := make([][]uint64, 0)

	for _, startNode := range v.Nodes() {
		if visited[startNode] {
			continue
		}

		component := make([]uint64, 0)
		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			component = append(component, nodeID)

			for _, neighbor := range v.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		components = append(components, component)
	}

	return components
}

// ComponentOf returns the connected component containing n, or nil if n
// is not in the graph.
func ComponentOf(v View, n uint64) []uint64 {
	if !v.HasNode(n) {
		return nil
	}

	visited := map[uint64]bool{n: true}
	component := []uint64{n}
	for i := 0; i < len(component); i++ {
		for _, neighbor := range v.Neighbors(component[i]) {
			if !visited[neighbor] {
				visited[neighbor] = true
				component = append(component, neighbor)
			}
		}
	}
	return component
}

// Density returns 2m / (n(n-1)), or 0 for graphs with fewer than two nodes
func Density(v View) float64 {
	n := v.NodeCount()
	if n <= 1 {
		return 0.0
	}
	return 2.0 * float64(v.EdgeCount()) / (float64(n) * float64(n-1))
}
