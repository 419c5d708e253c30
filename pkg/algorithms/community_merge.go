package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/partition"
)

// MergeSmallCommunities turns the components of a pruned graph into a
// partition. Components of at least minSize nodes are kept as they are.
// Each smaller fragment is folded into the first community holding an
// endpoint of its recorded bridge edge, unless it is already contained in
// that community; fragments with no bridge or no target stay standalone.
// Nodes of g not covered afterwards are added as singletons.
func MergeSmallCommunities(g graph.View, bridges BridgeMap, minSize int) partition.Partition {
	if minSize <= 0 {
		minSize = DefaultMinCommunitySize
	}

	components := graph.ConnectedComponents(g)
	merged := make(partition.Partition, 0, len(components))
	small := make([]partition.Community, 0)
	for _, comp := range components {
		c := partition.NewCommunity(comp...)
		if len(c) >= minSize {
			merged = append(merged, c)
		} else {
			small = append(small, c)
		}
	}

	for _, s := range small {
		bridge, ok := bridges.Lookup(s)
		if !ok {
			merged = append(merged, s)
			continue
		}

		target := -1
		for i, c := range merged {
			if (c.Contains(bridge.U) || c.Contains(bridge.V)) && !s.IsSubsetOf(c) {
				target = i
				break
			}
		}
		if target < 0 {
			merged = append(merged, s)
			continue
		}

		t := merged[target]
		kept := merged[:0:0]
		for _, c := range merged {
			if !c.Equal(t) {
				kept = append(kept, c)
			}
		}
		merged = append(kept, t.Union(s))
	}

	covered := make(map[uint64]bool)
	for _, c := range merged {
		for _, n := range c {
			covered[n] = true
		}
	}
	for _, n := range g.Nodes() {
		if !covered[n] {
			merged = append(merged, partition.NewCommunity(n))
			covered[n] = true
		}
	}

	return merged
}
