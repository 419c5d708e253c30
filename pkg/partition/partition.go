// Package partition holds the community and partition value types shared by
// detection, event tracking and partition metrics.
package partition

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrEmptyPartition is returned for a partition with no communities
	ErrEmptyPartition = errors.New("partition has no communities")
	// ErrEmptyCommunity is returned when a partition holds an empty community
	ErrEmptyCommunity = errors.New("partition contains an empty community")
)

// Community is a set of node IDs kept as a sorted, duplicate-free slice
type Community []uint64

// NewCommunity normalizes nodes into a Community
func NewCommunity(nodes ...uint64) Community {
	c := make(Community, len(nodes))
	copy(c, nodes)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })

	out := c[:0]
	for i, n := range c {
		if i == 0 || n != c[i-1] {
			out = append(out, n)
		}
	}
	return out
}

// Contains reports whether n is a member
func (c Community) Contains(n uint64) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i] >= n })
	return i < len(c) && c[i] == n
}

// IntersectionSize returns |c ∩ o|
func (c Community) IntersectionSize(o Community) int {
	count := 0
	i, j := 0, 0
	for i < len(c) && j < len(o) {
		switch {
		case c[i] == o[j]:
			count++
			i++
			j++
		case c[i] < o[j]:
			i++
		default:
			j++
		}
	}
	return count
}

// UnionSize returns |c ∪ o|
func (c Community) UnionSize(o Community) int {
	return len(c) + len(o) - c.IntersectionSize(o)
}

// Union returns c ∪ o as a new Community
func (c Community) Union(o Community) Community {
	merged := make(Community, 0, len(c)+len(o))
	i, j := 0, 0
	for i < len(c) || j < len(o) {
		switch {
		case j >= len(o) || (i < len(c) && c[i] < o[j]):
			merged = append(merged, c[i])
			i++
		case i >= len(c) || o[j] < c[i]:
			merged = append(merged, o[j])
			j++
		default:
			merged = append(merged, c[i])
			i++
			j++
		}
	}
	return merged
}

// Jaccard returns |c ∩ o| / |c ∪ o|, 0 when both are empty
func (c Community) Jaccard(o Community) float64 {
	union := c.UnionSize(o)
	if union == 0 {
		return 0.0
	}
	return float64(c.IntersectionSize(o)) / float64(union)
}

// IsSubsetOf reports whether every member of c is in o
func (c Community) IsSubsetOf(o Community) bool {
	return c.IntersectionSize(o) == len(c)
}

// Equal reports set equality
func (c Community) Equal(o Community) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical, order-independent key for a node set
func Key(nodes []uint64) string {
	c := NewCommunity(nodes...)
	var b strings.Builder
	for i, n := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(n, 10))
	}
	return b.String()
}

// Key returns the canonical key of the community
func (c Community) Key() string {
	return Key(c)
}

// Partition is an ordered list of communities
type Partition []Community

// Validate checks that the partition is usable for metrics and tracking
func (p Partition) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPartition
	}
	for _, c := range p {
		if len(c) == 0 {
			return ErrEmptyCommunity
		}
	}
	return nil
}

// Nodes returns the sorted union of all communities
func (p Partition) Nodes() []uint64 {
	seen := make(map[uint64]struct{})
	for _, c := range p {
		for _, n := range c {
			seen[n] = struct{}{}
		}
	}
	nodes := make([]uint64, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// IsDisjoint reports whether no node appears in two communities
func (p Partition) IsDisjoint() bool {
	seen := make(map[uint64]struct{})
	for _, c := range p {
		for _, n := range c {
			if _, dup := seen[n]; dup {
				return false
			}
			seen[n] = struct{}{}
		}
	}
	return true
}

// Covers reports whether the union of communities equals nodes
func (p Partition) Covers(nodes []uint64) bool {
	union := p.Nodes()
	want := NewCommunity(nodes...)
	return Community(union).Equal(want)
}

// Labels assigns each node of universe the index of the community holding
// it, or -1 when no community does. A node listed in several communities
// takes the index of the last one.
func (p Partition) Labels(universe []uint64) []int {
	index := make(map[uint64]int, len(universe))
	for i, n := range universe {
		index[n] = i
	}

	labels := make([]int, len(universe))
	for i := range labels {
		labels[i] = -1
	}
	for idx, c := range p {
		for _, n := range c {
			if pos, ok := index[n]; ok {
				labels[pos] = idx
			}
		}
	}
	return labels
}

// Sorted returns plain sorted node lists, one per community
func (p Partition) Sorted() [][]uint64 {
	out := make([][]uint64, len(p))
	for i, c := range p {
		out[i] = append([]uint64(nil), NewCommunity(c...)...)
	}
	return out
}

// FromLists builds a partition from raw node lists
func FromLists(lists ...[]uint64) Partition {
	p := make(Partition, len(lists))
	for i, l := range lists {
		p[i] = NewCommunity(l...)
	}
	return p
}
