package partition

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

func TestNewCommunity_Normalizes(t *testing.T) {
	c := NewCommunity(5, 1, 3, 1, 5)
	if !reflect.DeepEqual(c, Community{1, 3, 5}) {
		t.Errorf("NewCommunity = %v, want [1 3 5]", c)
	}
}

func TestCommunity_SetOperations(t *testing.T) {
	a := NewCommunity(1, 2, 3)
	b := NewCommunity(1, 2, 3, 4)

	if got := a.IntersectionSize(b); got != 3 {
		t.Errorf("IntersectionSize = %d, want 3", got)
	}
	if got := a.UnionSize(b); got != 4 {
		t.Errorf("UnionSize = %d, want 4", got)
	}
	if got := a.Jaccard(b); got != 0.75 {
		t.Errorf("Jaccard = %v, want 0.75", got)
	}
	if !a.IsSubsetOf(b) || b.IsSubsetOf(a) {
		t.Error("IsSubsetOf gave wrong answer")
	}
	if got := a.Union(NewCommunity(0, 3, 9)); !reflect.DeepEqual(got, Community{0, 1, 2, 3, 9}) {
		t.Errorf("Union = %v, want [0 1 2 3 9]", got)
	}
	if !a.Contains(2) || a.Contains(4) {
		t.Error("Contains gave wrong answer")
	}
	if Community(nil).Jaccard(nil) != 0 {
		t.Error("Jaccard of two empty sets should be 0")
	}
}

func TestKey_OrderIndependent(t *testing.T) {
	if Key([]uint64{3, 1, 2}) != Key([]uint64{2, 3, 1}) {
		t.Error("Key must not depend on element order")
	}
	if Key([]uint64{1, 23}) == Key([]uint64{12, 3}) {
		t.Error("Key must separate node IDs")
	}
	if got := NewCommunity(10, 2).Key(); got != "2,10" {
		t.Errorf("Key = %q, want \"2,10\"", got)
	}
}

func TestPartition_Validate(t *testing.T) {
	if err := (Partition{}).Validate(); !errors.Is(err, ErrEmptyPartition) {
		t.Errorf("Expected ErrEmptyPartition, got %v", err)
	}
	if err := (Partition{{1}, {}}).Validate(); !errors.Is(err, ErrEmptyCommunity) {
		t.Errorf("Expected ErrEmptyCommunity, got %v", err)
	}
	if err := FromLists([]uint64{1, 2}, []uint64{3}).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPartition_DisjointAndCovers(t *testing.T) {
	p := FromLists([]uint64{1, 2}, []uint64{3})
	if !p.IsDisjoint() {
		t.Error("Expected disjoint partition")
	}
	if !p.Covers([]uint64{3, 2, 1}) {
		t.Error("Expected partition to cover {1,2,3}")
	}
	if p.Covers([]uint64{1, 2, 3, 4}) {
		t.Error("Partition should not cover node 4")
	}

	overlapping := FromLists([]uint64{1, 2}, []uint64{2, 3})
	if overlapping.IsDisjoint() {
		t.Error("Expected overlap to be detected")
	}
}

func TestPartition_Labels(t *testing.T) {
	p := FromLists([]uint64{1, 2}, []uint64{4})
	got := p.Labels([]uint64{1, 2, 3, 4})
	want := []int{0, 0, -1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels = %v, want %v", got, want)
	}

	// last community wins on overlap
	overlap := FromLists([]uint64{1, 2}, []uint64{2})
	if got := overlap.Labels([]uint64{2}); got[0] != 1 {
		t.Errorf("Overlapping node label = %d, want 1", got[0])
	}
}

func TestComputeMetrics(t *testing.T) {
	g, err := graph.FromEdges(
		graph.Edge{U: 1, V: 2}, graph.Edge{U: 2, V: 3}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 4, V: 5}, graph.Edge{U: 5, V: 6}, graph.Edge{U: 4, V: 6},
		graph.Edge{U: 3, V: 4},
	)
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}
	p := FromLists([]uint64{1, 2, 3}, []uint64{4, 5, 6})

	m := ComputeMetrics(g, p)
	if !reflect.DeepEqual(m.InternalEdges, []int{3, 3}) {
		t.Errorf("InternalEdges = %v, want [3 3]", m.InternalEdges)
	}
	if !reflect.DeepEqual(m.DegreeSums, []int{7, 7}) {
		t.Errorf("DegreeSums = %v, want [7 7]", m.DegreeSums)
	}
	if m.CutEdges != 1 || m.TotalEdges != 7 {
		t.Errorf("CutEdges/TotalEdges = %d/%d, want 1/7", m.CutEdges, m.TotalEdges)
	}
	if math.Abs(m.CutRatio-1.0/7.0) > 1e-12 {
		t.Errorf("CutRatio = %v, want 1/7", m.CutRatio)
	}
	if m.LoadBalance != 1 {
		t.Errorf("LoadBalance = %v, want 1", m.LoadBalance)
	}
}
