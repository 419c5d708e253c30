package algorithms

import (
	"math"

	"github.com/dd0wney/cluso-communities/pkg/partition"
)

// machineEpsilon floors the NMI normalizer (float64 eps, 2^-52)
const machineEpsilon = 2.220446049250313e-16

// NMI computes the normalized mutual information between two partitions,
// normalized by the arithmetic mean of their entropies.
//
// When universe is nil it defaults to the sorted union of both partitions.
// Nodes missing from a partition get the label -1, which acts as one more
// cluster. Two single-label (or empty) labelings score 1.
func NMI(a, b partition.Partition, universe []uint64) float64 {
	if universe == nil {
		universe = append(a.Nodes(), b.Nodes()...)
		universe = partition.NewCommunity(universe...)
	}
	return NMIFromLabels(a.Labels(universe), b.Labels(universe))
}

// NMIFromLabels computes the normalized mutual information of two label
// vectors of equal length.
func NMIFromLabels(labelsA, labelsB []int) float64 {
	n := len(labelsA)
	if n != len(labelsB) {
		return 0.0
	}

	countA := make(map[int]int)
	countB := make(map[int]int)
	joint := make(map[[2]int]int)
	for i := 0; i < n; i++ {
		countA[labelsA[i]]++
		countB[labelsB[i]]++
		joint[[2]int{labelsA[i], labelsB[i]}]++
	}

	// no split at all on either side is a perfect match
	if (len(countA) == 1 && len(countB) == 1) || (len(countA) == 0 && len(countB) == 0) {
		return 1.0
	}

	total := float64(n)
	mi := 0.0
	for key, nij := range joint {
		pij := float64(nij) / total
		pi := float64(countA[key[0]]) / total
		pj := float64(countB[key[1]]) / total
		mi += pij * math.Log(pij/(pi*pj))
	}
	if mi <= 0 {
		return 0.0
	}

	return normalizeMI(mi, entropy(countA, total), entropy(countB, total))
}

// normalizeMI divides mi by the arithmetic mean of the two entropies,
// floored at machineEpsilon
func normalizeMI(mi, hA, hB float64) float64 {
	normalizer := math.Max((hA+hB)/2.0, machineEpsilon)

	nmi := mi / normalizer
	if nmi > 1.0 {
		nmi = 1.0
	}
	return nmi
}

func entropy(counts map[int]int, total float64) float64 {
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log(p)
	}
	return h
}
