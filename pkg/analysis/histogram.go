package analysis

import "math"

// NewHistogram bins values into bins equal-width buckets spanning their
// min and max. When all values are equal the range is widened by 0.5 on
// each side. An empty input gives all-zero counts over [0, 0].
func NewHistogram(values []float64, bins int) Histogram {
	if bins <= 0 {
		bins = HistogramBins
	}
	h := Histogram{Bins: bins, Counts: make([]int, bins)}
	if len(values) == 0 {
		return h
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	h.Min, h.Max = lo, hi

	width := (hi - lo) / float64(bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		// the upper edge belongs to the last bin
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// Total returns the number of binned values
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}
