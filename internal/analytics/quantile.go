package analytics

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of sorted values by linear interpolation
// between the two closest ranks.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// QuantileEdges returns the q+1 quantile cut points of values with
// duplicate edges removed. Fewer than q+1 edges means bins were merged.
func QuantileEdges(values []float64, q int) []float64 {
	if len(values) == 0 || q < 1 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, q+1)
	for k := 0; k <= q; k++ {
		e := Quantile(sorted, float64(k)/float64(q))
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

// QuantileBins assigns every value a 1-based bin over q quantile bins. Bin i
// covers (edge[i-1], edge[i]]; the lowest edge belongs to bin 1. When the
// population has too few distinct values, duplicate edges are dropped and
// fewer than q bins are used. A population with a single distinct value
// lands entirely in bin 1.
func QuantileBins(values []float64, q int) ([]int, []float64) {
	edges := QuantileEdges(values, q)
	bins := make([]int, len(values))
	if len(edges) < 2 {
		for i := range bins {
			bins[i] = 1
		}
		return bins, edges
	}

	upper := edges[1:]
	for i, v := range values {
		b := sort.SearchFloat64s(upper, v)
		if b >= len(upper) {
			b = len(upper) - 1
		}
		bins[i] = b + 1
	}
	return bins, edges
}
