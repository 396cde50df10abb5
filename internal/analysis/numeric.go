package analysis

import (
	"math"
	"sort"
)

// sortedCopy returns vals sorted ascending without touching the input.
func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between the order statistics of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}

func median(vals []float64) float64 { return quantile(sortedCopy(vals), 0.5) }

// mode returns the most frequent value and its count. Ties go to the value
// encountered first.
func mode(vals []string) (string, int) {
	counts := make(map[string]int, len(vals))
	best, bestN := "", 0
	for _, v := range vals {
		counts[v]++
	}
	for _, v := range vals {
		if n := counts[v]; n > bestN {
			best, bestN = v, n
		}
	}
	return best, bestN
}

func distinct(vals []string) int {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// rowIndex returns 0..n-1 as floats.
func rowIndex(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}
