package analytics

import (
	"math"
	"sort"
)

// PctChange returns the fractional change series of prices, one element
// shorter than the input. A zero previous price yields NaN for that element
// rather than an error; zero prices are a data-quality signal upstream.
func PctChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = fracChange(prices[i], prices[i-1])
	}
	return out
}

func fracChange(cur, prev float64) float64 {
	if prev == 0 {
		return math.NaN()
	}
	return (cur - prev) / prev
}

// Quantile returns the q-th quantile of sample using linear interpolation
// between order statistics: the value at fractional rank (n-1)*q of the
// sorted sample. Returns NaN for an empty sample.
func Quantile(sample []float64, q float64) float64 {
	n := len(sample)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	h := float64(n-1) * q
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func reversed(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}
