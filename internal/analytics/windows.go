package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/quantfold/etf-strategy/internal/models"
)

// WindowStat is the scaled-return statistic for one window length.
// Mean is the retained output: the plain mean of the most recent Window
// returns. RollingAvg and RollingStd describe the distribution of all
// same-length window sums over the series and are diagnostic only.
type WindowStat struct {
	Window     int     `json:"window"`
	Mean       float64 `json:"mean"`
	RollingAvg float64 `json:"rolling_avg"`
	RollingStd float64 `json:"rolling_std"`
}

// WindowStats computes windowed return statistics for a single return
// series, oldest first. The series is reversed internally so window 1
// covers only the most recent return. Window lengths run from 1 to
// (len+1)/4 - 1; a series too short for even window 1 yields an empty
// result, not an error.
func WindowStats(returns []float64) []WindowStat {
	m := len(returns)
	maxWindow := (m + 1) / 4
	if maxWindow < 2 {
		return nil
	}

	recent := reversed(returns)
	stats := make([]WindowStat, 0, maxWindow-1)
	for w := 1; w < maxWindow; w++ {
		sums := windowSums(recent, w)
		stats = append(stats, WindowStat{
			Window:     w,
			Mean:       stat.Mean(recent[:w], nil),
			RollingAvg: stat.Mean(sums, nil),
			RollingStd: stat.StdDev(sums, nil),
		})
	}
	return stats
}

// WindowTable computes WindowStats for every symbol in the table from its
// close-price returns.
func WindowTable(table *models.PriceTable) map[string][]WindowStat {
	out := make(map[string][]WindowStat, len(table.Bars))
	for _, symbol := range table.Symbols() {
		closes, _ := table.Closes(symbol)
		out[symbol] = WindowStats(PctChange(closes))
	}
	return out
}

// windowSums returns the sums of every contiguous window of length w.
func windowSums(xs []float64, w int) []float64 {
	sums := make([]float64, 0, len(xs)-w+1)
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= w {
			sum -= xs[i-w]
		}
		if i >= w-1 {
			sums = append(sums, sum)
		}
	}
	return sums
}
