package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/quantfold/etf-strategy/internal/models"
)

// NumFactors is the fixed rank of the factor decomposition.
const NumFactors = 4

// FactorResult is the output of the principal-component decomposition of a
// multi-symbol price table.
//
// NormLoadings is factor-major: NormLoadings[f][d] is factor f's score on
// date d, with each factor vector normalized to unit L2 norm. Projections
// is Projections[f][s]: the weight of symbol s on factor f, the matrix
// product of the normalized loadings with the raw (non-standardized) close
// prices.
//
// Factor sign is fixed only up to the decomposition's convention; callers
// must not depend on loading sign across implementations.
type FactorResult struct {
	Symbols      []string    `json:"symbols"`
	Dates        []time.Time `json:"dates"`
	NormLoadings [][]float64 `json:"norm_loadings"`
	Projections  [][]float64 `json:"projections"`
}

// Factors computes a NumFactors-component principal-component decomposition
// of the standardized close-price series. Symbols are processed in sorted
// order so the output layout is deterministic. A zero-variance symbol fails
// the whole decomposition with ErrDegenerateSeries.
func Factors(table *models.PriceTable) (*FactorResult, error) {
	n := table.Len()
	symbols := table.Symbols()
	sort.Strings(symbols)
	p := len(symbols)

	if n < NumFactors {
		return nil, fmt.Errorf("%w: need at least %d dates, have %d", ErrInsufficientHistory, NumFactors, n)
	}
	if p < NumFactors {
		return nil, fmt.Errorf("%w: need at least %d symbols, have %d", ErrInsufficientHistory, NumFactors, p)
	}

	// Standardize each symbol's closes; keep the raw closes for the
	// projection step.
	raw := mat.NewDense(n, p, nil)
	std := mat.NewDense(n, p, nil)
	for j, symbol := range symbols {
		closes, _ := table.Closes(symbol)
		mean := stat.Mean(closes, nil)
		sd := stat.StdDev(closes, nil)
		if sd == 0 {
			return nil, fmt.Errorf("%w: %s has zero variance", ErrDegenerateSeries, symbol)
		}
		for i, c := range closes {
			raw.Set(i, j, c)
			std.Set(i, j, (c-mean)/sd)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(std, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// Scores of the standardized data on the first NumFactors components.
	var scores mat.Dense
	scores.Mul(std, vectors.Slice(0, p, 0, NumFactors))

	// Normalize each factor's loading vector to unit L2 norm.
	loadings := make([][]float64, NumFactors)
	for f := 0; f < NumFactors; f++ {
		col := mat.Col(nil, f, &scores)
		norm := math.Sqrt(floats.Dot(col, col))
		for i := range col {
			col[i] /= norm
		}
		loadings[f] = col
	}

	// Project the raw prices onto the normalized loadings.
	projections := make([][]float64, NumFactors)
	for f := 0; f < NumFactors; f++ {
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += loadings[f][i] * raw.At(i, j)
			}
			row[j] = sum
		}
		projections[f] = row
	}

	return &FactorResult{
		Symbols:      symbols,
		Dates:        table.Dates,
		NormLoadings: loadings,
		Projections:  projections,
	}, nil
}
