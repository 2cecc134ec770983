package analytics

import "errors"

var (
	// ErrInsufficientHistory means too few bars were supplied for the
	// requested computation.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrDegenerateSeries means a symbol's series has zero variance and
	// cannot be standardized.
	ErrDegenerateSeries = errors.New("degenerate price series")
)
