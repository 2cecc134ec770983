package pricing

import "errors"

var (
	// ErrMissingQuote means the symbol is absent from the quote snapshot.
	ErrMissingQuote = errors.New("missing quote")

	// ErrMissingSymbol means the symbol is absent from the price table.
	ErrMissingSymbol = errors.New("missing symbol")

	// ErrInvalidProbability means a fill probability fell outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be in [0, 1]")

	// ErrInvalidPercent means a percent offset fell outside (-100, 100).
	ErrInvalidPercent = errors.New("percent must be in (-100, 100)")

	// ErrInvalidInstruction means the instruction was not BUY or SELL.
	ErrInvalidInstruction = errors.New("instruction must be BUY or SELL")
)
