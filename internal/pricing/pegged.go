package pricing

import (
	"fmt"
	"math"

	"github.com/quantfold/etf-strategy/internal/models"
)

// PeggedParams configures a ratio-pegged order pair.
type PeggedParams struct {
	Symbol      string
	Instruction string
	Amount      float64
	RefSymbol   string
	Quotes      models.QuoteSnapshot
}

// AutoPegged computes the parameters for an order pegged to a reference
// symbol. The cheaper asset's minimum tick stays at one cent and the
// pricier asset's tick scales with the price ratio so both legs move in
// comparable dollar increments.
func AutoPegged(p PeggedParams) (*models.PeggedOrderSpec, error) {
	if p.Instruction != models.InstructionBuy && p.Instruction != models.InstructionSell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInstruction, p.Instruction)
	}
	quote, ok := p.Quotes.Last(p.Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingQuote, p.Symbol)
	}
	refQuote, ok := p.Quotes.Last(p.RefSymbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingQuote, p.RefSymbol)
	}
	if quote <= 0 || refQuote <= 0 {
		return nil, fmt.Errorf("%w: non-positive quote for %s/%s", ErrMissingQuote, p.Symbol, p.RefSymbol)
	}

	var pegChange, refChange float64
	ratio := quote / refQuote
	if ratio > 1 {
		refChange = 0.01
		pegChange = 0.01 * math.Floor(ratio)
	} else {
		pegChange = 0.01
		refChange = 0.01 * math.Ceil(1/ratio)
	}

	startingPrice := quote * 1.005
	if p.Instruction == models.InstructionBuy {
		startingPrice = quote * 0.995
	}

	return &models.PeggedOrderSpec{
		Symbol:          p.Symbol,
		Instruction:     p.Instruction,
		Quantity:        shareCount(p.Amount, quote),
		StartingPrice:   Round2(startingPrice),
		TimeInForce:     models.TIFDay,
		PegChangeAmount: pegChange,
		RefChangeAmount: refChange,
		RefSymbol:       p.RefSymbol,
		RefPrice:        refQuote,
		RefLowerPrice:   Round2(0.9 * refQuote),
		RefUpperPrice:   Round2(1.1 * refQuote),
	}, nil
}
