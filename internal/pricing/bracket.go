package pricing

import (
	"fmt"
	"math"

	"github.com/quantfold/etf-strategy/internal/analytics"
	"github.com/quantfold/etf-strategy/internal/models"
)

const (
	// defaultAmount is the dollar amount used to size an order when no
	// explicit quantity is given.
	defaultAmount = 1000

	// historyDays is the trailing bar window used to calibrate smart
	// brackets. Shorter available history silently shrinks the window.
	historyDays = 50

	// defaultLimitPercent and defaultProfitPercent are the fixed offsets
	// for easy brackets, signed so a BUY profits on a rise and a SELL on
	// a fall.
	defaultLimitPercent  = 0.3
	defaultProfitPercent = 0.3

	// defaultProb is the fill probability used when a smart bracket does
	// not specify one.
	defaultProb = 0.5
)

// EasyBracketParams configures a fixed-percent bracket order.
// Quantity 0 derives the share count from Amount; nil percents pick the
// instruction-appropriate defaults.
type EasyBracketParams struct {
	Symbol        string
	Instruction   string
	Quantity      int
	Amount        float64
	LimitPercent  *float64
	ProfitPercent *float64
	Quotes        models.QuoteSnapshot
}

// EasyBracket computes a bracket order with limit and profit prices at
// fixed percent offsets from the current quote.
func EasyBracket(p EasyBracketParams) (*models.OrderSpec, error) {
	if p.Instruction != models.InstructionBuy && p.Instruction != models.InstructionSell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInstruction, p.Instruction)
	}
	quote, ok := p.Quotes.Last(p.Symbol)
	if !ok || quote <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingQuote, p.Symbol)
	}

	limitPercent := defaultLimitPercent
	profitPercent := defaultProfitPercent
	if p.Instruction == models.InstructionBuy {
		limitPercent = -limitPercent
	} else {
		profitPercent = -profitPercent
	}
	if p.LimitPercent != nil {
		limitPercent = *p.LimitPercent
	}
	if p.ProfitPercent != nil {
		profitPercent = *p.ProfitPercent
	}
	if err := validPercent(limitPercent); err != nil {
		return nil, err
	}
	if err := validPercent(profitPercent); err != nil {
		return nil, err
	}

	limitPrice := Round2(quote * (1 + limitPercent/100))
	profitPrice := Round2(limitPrice * (1 + profitPercent/100))

	quantity := p.Quantity
	if quantity == 0 {
		quantity = shareCount(p.Amount, quote)
	}

	return &models.OrderSpec{
		Symbol:              p.Symbol,
		Instruction:         p.Instruction,
		Quantity:            quantity,
		Price:               limitPrice,
		TimeInForce:         models.TIFDay,
		OutsideRegularHours: true,
		ProfitPrice:         profitPrice,
	}, nil
}

// SmartBracketParams configures a quantile-calibrated bracket order.
// Probabilities closer to 1 pull the prices toward the current quote
// (likelier fill, less edge); nil probabilities default to 0.5.
type SmartBracketParams struct {
	Symbol      string
	Instruction string
	Amount      float64
	LimitProb   *float64
	ProfitProb  *float64
	Bars        *models.PriceTable
	Quotes      models.QuoteSnapshot
}

// SmartBracket computes a bracket order whose limit and profit offsets are
// quantiles of the intraday ranges over the trailing history window.
func SmartBracket(p SmartBracketParams) (*models.OrderSpec, error) {
	if p.Instruction != models.InstructionBuy && p.Instruction != models.InstructionSell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInstruction, p.Instruction)
	}
	limitProb := defaultProb
	profitProb := defaultProb
	if p.LimitProb != nil {
		limitProb = *p.LimitProb
	}
	if p.ProfitProb != nil {
		profitProb = *p.ProfitProb
	}
	if limitProb < 0 || limitProb > 1 || profitProb < 0 || profitProb > 1 {
		return nil, fmt.Errorf("%w: limit=%v profit=%v", ErrInvalidProbability, limitProb, profitProb)
	}

	quote, ok := p.Quotes.Last(p.Symbol)
	if !ok || quote <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingQuote, p.Symbol)
	}
	bars, ok := p.Bars.Tail(historyDays).Bars[p.Symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSymbol, p.Symbol)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", analytics.ErrInsufficientHistory, p.Symbol)
	}

	low := make([]float64, len(bars))
	high := make([]float64, len(bars))
	hilo := make([]float64, len(bars))
	for i, b := range bars {
		low[i] = b.Open - b.Low
		high[i] = b.High - b.Open
		hilo[i] = b.High - b.Low
	}

	var limitPrice, profitPrice float64
	if p.Instruction == models.InstructionBuy {
		limitPrice = quote - analytics.Quantile(low, 1-limitProb)
		profitPrice = limitPrice + analytics.Quantile(hilo, 1-profitProb)
	} else {
		limitPrice = quote + analytics.Quantile(high, 1-limitProb)
		profitPrice = limitPrice - analytics.Quantile(hilo, 1-profitProb)
	}

	return &models.OrderSpec{
		Symbol:              p.Symbol,
		Instruction:         p.Instruction,
		Quantity:            shareCount(p.Amount, quote),
		Price:               Round2(limitPrice),
		TimeInForce:         models.TIFDay,
		OutsideRegularHours: true,
		ProfitPrice:         Round2(profitPrice),
	}, nil
}

func validPercent(percent float64) error {
	if percent <= -100 || percent >= 100 {
		return fmt.Errorf("%w: %v", ErrInvalidPercent, percent)
	}
	return nil
}

// shareCount sizes an order as whole shares of amount dollars at the given
// quote, defaulting the amount when unset.
func shareCount(amount, quote float64) int {
	if amount == 0 {
		amount = defaultAmount
	}
	return int(amount / quote)
}

// Round2 rounds a price to cents. Rounding is always applied last.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
