package pricing

import (
	"github.com/quantfold/etf-strategy/internal/models"
)

type bracketPreset struct {
	instruction string
	amount      float64
	percent     float64
}

type smartPreset struct {
	instruction string
	amount      float64
	probability float64
}

// EasyVolatility builds a symmetric set of BUY and SELL brackets around the
// current quote, intended to profit off daily volatility.
func EasyVolatility(symbol string, quotes models.QuoteSnapshot) ([]models.OrderSpec, error) {
	return easyBatch(symbol, quotes, []bracketPreset{
		{models.InstructionBuy, 1000, -0.2},
		{models.InstructionBuy, 2000, -0.5},
		{models.InstructionSell, 1000, 0.2},
		{models.InstructionSell, 2000, 0.5},
	})
}

// LongBrackets builds a set of BUY brackets at increasing discounts,
// intended to profit off rising prices.
func LongBrackets(symbol string, quotes models.QuoteSnapshot) ([]models.OrderSpec, error) {
	return easyBatch(symbol, quotes, []bracketPreset{
		{models.InstructionBuy, 1000, -0.1},
		{models.InstructionBuy, 1500, -0.3},
		{models.InstructionBuy, 2000, -0.5},
	})
}

// ShortBrackets builds a set of SELL brackets at increasing premiums,
// intended to profit off falling prices.
func ShortBrackets(symbol string, quotes models.QuoteSnapshot) ([]models.OrderSpec, error) {
	return easyBatch(symbol, quotes, []bracketPreset{
		{models.InstructionSell, 1000, 0.1},
		{models.InstructionSell, 1500, 0.3},
		{models.InstructionSell, 2000, 0.5},
	})
}

// SmartVolatility builds quantile-calibrated BUY and SELL brackets. A
// positive bias shifts fill probability toward the buy side, negative
// toward the sell side.
func SmartVolatility(symbol string, bias float64, bars *models.PriceTable, quotes models.QuoteSnapshot) ([]models.OrderSpec, error) {
	presets := []smartPreset{
		{models.InstructionBuy, 1000, 0.7 + bias},
		{models.InstructionBuy, 2000, 0.3 + bias},
		{models.InstructionSell, 1000, 0.7 - bias},
		{models.InstructionSell, 2000, 0.3 - bias},
	}

	orders := make([]models.OrderSpec, 0, len(presets))
	for _, preset := range presets {
		prob := preset.probability
		spec, err := SmartBracket(SmartBracketParams{
			Symbol:      symbol,
			Instruction: preset.instruction,
			Amount:      preset.amount,
			LimitProb:   &prob,
			ProfitProb:  &prob,
			Bars:        bars,
			Quotes:      quotes,
		})
		if err != nil {
			return nil, err
		}
		orders = append(orders, *spec)
	}
	return orders, nil
}

func easyBatch(symbol string, quotes models.QuoteSnapshot, presets []bracketPreset) ([]models.OrderSpec, error) {
	orders := make([]models.OrderSpec, 0, len(presets))
	for _, preset := range presets {
		percent := preset.percent
		spec, err := EasyBracket(EasyBracketParams{
			Symbol:       symbol,
			Instruction:  preset.instruction,
			Amount:       preset.amount,
			LimitPercent: &percent,
			Quotes:       quotes,
		})
		if err != nil {
			return nil, err
		}
		orders = append(orders, *spec)
	}
	return orders, nil
}
