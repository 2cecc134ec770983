package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/etf-strategy/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// returnsTable builds an aligned table whose close series realize the
// given daily returns, starting from 100.
func returnsTable(returns map[string][]float64) *models.PriceTable {
	table := &models.PriceTable{Bars: map[string][]models.PriceBar{}}
	for symbol, rs := range returns {
		closes := []float64{100}
		for _, r := range rs {
			closes = append(closes, closes[len(closes)-1]*(1+r))
		}
		bars := make([]models.PriceBar, len(closes))
		for i, c := range closes {
			bars[i] = models.PriceBar{Date: day(i), Open: c, High: c + 1, Low: c - 1, Close: c}
		}
		table.Bars[symbol] = bars
		if len(table.Dates) == 0 {
			for i := range closes {
				table.Dates = append(table.Dates, day(i))
			}
		}
	}
	return table
}

func quoteSnapshot(prices map[string]float64) models.QuoteSnapshot {
	quotes := models.QuoteSnapshot{}
	for symbol, price := range prices {
		quotes[symbol] = models.Quote{Symbol: symbol, Last: price}
	}
	return quotes
}

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestSellCandidates(t *testing.T) {
	selector := NewSelector()

	t.Run("keeps only positions above the day profit threshold", func(t *testing.T) {
		positions := []models.Position{
			{Symbol: "WIN", Quantity: 100, DayProfitLossPct: 0.02},
			{Symbol: "FLAT", Quantity: 50, DayProfitLossPct: 0.005},
			{Symbol: "LOSS", Quantity: 25, DayProfitLossPct: -0.03},
		}

		candidates := selector.SellCandidates(positions)
		require.Len(t, candidates, 1)
		assert.Equal(t, "WIN", candidates[0].Symbol)
		assert.Equal(t, 100, candidates[0].Quantity)
	})

	t.Run("empty input yields no candidates", func(t *testing.T) {
		assert.Empty(t, selector.SellCandidates(nil))
	})
}

func TestBuyRanking(t *testing.T) {
	// COOL rallied early and stalled; STEADY kept rising. COOL's recent
	// sum is lower, so its contrarian score is higher.
	cool := append(repeat(0.02, 30), repeat(0.0, 30)...)
	steady := repeat(0.01, 60)
	table := returnsTable(map[string][]float64{"COOL": cool, "STEADY": steady})
	quotes := quoteSnapshot(map[string]float64{"COOL": 50, "STEADY": 25})

	t.Run("ranks cooling momentum first and sizes by quote", func(t *testing.T) {
		selector := NewSelector()
		ranked := selector.BuyRanking(table, []string{"STEADY", "COOL"}, quotes)

		require.Len(t, ranked, 2)
		assert.Equal(t, "COOL", ranked[0].Symbol)
		assert.Greater(t, ranked[0].Score, ranked[1].Score)
		assert.Equal(t, 10, ranked[0].Quantity) // 500 / 50
		assert.Equal(t, 20, ranked[1].Quantity) // 500 / 25
	})

	t.Run("slice bounds limit the picks", func(t *testing.T) {
		selector := NewSelector()
		selector.SliceHigh = 1

		ranked := selector.BuyRanking(table, []string{"STEADY", "COOL"}, quotes)
		require.Len(t, ranked, 1)
		assert.Equal(t, "COOL", ranked[0].Symbol)
	})

	t.Run("inverted slice bounds degrade to empty", func(t *testing.T) {
		selector := NewSelector()
		selector.SliceLow = 5
		selector.SliceHigh = 1

		assert.Empty(t, selector.BuyRanking(table, []string{"STEADY", "COOL"}, quotes))
	})

	t.Run("negative slice bounds degrade to empty", func(t *testing.T) {
		selector := NewSelector()
		selector.SliceLow = -3
		selector.SliceHigh = -1

		assert.Empty(t, selector.BuyRanking(table, []string{"STEADY", "COOL"}, quotes))
	})

	t.Run("symbols with short history or no quote are skipped", func(t *testing.T) {
		short := returnsTable(map[string][]float64{"NEW": repeat(0.01, 10)})
		selector := NewSelector()

		assert.Empty(t, selector.BuyRanking(short, []string{"NEW", "GHOST"}, quotes))
	})
}

func TestBuildSellOrders(t *testing.T) {
	// Constant open-to-high move of 2 with zero deviation makes the
	// ladder band exact: ask+0.2 up to ask+2.
	bars := make([]models.PriceBar, 10)
	dates := make([]time.Time, 10)
	for i := range bars {
		bars[i] = models.PriceBar{Date: day(i), Open: 100, High: 102, Low: 99, Close: 101}
		dates[i] = day(i)
	}
	table := &models.PriceTable{Dates: dates, Bars: map[string][]models.PriceBar{"AAA": bars}}
	quotes := quoteSnapshot(map[string]float64{"AAA": 110})

	t.Run("builds an ascending sell ladder", func(t *testing.T) {
		selector := NewSelector()
		positions := []models.Position{{Symbol: "AAA", Quantity: 100, DayProfitLossPct: 0.05}}

		orders := selector.BuildSellOrders(positions, table, quotes)
		require.Len(t, orders, 18)

		total := 0
		for i, order := range orders {
			assert.Equal(t, models.InstructionSell, order.Instruction)
			assert.Equal(t, "AAA", order.Symbol)
			if i > 0 {
				assert.Greater(t, order.Price, orders[i-1].Price)
			}
			total += order.Quantity
		}
		assert.LessOrEqual(t, total, 100)
		assert.InDelta(t, 110.2, orders[0].Price, 1e-9)
		assert.InDelta(t, 112.0, orders[17].Price, 1e-9)
	})

	t.Run("a symbol without a quote is skipped, not fatal", func(t *testing.T) {
		selector := NewSelector()
		positions := []models.Position{
			{Symbol: "GHOST", Quantity: 100, DayProfitLossPct: 0.05},
			{Symbol: "AAA", Quantity: 100, DayProfitLossPct: 0.05},
		}

		orders := selector.BuildSellOrders(positions, table, quotes)
		require.NotEmpty(t, orders)
		for _, order := range orders {
			assert.Equal(t, "AAA", order.Symbol)
		}
	})

	t.Run("positions below the threshold produce nothing", func(t *testing.T) {
		selector := NewSelector()
		positions := []models.Position{{Symbol: "AAA", Quantity: 100, DayProfitLossPct: 0.002}}

		assert.Empty(t, selector.BuildSellOrders(positions, table, quotes))
	})
}

func TestBuildBuyOrders(t *testing.T) {
	table := returnsTable(map[string][]float64{"CCC": repeat(0.001, 65)})
	quotes := quoteSnapshot(map[string]float64{"CCC": 50})

	t.Run("builds a descending buy ladder", func(t *testing.T) {
		selector := NewSelector()

		orders := selector.BuildBuyOrders(table, []string{"CCC"}, quotes)
		require.NotEmpty(t, orders)

		for i, order := range orders {
			assert.Equal(t, models.InstructionBuy, order.Instruction)
			assert.Greater(t, order.Quantity, 0)
			if i > 0 {
				assert.LessOrEqual(t, order.Price, orders[i-1].Price)
			}
		}
		assert.Less(t, orders[0].Price, 50.0)
	})

	t.Run("no candidates yields no orders", func(t *testing.T) {
		selector := NewSelector()
		assert.Empty(t, selector.BuildBuyOrders(table, nil, quotes))
	})
}
