package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/etf-strategy/internal/models"
)

func TestPresets(t *testing.T) {
	quotes := snapshot(map[string]float64{"SPY": 100})

	t.Run("EasyVolatility brackets both sides", func(t *testing.T) {
		orders, err := EasyVolatility("SPY", quotes)
		require.NoError(t, err)
		require.Len(t, orders, 4)

		assert.Equal(t, models.InstructionBuy, orders[0].Instruction)
		assert.Equal(t, models.InstructionSell, orders[2].Instruction)
		assert.Less(t, orders[0].Price, 100.0)
		assert.Greater(t, orders[2].Price, 100.0)
	})

	t.Run("LongBrackets are all buys at increasing discounts", func(t *testing.T) {
		orders, err := LongBrackets("SPY", quotes)
		require.NoError(t, err)
		require.Len(t, orders, 3)

		for i, order := range orders {
			assert.Equal(t, models.InstructionBuy, order.Instruction)
			if i > 0 {
				assert.Less(t, order.Price, orders[i-1].Price)
			}
		}
	})

	t.Run("ShortBrackets are all sells at increasing premiums", func(t *testing.T) {
		orders, err := ShortBrackets("SPY", quotes)
		require.NoError(t, err)
		require.Len(t, orders, 3)

		for i, order := range orders {
			assert.Equal(t, models.InstructionSell, order.Instruction)
			if i > 0 {
				assert.Greater(t, order.Price, orders[i-1].Price)
			}
		}
	})

	t.Run("SmartVolatility calibrates four brackets", func(t *testing.T) {
		table := rangeTable("SPY",
			[]float64{1, 2, 3, 4, 5},
			[]float64{1, 2, 3, 4, 5},
		)

		orders, err := SmartVolatility("SPY", 0, table, quotes)
		require.NoError(t, err)
		require.Len(t, orders, 4)

		// the likelier-fill buy sits closer to the quote
		assert.Greater(t, orders[0].Price, orders[1].Price)
	})
}
