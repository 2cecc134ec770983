package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitQuantity(t *testing.T) {
	t.Run("splits 100 shares into capped increasing tranches", func(t *testing.T) {
		quantities := SplitQuantity(100)

		// cap = 20 gives 19 weights; the smallest floors to zero and is
		// dropped.
		assert.Len(t, quantities, 18)

		total := 0
		for i, q := range quantities {
			assert.Greater(t, q, 0)
			if i > 0 {
				assert.GreaterOrEqual(t, q, quantities[i-1])
			}
			total += q
		}
		assert.LessOrEqual(t, total, 100)
	})

	t.Run("allocates exactly when the total matches the weight sum", func(t *testing.T) {
		// weights 2..38 sum to 380, so scale is exactly 1
		quantities := SplitQuantity(380)

		require.Len(t, quantities, 19)
		total := 0
		for i, q := range quantities {
			assert.Equal(t, 2*(i+1), q)
			total += q
		}
		assert.Equal(t, 380, total)
	})

	t.Run("zero and single-share totals yield an empty split", func(t *testing.T) {
		assert.Empty(t, SplitQuantity(0))
		assert.Empty(t, SplitQuantity(1))
	})

	t.Run("two shares yield a single tranche", func(t *testing.T) {
		assert.Equal(t, []int{2}, SplitQuantity(2))
	})
}

func TestPriceLevels(t *testing.T) {
	t.Run("spaces prices evenly and inclusively", func(t *testing.T) {
		prices := PriceLevels(10, 12, 5)

		require.Len(t, prices, 5)
		assert.InDelta(t, 10, prices[0], 1e-9)
		assert.InDelta(t, 10.5, prices[1], 1e-9)
		assert.InDelta(t, 12, prices[4], 1e-9)
	})

	t.Run("steps downward when first exceeds last", func(t *testing.T) {
		prices := PriceLevels(12, 10, 3)

		require.Len(t, prices, 3)
		assert.InDelta(t, 12, prices[0], 1e-9)
		assert.InDelta(t, 11, prices[1], 1e-9)
		assert.InDelta(t, 10, prices[2], 1e-9)
	})

	t.Run("single level is the first price", func(t *testing.T) {
		assert.Equal(t, []float64{10.0}, PriceLevels(10, 12, 1))
	})
}

func TestBuildLadder(t *testing.T) {
	t.Run("assigns one price per tranche in order", func(t *testing.T) {
		ladder := BuildLadder(380, 100, 103.6)

		require.Len(t, ladder, 19)
		assert.InDelta(t, 100, ladder[0].Price, 1e-9)
		assert.InDelta(t, 103.6, ladder[18].Price, 1e-9)
		for i := 1; i < len(ladder); i++ {
			assert.Greater(t, ladder[i].Price, ladder[i-1].Price)
			assert.GreaterOrEqual(t, ladder[i].Quantity, ladder[i-1].Quantity)
		}
		assert.Equal(t, 380, ladder.Allocated())
	})

	t.Run("under-allocation stays unassigned", func(t *testing.T) {
		ladder := BuildLadder(100, 50, 60)
		assert.Less(t, ladder.Allocated(), 100)
	})

	t.Run("empty for zero quantity", func(t *testing.T) {
		assert.Empty(t, BuildLadder(0, 50, 60))
	})
}
