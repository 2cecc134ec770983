package pricing

// maxTranches caps the number of price levels in one ladder.
const maxTranches = 20

// Tranche is one (quantity, price) rung of an order ladder.
type Tranche struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Ladder is an ordered sequence of tranches. Prices step monotonically in
// the order the ladder was built: ascending for SELL scans, descending for
// BUY scans.
type Ladder []Tranche

// Allocated returns the total share count across all tranches. Floor
// rounding in SplitQuantity may leave this short of the requested total;
// the residual stays unassigned.
func (l Ladder) Allocated() int {
	var total int
	for _, t := range l {
		total += t.Quantity
	}
	return total
}

// SplitQuantity splits total shares into tranches of progressively
// increasing size. Weights follow the triangular progression 2, 4, ...,
// 2*(cap-1) with cap = min(20, total); each tranche gets the floor of its
// scaled weight and zero-share tranches are dropped. Totals of 0 or 1
// yield an empty split.
func SplitQuantity(total int) []int {
	n := total
	if n > maxTranches {
		n = maxTranches
	}
	if n < 2 {
		return nil
	}

	weights := make([]int, 0, n-1)
	sum := 0
	for i := 1; i < n; i++ {
		weights = append(weights, 2*i)
		sum += 2 * i
	}

	scale := float64(total) / float64(sum)
	quantities := make([]int, 0, len(weights))
	for _, w := range weights {
		q := int(scale * float64(w))
		if q != 0 {
			quantities = append(quantities, q)
		}
	}
	return quantities
}

// PriceLevels returns n evenly spaced prices from first to last inclusive.
// n == 1 yields just first; first > last steps downward.
func PriceLevels(first, last float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{first}
	}
	step := (last - first) / float64(n-1)
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = first + float64(i)*step
	}
	return prices
}

// BuildLadder splits total shares across evenly spaced price levels from
// first to last. Tranche index determines both quantity and price, so the
// levels are generated in a fixed order.
func BuildLadder(total int, first, last float64) Ladder {
	quantities := SplitQuantity(total)
	if len(quantities) == 0 {
		return nil
	}
	prices := PriceLevels(first, last, len(quantities))
	ladder := make(Ladder, len(quantities))
	for i, q := range quantities {
		ladder[i] = Tranche{Quantity: q, Price: prices[i]}
	}
	return ladder
}
