package strategy

import (
	"log"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/quantfold/etf-strategy/internal/analytics"
	"github.com/quantfold/etf-strategy/internal/models"
	"github.com/quantfold/etf-strategy/internal/pricing"
)

// Default selector tuning. The sell threshold is a day P/L fraction, the
// rolling windows are trading days.
const (
	DefaultSellThreshold = 0.01
	DefaultBuyAmount     = 500
	DefaultSliceLow      = 0
	DefaultSliceHigh     = 10

	trailingWindow = 60
	recentWindow   = 30
)

// Candidate pairs a symbol with the share count to trade.
type Candidate struct {
	Symbol   string `json:"symbol"`
	Quantity int    `json:"quantity"`
}

// RankedBuy is a buy candidate with its momentum score. A higher score
// means recent returns have cooled off relative to the trailing average,
// a contrarian buy signal.
type RankedBuy struct {
	Symbol   string  `json:"symbol"`
	Score    float64 `json:"score"`
	Quantity int     `json:"quantity"`
}

// Selector applies the sell-eligibility and buy-ranking rules and turns
// the survivors into laddered limit orders. It holds only tuning values;
// every call works on immutable snapshots supplied by the caller.
type Selector struct {
	SellThreshold float64
	BuyAmount     float64
	SliceLow      int
	SliceHigh     int
}

// NewSelector returns a Selector with the default tuning.
func NewSelector() *Selector {
	return &Selector{
		SellThreshold: DefaultSellThreshold,
		BuyAmount:     DefaultBuyAmount,
		SliceLow:      DefaultSliceLow,
		SliceHigh:     DefaultSliceHigh,
	}
}

// SellCandidates filters the already-sellable positions down to those with
// a day profit above the threshold. The holding-period partition is
// enforced upstream by the position collaborator.
func (s *Selector) SellCandidates(positions []models.Position) []Candidate {
	var candidates []Candidate
	for _, pos := range positions {
		if pos.DayProfitLossPct > s.SellThreshold {
			candidates = append(candidates, Candidate{Symbol: pos.Symbol, Quantity: pos.Quantity})
		}
	}
	return candidates
}

// BuyRanking scores each candidate symbol by the trailing mean of
// rolling-60 return sums minus the sum of the last 30 returns, ranks them
// descending, and keeps the configured rank slice. Symbols with too little
// history or no quote are skipped; one bad symbol never aborts the batch.
func (s *Selector) BuyRanking(table *models.PriceTable, candidates []string, quotes models.QuoteSnapshot) []RankedBuy {
	var ranked []RankedBuy
	for _, symbol := range candidates {
		closes, ok := table.Closes(symbol)
		if !ok {
			log.Printf("buy ranking: %s not in price table, skipping", symbol)
			continue
		}
		returns := analytics.PctChange(closes)
		if len(returns) < trailingWindow {
			log.Printf("buy ranking: %s has %d returns, need %d, skipping", symbol, len(returns), trailingWindow)
			continue
		}

		trailing := stat.Mean(rollingSums(returns, trailingWindow), nil)
		recent := returns[len(returns)-recentWindow:]
		var recentSum float64
		for _, r := range recent {
			recentSum += r
		}

		last, ok := quotes.Last(symbol)
		if !ok || last <= 0 {
			log.Printf("buy ranking: no quote for %s, skipping", symbol)
			continue
		}

		ranked = append(ranked, RankedBuy{
			Symbol:   symbol,
			Score:    trailing - recentSum,
			Quantity: int(s.BuyAmount / last),
		})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	lo, hi := s.SliceLow, s.SliceHigh
	if hi > len(ranked) {
		hi = len(ranked)
	}
	if hi < 0 {
		hi = 0
	}
	if lo > hi {
		lo = hi
	}
	if lo < 0 {
		lo = 0
	}
	return ranked[lo:hi]
}

// BuildSellOrders turns sell candidates into ascending sell ladders. The
// price band runs from just above the ask to two standard deviations of
// the open-to-high move above it.
func (s *Selector) BuildSellOrders(positions []models.Position, table *models.PriceTable, quotes models.QuoteSnapshot) []models.OrderSpec {
	var orders []models.OrderSpec
	for _, candidate := range s.SellCandidates(positions) {
		ask, ok := quotes.Ask(candidate.Symbol)
		if !ok {
			log.Printf("sell orders: no quote for %s, skipping", candidate.Symbol)
			continue
		}
		avg, sd, ok := openToHighStats(table, candidate.Symbol)
		if !ok {
			log.Printf("sell orders: no bars for %s, skipping", candidate.Symbol)
			continue
		}

		first := ask + 0.1*avg
		last := ask + avg + 2*sd
		orders = append(orders, ladderOrders(candidate, models.InstructionSell, first, last)...)
	}
	return orders
}

// BuildBuyOrders ranks the buy candidates and turns the kept slice into
// descending buy ladders mirroring the sell band below the quote.
func (s *Selector) BuildBuyOrders(table *models.PriceTable, candidates []string, quotes models.QuoteSnapshot) []models.OrderSpec {
	var orders []models.OrderSpec
	for _, buy := range s.BuyRanking(table, candidates, quotes) {
		ask, ok := quotes.Ask(buy.Symbol)
		if !ok {
			continue
		}
		avg, sd, ok := openToHighStats(table, buy.Symbol)
		if !ok {
			log.Printf("buy orders: no bars for %s, skipping", buy.Symbol)
			continue
		}

		first := ask - 0.1*avg
		last := ask - (avg + 2*sd)
		candidate := Candidate{Symbol: buy.Symbol, Quantity: buy.Quantity}
		orders = append(orders, ladderOrders(candidate, models.InstructionBuy, first, last)...)
	}
	return orders
}

func ladderOrders(c Candidate, instruction string, first, last float64) []models.OrderSpec {
	ladder := pricing.BuildLadder(c.Quantity, first, last)
	orders := make([]models.OrderSpec, 0, len(ladder))
	for _, tranche := range ladder {
		orders = append(orders, models.OrderSpec{
			Symbol:      c.Symbol,
			Instruction: instruction,
			Quantity:    tranche.Quantity,
			Price:       pricing.Round2(tranche.Price),
			TimeInForce: models.TIFDay,
		})
	}
	return orders
}

// openToHighStats returns the mean and sample standard deviation of the
// daily open-to-high move for a symbol.
func openToHighStats(table *models.PriceTable, symbol string) (avg, sd float64, ok bool) {
	bars, found := table.Bars[symbol]
	if !found || len(bars) == 0 {
		return 0, 0, false
	}
	moves := make([]float64, len(bars))
	for i, b := range bars {
		moves[i] = b.High - b.Open
	}
	return stat.Mean(moves, nil), stat.StdDev(moves, nil), true
}

// rollingSums returns the sums of every contiguous window of length w.
func rollingSums(xs []float64, w int) []float64 {
	sums := make([]float64, 0, len(xs)-w+1)
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= w {
			sum -= xs[i-w]
		}
		if i >= w-1 {
			sums = append(sums, sum)
		}
	}
	return sums
}
