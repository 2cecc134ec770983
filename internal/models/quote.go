package models

import "time"

// Quote is the current market price for a symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Last      float64   `json:"last"`
	Ask       float64   `json:"ask,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QuoteSnapshot maps symbol to its current quote. Snapshots are taken once
// per strategy pass and never mutated afterwards.
type QuoteSnapshot map[string]Quote

// Last returns the last trade price for a symbol.
func (s QuoteSnapshot) Last(symbol string) (float64, bool) {
	q, ok := s[symbol]
	return q.Last, ok
}

// Ask returns the ask price for a symbol, falling back to the last trade
// price when the ask is not populated.
func (s QuoteSnapshot) Ask(symbol string) (float64, bool) {
	q, ok := s[symbol]
	if !ok {
		return 0, false
	}
	if q.Ask > 0 {
		return q.Ask, true
	}
	return q.Last, true
}
