package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one daily OHLC candle for a single symbol.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume,omitempty"`
}

// PriceTable holds aligned daily bars for a set of symbols. Every symbol's
// bar slice has the same length as Dates, oldest first.
type PriceTable struct {
	Dates []time.Time           `json:"dates"`
	Bars  map[string][]PriceBar `json:"bars"`
}

// Len returns the number of dated rows in the table.
func (t *PriceTable) Len() int {
	return len(t.Dates)
}

// Symbols returns the symbols present in the table in map order.
func (t *PriceTable) Symbols() []string {
	symbols := make([]string, 0, len(t.Bars))
	for s := range t.Bars {
		symbols = append(symbols, s)
	}
	return symbols
}

// Closes returns the close-price series for a symbol, oldest first.
// The second return is false when the symbol is not in the table.
func (t *PriceTable) Closes(symbol string) ([]float64, bool) {
	bars, ok := t.Bars[symbol]
	if !ok {
		return nil, false
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes, true
}

// Tail returns a copy of the table restricted to the most recent n rows.
// If the table holds fewer than n rows the whole table is returned.
func (t *PriceTable) Tail(n int) *PriceTable {
	start := len(t.Dates) - n
	if start < 0 {
		start = 0
	}
	out := &PriceTable{
		Dates: t.Dates[start:],
		Bars:  make(map[string][]PriceBar, len(t.Bars)),
	}
	for s, bars := range t.Bars {
		out.Bars[s] = bars[start:]
	}
	return out
}

// BarRecord is the storage and wire shape of a daily bar. Prices are
// decimals so database round-trips preserve exact values.
type BarRecord struct {
	ID        int             `json:"id"`
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
}

// Bar converts the record to the float form used by the analytics layer.
func (r *BarRecord) Bar() PriceBar {
	return PriceBar{
		Date:   r.Date,
		Open:   r.Open.InexactFloat64(),
		High:   r.High.InexactFloat64(),
		Low:    r.Low.InexactFloat64(),
		Close:  r.Close.InexactFloat64(),
		Volume: r.Volume,
	}
}

// NewBarRecord builds a storage record from a float bar.
func NewBarRecord(symbol string, b PriceBar) *BarRecord {
	return &BarRecord{
		Symbol: symbol,
		Date:   b.Date,
		Open:   decimal.NewFromFloat(b.Open),
		High:   decimal.NewFromFloat(b.High),
		Low:    decimal.NewFromFloat(b.Low),
		Close:  decimal.NewFromFloat(b.Close),
		Volume: b.Volume,
	}
}
