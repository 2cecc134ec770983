package models

import "time"

// Position represents a current holding as reported by the brokerage.
// DayProfitLossPct is a fraction: 0.01 means up 1% on the day.
type Position struct {
	Symbol           string    `json:"symbol"`
	Quantity         int       `json:"quantity"`
	EntryPrice       float64   `json:"entry_price,omitempty"`
	EntryDate        time.Time `json:"entry_date,omitempty"`
	DayProfitLossPct float64   `json:"day_profit_loss_pct"`
}
