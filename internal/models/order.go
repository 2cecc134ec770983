package models

import "time"

// Order instruction constants
const (
	InstructionBuy  = "BUY"
	InstructionSell = "SELL"
)

// Time-in-force constants
const (
	TIFDay = "DAY"
)

// OrderSpec describes a limit order, optionally with a profit-taking exit
// (bracket). ProfitPrice and StopPrice are zero when unused. Specs are
// values: built once by the pricing layer and never mutated afterwards.
type OrderSpec struct {
	Symbol              string  `json:"symbol"`
	Instruction         string  `json:"instruction"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
	TimeInForce         string  `json:"time_in_force"`
	OutsideRegularHours bool    `json:"outside_regular_hours"`
	ProfitPrice         float64 `json:"profit_price,omitempty"`
	StopPrice           float64 `json:"stop_price,omitempty"`
}

// PeggedOrderSpec describes an order whose price tracks a reference
// instrument within a band.
type PeggedOrderSpec struct {
	Symbol              string  `json:"symbol"`
	Instruction         string  `json:"instruction"`
	Quantity            int     `json:"quantity"`
	StartingPrice       float64 `json:"starting_price"`
	TimeInForce         string  `json:"time_in_force"`
	OutsideRegularHours bool    `json:"outside_regular_hours"`
	PegChangeAmount     float64 `json:"peg_change_amount"`
	RefChangeAmount     float64 `json:"ref_change_amount"`
	RefSymbol           string  `json:"ref_symbol"`
	RefPrice            float64 `json:"ref_price"`
	RefLowerPrice       float64 `json:"ref_lower_price"`
	RefUpperPrice       float64 `json:"ref_upper_price"`
}

// Order event type constants
const (
	EventOrderProposed  = "ORDER_PROPOSED"
	EventPeggedProposed = "PEGGED_ORDER_PROPOSED"
)

// OrderEvent is the Kafka payload handed to the order-submission service.
// Exactly one of Order and Pegged is set, matching EventType.
type OrderEvent struct {
	EventType string           `json:"event_type"`
	Symbol    string           `json:"symbol"`
	Order     *OrderSpec       `json:"order,omitempty"`
	Pegged    *PeggedOrderSpec `json:"pegged,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
