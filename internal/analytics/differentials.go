package analytics

import (
	"fmt"
	"time"

	"github.com/quantfold/etf-strategy/internal/models"
)

// DifferentialRow holds the relative price differentials for one symbol on
// one date:
//
//	cc   = (close - prev close) / prev close
//	co   = (open - prev close) / prev close
//	oc   = (close - open) / open
//	high = (high - open) / open
//	low  = (low - open) / open
type DifferentialRow struct {
	Date time.Time `json:"date"`
	CC   float64   `json:"cc"`
	CO   float64   `json:"co"`
	OC   float64   `json:"oc"`
	High float64   `json:"high"`
	Low  float64   `json:"low"`
}

// DifferentialTable holds differential rows per symbol, aligned on Dates.
// It has one row fewer than the source table: the first bar has no
// predecessor.
type DifferentialTable struct {
	Dates []time.Time                  `json:"dates"`
	Rows  map[string][]DifferentialRow `json:"rows"`
}

// Differentials computes per-bar relative price differentials for every
// symbol in the table. Requires at least two dated rows. A zero open or
// previous close propagates NaN into the affected cells.
func Differentials(table *models.PriceTable) (*DifferentialTable, error) {
	if table.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 bars, have %d", ErrInsufficientHistory, table.Len())
	}

	out := &DifferentialTable{
		Dates: table.Dates[1:],
		Rows:  make(map[string][]DifferentialRow, len(table.Bars)),
	}
	for symbol, bars := range table.Bars {
		rows := make([]DifferentialRow, len(bars)-1)
		for i := 1; i < len(bars); i++ {
			cur, prev := bars[i], bars[i-1]
			rows[i-1] = DifferentialRow{
				Date: cur.Date,
				CC:   fracChange(cur.Close, prev.Close),
				CO:   fracChange(cur.Open, prev.Close),
				OC:   fracChange(cur.Close, cur.Open),
				High: fracChange(cur.High, cur.Open),
				Low:  fracChange(cur.Low, cur.Open),
			}
		}
		out.Rows[symbol] = rows
	}
	return out, nil
}
