package database

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/etf-strategy/internal/models"
)

// LoadPriceTable assembles an aligned price table for the given symbols
// over a date range. Only dates on which every symbol traded are kept, so
// all series share the same date index, oldest first.
func (db *DB) LoadPriceTable(symbols []string, startDate, endDate time.Time) (*models.PriceTable, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested")
	}

	bySymbol := make(map[string]map[time.Time]models.PriceBar, len(symbols))
	for _, symbol := range symbols {
		records, err := db.GetBarRange(symbol, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load bars for %s: %w", symbol, err)
		}
		byDate := make(map[time.Time]models.PriceBar, len(records))
		for _, r := range records {
			byDate[r.Date.UTC()] = r.Bar()
		}
		bySymbol[symbol] = byDate
	}

	// Shared date index: dates present for every symbol.
	var dates []time.Time
	for date := range bySymbol[symbols[0]] {
		shared := true
		for _, symbol := range symbols[1:] {
			if _, ok := bySymbol[symbol][date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := &models.PriceTable{
		Dates: dates,
		Bars:  make(map[string][]models.PriceBar, len(symbols)),
	}
	for _, symbol := range symbols {
		bars := make([]models.PriceBar, len(dates))
		for i, date := range dates {
			bars[i] = bySymbol[symbol][date]
		}
		table.Bars[symbol] = bars
	}
	return table, nil
}
