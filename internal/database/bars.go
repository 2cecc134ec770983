package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quantfold/etf-strategy/internal/models"
)

// CreateBar inserts a daily bar, updating it if the (symbol, date) pair
// already exists.
func (db *DB) CreateBar(b *models.BarRecord) error {
	query := `
		INSERT INTO daily_bars (symbol, date, open, high, low, close, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
		RETURNING id
	`
	err := db.conn.QueryRow(query,
		b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, time.Now(),
	).Scan(&b.ID)

	if err != nil {
		return fmt.Errorf("failed to create bar: %w", err)
	}
	return nil
}

// CreateBarBatch inserts multiple daily bars efficiently.
func (db *DB) CreateBarBatch(bars []*models.BarRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_bars (symbol, date, open, high, low, close, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, b := range bars {
		_, err := stmt.Exec(b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, now)
		if err != nil {
			return fmt.Errorf("failed to insert bar for %s: %w", b.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBarRange retrieves bars for a symbol within a date range, oldest
// first.
func (db *DB) GetBarRange(symbol string, startDate, endDate time.Time) ([]*models.BarRecord, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM daily_bars
		WHERE symbol = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := db.conn.Query(query, symbol, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get bar range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetBarsBySymbol retrieves the most recent bars for a symbol, newest
// first.
func (db *DB) GetBarsBySymbol(symbol string, limit int) ([]*models.BarRecord, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetLatestBar retrieves the most recent bar for a symbol.
func (db *DB) GetLatestBar(symbol string) (*models.BarRecord, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1
	`
	var b models.BarRecord
	err := db.conn.QueryRow(query, symbol).Scan(
		&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no bars found for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest bar: %w", err)
	}
	return &b, nil
}

// DeleteBarsOlderThan removes bars older than a specified date.
func (db *DB) DeleteBarsOlderThan(date time.Time) (int64, error) {
	query := `DELETE FROM daily_bars WHERE date < $1`
	result, err := db.conn.Exec(query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old bars: %w", err)
	}
	return result.RowsAffected()
}

func scanBars(rows *sql.Rows) ([]*models.BarRecord, error) {
	var bars []*models.BarRecord
	for rows.Next() {
		var b models.BarRecord
		err := rows.Scan(
			&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, &b)
	}
	return bars, nil
}
