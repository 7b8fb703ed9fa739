package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emad-siddiq/sellscalehood/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ HoldingStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS holdings (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	ticker   TEXT    NOT NULL UNIQUE,
	quantity INTEGER NOT NULL CHECK (quantity > 0)
);`

// SQLiteStore implements HoldingStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// holdings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating holdings table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all holdings ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Holding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ticker, quantity FROM holdings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.ID, &h.Ticker, &h.Quantity); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// ApplyTrade mutates the position for ticker inside a transaction.
func (s *SQLiteStore) ApplyTrade(ctx context.Context, ticker string, quantity int64, action domain.TradeAction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var held int64
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM holdings WHERE ticker = ?`, ticker).Scan(&held)
	missing := errors.Is(err, sql.ErrNoRows)
	if err != nil && !missing {
		return err
	}

	switch action {
	case domain.ActionBuy:
		if missing {
			_, err = tx.ExecContext(ctx, `INSERT INTO holdings (ticker, quantity) VALUES (?, ?)`, ticker, quantity)
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE holdings SET quantity = quantity + ? WHERE ticker = ?`, quantity, ticker)
		}
	case domain.ActionSell:
		if missing || held < quantity {
			return ErrInsufficientShares
		}
		if held == quantity {
			_, err = tx.ExecContext(ctx, `DELETE FROM holdings WHERE ticker = ?`, ticker)
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE holdings SET quantity = quantity - ? WHERE ticker = ?`, quantity, ticker)
		}
	default:
		return fmt.Errorf("invalid action %q", action)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}
