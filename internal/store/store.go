// Package store persists portfolio holdings for the collaborator service.
// Two implementations exist: a SQLite-backed store and an in-memory store
// for tests and ephemeral demo runs.
package store

import (
	"context"
	"errors"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// ErrInsufficientShares rejects a sell that exceeds the held quantity
// (including selling a ticker that is not held at all).
var ErrInsufficientShares = errors.New("insufficient shares to sell")

// HoldingStore persists and mutates portfolio line items.
type HoldingStore interface {
	// List returns all holdings ordered by id.
	List(ctx context.Context) ([]domain.Holding, error)

	// ApplyTrade mutates the holding for ticker: buys create or grow the
	// position, sells shrink it and remove it when it reaches zero. Sells
	// beyond the held quantity fail with ErrInsufficientShares.
	ApplyTrade(ctx context.Context, ticker string, quantity int64, action domain.TradeAction) error

	// Close releases any underlying resources.
	Close() error
}
