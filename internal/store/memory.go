package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// Compile-time interface check.
var _ HoldingStore = (*MemoryStore)(nil)

// MemoryStore implements HoldingStore in memory. It backs tests and the
// server's -memory mode, where the portfolio resets on restart.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	byTicker map[string]*domain.Holding
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, byTicker: make(map[string]*domain.Holding)}
}

// List returns all holdings ordered by id.
func (s *MemoryStore) List(_ context.Context) ([]domain.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holdings := make([]domain.Holding, 0, len(s.byTicker))
	for _, h := range s.byTicker {
		holdings = append(holdings, *h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].ID < holdings[j].ID })
	return holdings, nil
}

// ApplyTrade mutates the position for ticker.
func (s *MemoryStore) ApplyTrade(_ context.Context, ticker string, quantity int64, action domain.TradeAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.byTicker[ticker]
	switch action {
	case domain.ActionBuy:
		if h == nil {
			s.byTicker[ticker] = &domain.Holding{ID: s.nextID, Ticker: ticker, Quantity: quantity}
			s.nextID++
		} else {
			h.Quantity += quantity
		}
	case domain.ActionSell:
		if h == nil || h.Quantity < quantity {
			return ErrInsufficientShares
		}
		h.Quantity -= quantity
		if h.Quantity == 0 {
			delete(s.byTicker, ticker)
		}
	default:
		return fmt.Errorf("invalid action %q", action)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
