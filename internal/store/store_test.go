package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// runStoreSuite exercises the HoldingStore contract against an
// implementation. Both stores must behave identically.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) HoldingStore) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("buy creates then grows", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ApplyTrade(ctx, "AAPL", 10, domain.ActionBuy))
		require.NoError(t, s.ApplyTrade(ctx, "AAPL", 5, domain.ActionBuy))

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "AAPL", got[0].Ticker)
		assert.Equal(t, int64(15), got[0].Quantity)
	})

	t.Run("sell shrinks position", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ApplyTrade(ctx, "MSFT", 10, domain.ActionBuy))
		require.NoError(t, s.ApplyTrade(ctx, "MSFT", 4, domain.ActionSell))

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(6), got[0].Quantity)
	})

	t.Run("sell to zero removes the row", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ApplyTrade(ctx, "TSLA", 3, domain.ActionBuy))
		require.NoError(t, s.ApplyTrade(ctx, "TSLA", 3, domain.ActionSell))

		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("oversell rejected", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ApplyTrade(ctx, "GOOG", 2, domain.ActionBuy))

		err := s.ApplyTrade(ctx, "GOOG", 3, domain.ActionSell)
		assert.ErrorIs(t, err, ErrInsufficientShares)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].Quantity, "rejected sell leaves the position untouched")
	})

	t.Run("sell unheld ticker rejected", func(t *testing.T) {
		s := newStore(t)
		err := s.ApplyTrade(ctx, "NVDA", 1, domain.ActionSell)
		assert.ErrorIs(t, err, ErrInsufficientShares)
	})

	t.Run("invalid action rejected", func(t *testing.T) {
		s := newStore(t)
		err := s.ApplyTrade(ctx, "AAPL", 1, "hold")
		assert.Error(t, err)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		s := newStore(t)
		for _, ticker := range []string{"MSFT", "AAPL", "GOOG"} {
			require.NoError(t, s.ApplyTrade(ctx, ticker, 1, domain.ActionBuy))
		}

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "MSFT", got[0].Ticker)
		assert.Equal(t, "AAPL", got[1].Ticker)
		assert.Equal(t, "GOOG", got[2].Ticker)
		assert.Less(t, got[0].ID, got[1].ID)
		assert.Less(t, got[1].ID, got[2].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) HoldingStore {
		s := NewMemoryStore()
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) HoldingStore {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "holdings.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}
