package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

type stubPortfolioAPI struct {
	holdings []domain.Holding
	err      error
}

func (s *stubPortfolioAPI) GetPortfolio(context.Context) ([]domain.Holding, error) {
	return s.holdings, s.err
}

func TestLoadAugmentsHoldings(t *testing.T) {
	api := &stubPortfolioAPI{holdings: []domain.Holding{
		{ID: 1, Ticker: "AAPL", Quantity: 10},
		{ID: 2, Ticker: "MSFT", Quantity: 3},
	}}
	pricer := &StaticPricer{Prices: map[string]float64{"AAPL": 200, "MSFT": 400}, Default: 50}
	ctrl := NewPortfolioController(api, pricer, testLogger())

	got, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 200.0, got[0].CurrentPrice)
	assert.Equal(t, 2000.0, got[0].TotalValue)
	assert.Equal(t, 400.0, got[1].CurrentPrice)
	assert.Equal(t, 1200.0, got[1].TotalValue)
}

func TestLoadIdentityFieldsStableAcrossFetches(t *testing.T) {
	api := &stubPortfolioAPI{holdings: []domain.Holding{{ID: 7, Ticker: "GOOG", Quantity: 5}}}
	ctrl := NewPortfolioController(api, NewRandomPricer(), testLogger())

	first, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	second, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	// Identity is stable; derived prices carry no cross-fetch guarantee.
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Ticker, second[0].Ticker)
	assert.Equal(t, first[0].Quantity, second[0].Quantity)
	assert.Equal(t, float64(second[0].Quantity)*second[0].CurrentPrice, second[0].TotalValue)
}

func TestLoadFailureKeepsPreviousHoldings(t *testing.T) {
	api := &stubPortfolioAPI{holdings: []domain.Holding{{ID: 1, Ticker: "AAPL", Quantity: 10}}}
	ctrl := NewPortfolioController(api, &StaticPricer{Default: 100}, testLogger())

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	api.holdings = nil
	api.err = errors.New("connection refused")
	got, err := ctrl.Load(context.Background())
	require.Error(t, err)
	require.Len(t, got, 1, "failed refresh keeps the last displayed holdings")
	assert.Equal(t, "AAPL", got[0].Ticker)
}

func TestLoadEmptyPortfolio(t *testing.T) {
	ctrl := NewPortfolioController(&stubPortfolioAPI{}, &StaticPricer{}, testLogger())

	got, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
