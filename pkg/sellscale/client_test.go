package sellscale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

func TestGetPortfolio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/portfolio", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"ticker":"AAPL","quantity":10},{"id":2,"ticker":"MSFT","quantity":3}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.GetPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Holding{ID: 1, Ticker: "AAPL", Quantity: 10}, got[0])
	assert.Equal(t, domain.Holding{ID: 2, Ticker: "MSFT", Quantity: 3}, got[1])
}

func TestGetStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock/AAPL", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","name":"Apple Inc.","price":230.1,"historicalData":[{"date":"2026-08-31","close":228.4},{"date":"2026-09-01","close":230.1}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.GetStock(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "Apple Inc.", got.Name)
	assert.Equal(t, 230.1, got.Price)
	require.Len(t, got.Historical, 2)
	assert.Equal(t, domain.ClosePoint{Date: "2026-09-01", Close: 230.1}, got.Historical[1])
}

func TestGetStockEmptyTicker(t *testing.T) {
	client := NewClient("http://localhost:0")
	_, err := client.GetStock(context.Background(), "  ")
	assert.Error(t, err)
}

func TestSubmitTradeBody(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trade", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Successfully bought 10 shares of AAPL"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.SubmitTrade(context.Background(), "AAPL", 10, domain.ActionBuy)
	require.NoError(t, err)
	assert.Equal(t, "Successfully bought 10 shares of AAPL", result.Message)
	assert.Equal(t, "AAPL", received["ticker"])
	assert.Equal(t, float64(10), received["quantity"])
	assert.Equal(t, "buy", received["action"])
}

func TestRejectionDecodesToAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Insufficient shares to sell"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SubmitTrade(context.Background(), "AAPL", 99, domain.ActionSell)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Insufficient shares to sell", apiErr.Message)
}

func TestErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetPortfolio(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	got, err := client.GetPortfolio(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
