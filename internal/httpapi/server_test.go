package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/quote"
	"github.com/emad-siddiq/sellscalehood/internal/store"
	"github.com/emad-siddiq/sellscalehood/internal/universe"
)

// stubSource serves canned quotes keyed by ticker; unknown tickers get
// ErrNoData, the way the live source behaves for delisted symbols.
type stubSource struct {
	quotes map[string]*domain.StockQuote
}

func (s *stubSource) Quote(_ context.Context, ticker string) (*domain.StockQuote, error) {
	if q, ok := s.quotes[ticker]; ok {
		return q, nil
	}
	return nil, quote.ErrNoData
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	holdings := store.NewMemoryStore()
	source := &stubSource{quotes: map[string]*domain.StockQuote{
		"AAPL": {
			Symbol: "AAPL",
			Name:   "Apple Inc.",
			Price:  230.1,
			Historical: []domain.ClosePoint{
				{Date: "2026-08-31", Close: 228.4},
				{Date: "2026-09-01", Close: 230.1},
			},
		},
	}}
	u := universe.New([]string{"AAPL", "MSFT", "GOOG", "TSLA"})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(holdings, source, u, log), holdings
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestPortfolioEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/portfolio", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), "empty portfolio must be [] not null")
}

func TestStockHappyPath(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/stock/aapl", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var q domain.StockQuote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&q))
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 230.1, q.Price)
	assert.Len(t, q.Historical, 2)
}

func TestStockClosestMatchResolution(t *testing.T) {
	srv, _ := newTestServer(t)
	// "APPL" is a typo one transposition away from "AAPL".
	rec := doRequest(srv, http.MethodGet, "/api/stock/APPL", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var q domain.StockQuote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&q))
	assert.Equal(t, "AAPL", q.Symbol)
}

func TestStockUnresolvableTicker(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/stock/ZZZZZZ", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ticker: ZZZZZZ", decodeBody(t, rec)["error"])
}

func TestStockNoDataIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	// MSFT is in the universe but the source has nothing for it.
	rec := doRequest(srv, http.MethodGet, "/api/stock/MSFT", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Failed to retrieve data for ticker: MSFT", decodeBody(t, rec)["error"])
}

func TestTradeBuyThenPortfolio(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/trade", `{"ticker":"MSFT","quantity":10,"action":"buy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully bought 10 shares of MSFT", decodeBody(t, rec)["message"])

	rec = doRequest(srv, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var holdings []domain.Holding
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&holdings))
	require.Len(t, holdings, 1)
	assert.Equal(t, "MSFT", holdings[0].Ticker)
	assert.Equal(t, int64(10), holdings[0].Quantity)
}

func TestTradeSellMessage(t *testing.T) {
	srv, holdings := newTestServer(t)
	require.NoError(t, holdings.ApplyTrade(context.Background(), "AAPL", 10, domain.ActionBuy))

	rec := doRequest(srv, http.MethodPost, "/api/trade", `{"ticker":"AAPL","quantity":4,"action":"sell"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully sold 4 shares of AAPL", decodeBody(t, rec)["message"])
}

func TestTradeQuantityAsString(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodPost, "/api/trade", `{"ticker":"MSFT","quantity":"7","action":"buy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully bought 7 shares of MSFT", decodeBody(t, rec)["message"])
}

func TestTradeRejections(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"missing ticker", `{"quantity":10,"action":"buy"}`, http.StatusBadRequest, "Missing required fields"},
		{"missing quantity", `{"ticker":"AAPL","action":"buy"}`, http.StatusBadRequest, "Missing required fields"},
		{"malformed body", `{not json`, http.StatusBadRequest, "Missing required fields"},
		{"fractional quantity", `{"ticker":"AAPL","quantity":2.5,"action":"buy"}`, http.StatusBadRequest, "Invalid quantity provided"},
		{"negative quantity", `{"ticker":"AAPL","quantity":-3,"action":"buy"}`, http.StatusBadRequest, "Invalid quantity provided"},
		{"non-numeric string quantity", `{"ticker":"AAPL","quantity":"ten","action":"buy"}`, http.StatusBadRequest, "Invalid quantity provided"},
		{"invalid action", `{"ticker":"AAPL","quantity":10,"action":"hold"}`, http.StatusBadRequest, "Invalid action"},
		{"unresolvable ticker", `{"ticker":"QQQQQQ","quantity":10,"action":"buy"}`, http.StatusBadRequest, "Invalid ticker: QQQQQQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			rec := doRequest(srv, http.MethodPost, "/api/trade", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantErr, decodeBody(t, rec)["error"])
		})
	}
}

func TestTradeInsufficientShares(t *testing.T) {
	srv, holdings := newTestServer(t)
	require.NoError(t, holdings.ApplyTrade(context.Background(), "AAPL", 2, domain.ActionBuy))

	rec := doRequest(srv, http.MethodPost, "/api/trade", `{"ticker":"AAPL","quantity":5,"action":"sell"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient shares to sell", decodeBody(t, rec)["error"])
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/trade", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
