// Package httpapi serves the sellscalehood REST API: portfolio listing,
// stock quotes with trailing history, and trade execution against the
// holdings store.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/quote"
	"github.com/emad-siddiq/sellscalehood/internal/store"
	"github.com/emad-siddiq/sellscalehood/internal/universe"
)

// Server hosts the API handlers and their collaborators.
type Server struct {
	holdings store.HoldingStore
	quotes   quote.Source
	universe *universe.Universe
	log      *slog.Logger
}

// NewServer wires the API server.
func NewServer(holdings store.HoldingStore, quotes quote.Source, u *universe.Universe, log *slog.Logger) *Server {
	return &Server{holdings: holdings, quotes: quotes, universe: u, log: log}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/stock/{ticker}", s.handleStock)
	mux.HandleFunc("POST /api/trade", s.handleTrade)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.holdings.List(r.Context())
	if err != nil {
		s.log.Error("retrieving portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve portfolio")
		return
	}
	if holdings == nil {
		holdings = []domain.Holding{}
	}
	s.log.Info("portfolio retrieved", "holdings", len(holdings))
	writeJSON(w, holdings)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.PathValue("ticker"))

	resolved, ok := s.resolveTicker(ticker)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid ticker: %s", ticker))
		return
	}

	q, err := s.quotes.Quote(r.Context(), resolved)
	if err != nil {
		if errors.Is(err, quote.ErrNoData) {
			s.log.Warn("no quote data", "ticker", resolved)
			writeError(w, http.StatusNotFound, fmt.Sprintf("Failed to retrieve data for ticker: %s", resolved))
			return
		}
		s.log.Error("retrieving stock info", "ticker", resolved, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve stock info for %s", resolved))
		return
	}
	if q.Historical == nil {
		q.Historical = []domain.ClosePoint{}
	}

	s.log.Info("stock info retrieved", "ticker", resolved)
	writeJSON(w, q)
}

// tradePayload tolerates the quantity arriving as a JSON number or a
// decimal string, the way the original service did.
type tradePayload struct {
	Ticker   string             `json:"ticker"`
	Quantity any                `json:"quantity"`
	Action   domain.TradeAction `json:"action"`
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var payload tradePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	quantity, err := parseQuantity(payload.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity provided")
		return
	}
	if payload.Ticker == "" || quantity == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if quantity < 0 {
		writeError(w, http.StatusBadRequest, "Invalid quantity provided")
		return
	}
	if !payload.Action.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	ticker, ok := s.resolveTicker(strings.ToUpper(payload.Ticker))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid ticker: %s", payload.Ticker))
		return
	}

	if err := s.holdings.ApplyTrade(r.Context(), ticker, quantity, payload.Action); err != nil {
		if errors.Is(err, store.ErrInsufficientShares) {
			writeError(w, http.StatusBadRequest, "Insufficient shares to sell")
			return
		}
		s.log.Error("processing trade", "ticker", ticker, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process trade")
		return
	}

	verb := "bought"
	if payload.Action == domain.ActionSell {
		verb = "sold"
	}
	s.log.Info("trade processed", "ticker", ticker, "action", payload.Action, "quantity", quantity)
	writeJSON(w, domain.TradeResult{
		Message: fmt.Sprintf("Successfully %s %d shares of %s", verb, quantity, ticker),
	})
}

// resolveTicker maps unknown tickers to their closest universe match, the
// same leniency the original service applied.
func (s *Server) resolveTicker(ticker string) (string, bool) {
	if s.universe.Contains(ticker) {
		return ticker, true
	}
	closest, ok := s.universe.Closest(ticker)
	if ok {
		s.log.Info("ticker resolved to closest match", "requested", ticker, "resolved", closest)
	}
	return closest, ok
}

func parseQuantity(v any) (int64, error) {
	switch q := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if q != float64(int64(q)) {
			return 0, fmt.Errorf("quantity %v is not an integer", q)
		}
		return int64(q), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(q), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported quantity type %T", v)
	}
}
