package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/fallback"
)

// DefaultTicker is the quote loaded on mount before the user has searched.
const DefaultTicker = "AAPL"

// ErrEmptyTicker rejects a manual search with an empty ticker before any
// network call is made.
var ErrEmptyTicker = errors.New("enter a ticker symbol to search")

// StockAPI is the slice of the API client the search controller needs.
type StockAPI interface {
	GetStock(ctx context.Context, ticker string) (*domain.StockQuote, error)
}

// Snapshot is the outcome of a search. Fallback marks synthetic data;
// Warning is a non-blocking notice to surface alongside it. Stale marks a
// search superseded by a newer one, whose result must be discarded without
// touching any view state.
type Snapshot struct {
	Quote    domain.StockQuote
	Fallback bool
	Warning  string
	Stale    bool
}

// SearchController resolves a ticker to a quote with history. Failures of
// the live source are absorbed into synthetic fallback data; this
// controller never propagates a lookup error to its caller. A newer search
// cancels the in-flight one, so resolve order cannot clobber issue order.
type SearchController struct {
	api StockAPI
	gen *fallback.Generator
	log *slog.Logger

	mu     sync.Mutex
	seq    int
	cancel context.CancelFunc
}

// NewSearchController wires the search controller. gen may not be nil: it
// is the terminal error handler for this path.
func NewSearchController(api StockAPI, gen *fallback.Generator, log *slog.Logger) *SearchController {
	return &SearchController{api: api, gen: gen, log: log}
}

// Search resolves ticker to a Snapshot. The only error it can return is
// ErrEmptyTicker, raised before any network call. Any live-source failure
// yields a fallback Snapshot instead.
func (s *SearchController) Search(ctx context.Context, ticker string) (Snapshot, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Snapshot{}, ErrEmptyTicker
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel() // supersede the in-flight search
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	quote, err := s.api.GetStock(ctx, ticker)

	s.mu.Lock()
	stale := s.seq != seq
	if !stale {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if stale || errors.Is(err, context.Canceled) {
		return Snapshot{Stale: true}, nil
	}
	if err != nil {
		s.log.Warn("stock lookup failed, serving fallback data", "ticker", ticker, "error", err)
		return Snapshot{
			Quote:    s.gen.Quote(),
			Fallback: true,
			Warning:  fmt.Sprintf("Live data unavailable for %s, showing fallback data", strings.ToUpper(ticker)),
		}, nil
	}
	return Snapshot{Quote: *quote}, nil
}

// CancelInFlight supersedes any in-flight search without starting a new
// one, e.g. when the view unmounts.
func (s *SearchController) CancelInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
