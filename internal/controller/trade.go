package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/universe"
	"github.com/emad-siddiq/sellscalehood/pkg/sellscale"
)

// maxSuggestions caps the autocomplete dropdown.
const maxSuggestions = 5

// TradeAPI is the slice of the API client the trade controller needs.
type TradeAPI interface {
	SubmitTrade(ctx context.Context, ticker string, quantity int64, action domain.TradeAction) (*domain.TradeResult, error)
}

// TradeController validates and submits orders and owns the autocomplete
// suggestion state. On a successful submit it signals the coordinator
// exactly once; every failure path signals zero times.
type TradeController struct {
	api      TradeAPI
	universe *universe.Universe
	coord    *Coordinator
	log      *slog.Logger

	mu          sync.Mutex
	suggestions []string
}

// NewTradeController wires the trade controller to its collaborators.
func NewTradeController(api TradeAPI, u *universe.Universe, coord *Coordinator, log *slog.Logger) *TradeController {
	return &TradeController{api: api, universe: u, coord: coord, log: log}
}

// Validate applies the field-level checks an order must pass before it may
// reach the network: non-empty ticker, positive integer quantity, and an
// action that is one of the two literals.
func (t *TradeController) Validate(order domain.TradeOrder) error {
	if strings.TrimSpace(order.Ticker) == "" {
		return errors.New("ticker is required")
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(order.Quantity), 10, 64)
	if err != nil || qty <= 0 {
		return errors.New("quantity must be a positive whole number")
	}
	if !order.Action.Valid() {
		return errors.New("action must be buy or sell")
	}
	return nil
}

// Submit validates the order and posts it. On success the suggestion set
// is cleared, the coordinator is signalled, and the server message is
// returned; the caller resets the form. On any failure the error becomes
// the active error state and the caller keeps the form values for
// correction: a *sellscale.APIError carries the server's rejection
// message, anything else is a transport failure to surface generically.
func (t *TradeController) Submit(ctx context.Context, order domain.TradeOrder) (*domain.TradeResult, error) {
	if err := t.Validate(order); err != nil {
		return nil, err
	}
	qty, _ := strconv.ParseInt(strings.TrimSpace(order.Quantity), 10, 64)
	ticker := strings.ToUpper(strings.TrimSpace(order.Ticker))

	result, err := t.api.SubmitTrade(ctx, ticker, qty, order.Action)
	if err != nil {
		var apiErr *sellscale.APIError
		if errors.As(err, &apiErr) {
			t.log.Info("trade rejected", "ticker", ticker, "action", order.Action, "error", apiErr.Message)
			return nil, err
		}
		t.log.Warn("trade submission failed", "ticker", ticker, "error", err)
		return nil, fmt.Errorf("trade failed: %w", err)
	}

	t.ClearSuggestions()
	epoch := t.coord.OnTradeComplete()
	t.log.Info("trade completed", "ticker", ticker, "action", order.Action, "quantity", qty, "epoch", epoch)
	return result, nil
}

// Autocomplete recomputes the suggestion set for the given partial ticker:
// a case-insensitive prefix match over the universe, capped at five, in
// reference-list order. It runs synchronously on every keystroke.
func (t *TradeController) Autocomplete(partial string) []string {
	suggestions := t.universe.Suggest(partial, maxSuggestions)
	t.mu.Lock()
	t.suggestions = suggestions
	t.mu.Unlock()
	return suggestions
}

// Select accepts a suggestion: the set is cleared and the chosen symbol is
// returned for the caller to write into the ticker field.
func (t *TradeController) Select(symbol string) string {
	t.ClearSuggestions()
	return symbol
}

// Suggestions returns the current suggestion set.
func (t *TradeController) Suggestions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.suggestions))
	copy(out, t.suggestions)
	return out
}

// ClearSuggestions empties the suggestion set.
func (t *TradeController) ClearSuggestions() {
	t.mu.Lock()
	t.suggestions = nil
	t.mu.Unlock()
}
