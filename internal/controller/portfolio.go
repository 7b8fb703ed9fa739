package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// PortfolioAPI is the slice of the API client the portfolio controller
// needs.
type PortfolioAPI interface {
	GetPortfolio(ctx context.Context) ([]domain.Holding, error)
}

// PortfolioController fetches holdings and augments them with derived
// price fields through a Pricer. It is re-invoked on every epoch change,
// including the initial mount. Loads are idempotent with respect to
// identity fields; derived prices are recomputed per fetch and carry no
// caching guarantee.
type PortfolioController struct {
	api    PortfolioAPI
	pricer Pricer
	log    *slog.Logger

	mu       sync.Mutex
	holdings []domain.Holding // last successfully displayed
}

// NewPortfolioController wires the portfolio controller.
func NewPortfolioController(api PortfolioAPI, pricer Pricer, log *slog.Logger) *PortfolioController {
	return &PortfolioController{api: api, pricer: pricer, log: log}
}

// Load fetches the current holdings. On success each holding gains a fresh
// CurrentPrice and matching TotalValue. On failure the previously
// displayed holdings are returned alongside the error, which callers
// surface as a non-blocking notice rather than clearing the view.
func (p *PortfolioController) Load(ctx context.Context) ([]domain.Holding, error) {
	raw, err := p.api.GetPortfolio(ctx)
	if err != nil {
		p.log.Warn("portfolio fetch failed, keeping last view", "error", err)
		return p.Holdings(), err
	}

	holdings := make([]domain.Holding, len(raw))
	for i, h := range raw {
		h.CurrentPrice = p.pricer.PriceOf(h.Ticker)
		h.TotalValue = float64(h.Quantity) * h.CurrentPrice
		holdings[i] = h
	}

	p.mu.Lock()
	p.holdings = holdings
	p.mu.Unlock()

	out := make([]domain.Holding, len(holdings))
	copy(out, holdings)
	return out, nil
}

// Holdings returns a copy of the last successfully loaded holdings.
func (p *PortfolioController) Holdings() []domain.Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Holding, len(p.holdings))
	copy(out, p.holdings)
	return out
}
