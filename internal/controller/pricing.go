package controller

import (
	"math/rand"
	"sync"
	"time"

	"github.com/emad-siddiq/sellscalehood/pkg/sellscale"
)

// Pricer supplies a current price when augmenting a raw holding. The
// portfolio view joins against this capability instead of baking random
// numbers into the fetch path, so a real quote join or a deterministic
// test double can slot in.
type Pricer interface {
	PriceOf(ticker string) float64
}

// RandomPricer is the placeholder pricing stand-in: a fresh uniform price
// per call, so derived fields differ across fetches of identical holdings.
type RandomPricer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPricer returns a time-seeded RandomPricer.
func NewRandomPricer() *RandomPricer {
	return &RandomPricer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// PriceOf returns a uniform price in [10, 500).
func (p *RandomPricer) PriceOf(string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 10 + p.rng.Float64()*490
}

// StaticPricer maps tickers to fixed prices, falling back to Default for
// unknown ones. It is the deterministic double for tests.
type StaticPricer struct {
	Prices  map[string]float64
	Default float64
}

// PriceOf returns the configured price for ticker.
func (p *StaticPricer) PriceOf(ticker string) float64 {
	if v, ok := p.Prices[ticker]; ok {
		return v
	}
	return p.Default
}

// The SDK client satisfies every controller-side API surface.
var (
	_ StockAPI     = (*sellscale.Client)(nil)
	_ TradeAPI     = (*sellscale.Client)(nil)
	_ PortfolioAPI = (*sellscale.Client)(nil)
)
