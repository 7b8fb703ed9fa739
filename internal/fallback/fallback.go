// Package fallback synthesizes stand-in stock quotes for when the live
// data source is unavailable. The shape is deterministic (one of ten
// reference companies, a fixed-length trailing history) while the values
// are randomized.
package fallback

import (
	"math/rand"
	"time"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// HistoryDays is the fixed length of a synthetic quote's trailing history.
const HistoryDays = 30

// referenceCompanies is the fixed set a synthetic quote is drawn from.
var referenceCompanies = []struct {
	symbol string
	name   string
}{
	{"AAPL", "Apple Inc."},
	{"GOOGL", "Alphabet Inc."},
	{"MSFT", "Microsoft Corporation"},
	{"AMZN", "Amazon.com Inc."},
	{"TSLA", "Tesla Inc."},
	{"META", "Meta Platforms Inc."},
	{"NVDA", "NVIDIA Corporation"},
	{"JPM", "JPMorgan Chase & Co."},
	{"V", "Visa Inc."},
	{"JNJ", "Johnson & Johnson"},
}

// Generator produces synthetic quotes. It never fails; it is the terminal
// error handler for the search path.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New returns a time-seeded Generator.
func New() *Generator {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithSource returns a Generator with an explicit randomness source and
// clock, for deterministic tests.
func NewWithSource(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now}
}

// Quote synthesizes a quote: a uniform-random reference company with a
// 30-day trailing history ending today, each close uniform in [90, 110).
// The headline price is the final close.
func (g *Generator) Quote() domain.StockQuote {
	company := referenceCompanies[g.rng.Intn(len(referenceCompanies))]
	today := g.now()

	history := make([]domain.ClosePoint, HistoryDays)
	for i := range history {
		day := today.AddDate(0, 0, i-HistoryDays+1)
		history[i] = domain.ClosePoint{
			Date:  day.Format("2006-01-02"),
			Close: round2(100 + g.rng.Float64()*20 - 10),
		}
	}

	return domain.StockQuote{
		Symbol:     company.symbol,
		Name:       company.name,
		Price:      history[HistoryDays-1].Close,
		Historical: history,
	}
}

// Symbols returns the reference symbols a synthetic quote can carry.
func Symbols() []string {
	out := make([]string, len(referenceCompanies))
	for i, c := range referenceCompanies {
		out[i] = c.symbol
	}
	return out
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
