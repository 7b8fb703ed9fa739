// Package domain defines the core types shared between the sellscalehood
// client, controllers, and collaborator service: holdings, quotes, and
// trade orders.
package domain

import "math"

// TradeAction is the direction of a trade order.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Valid reports whether the action is one of the two allowed literals.
// An empty or unknown action is a client-side validation failure and must
// never reach the wire.
func (a TradeAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Holding is a portfolio line item with server-assigned identity.
// CurrentPrice and TotalValue are derived client-side on every fetch and
// are never persisted.
type Holding struct {
	ID       int64  `json:"id"`
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`

	CurrentPrice float64 `json:"currentPrice,omitempty"`
	TotalValue   float64 `json:"totalValue,omitempty"`
}

// ClosePoint is a single daily close in a quote's trailing history.
type ClosePoint struct {
	Date  string  `json:"date"` // ISO-8601 day, e.g. "2026-09-01"
	Close float64 `json:"close"`
}

// StockQuote is the current price plus trailing daily-close history for a
// ticker. History is chronological; the fallback generator always produces
// exactly 30 points, the live source a variable number.
type StockQuote struct {
	Symbol     string       `json:"symbol"`
	Name       string       `json:"name"`
	Price      float64      `json:"price"`
	Historical []ClosePoint `json:"historicalData"`
}

// PriceChange is the absolute change from the first to the last close in
// the history window. Zero when fewer than two points are available.
func (q *StockQuote) PriceChange() float64 {
	if len(q.Historical) < 2 {
		return 0
	}
	return q.Historical[len(q.Historical)-1].Close - q.Historical[0].Close
}

// PriceChangePercent is the relative change over the history window. When
// the first close is zero the result is NaN; callers render it as such
// rather than crash.
func (q *StockQuote) PriceChangePercent() float64 {
	if len(q.Historical) < 2 {
		return 0
	}
	first := q.Historical[0].Close
	if first == 0 {
		return math.NaN()
	}
	return q.PriceChange() / first * 100
}

// Up reports the color/sign indicator for the quote: true for a
// non-negative change, false for a negative one.
func (q *StockQuote) Up() bool {
	return q.PriceChange() >= 0
}

// TradeOrder is an outbound order as entered in the trade form. Quantity
// stays a decimal string until validation so the form can round-trip
// whatever the user typed.
type TradeOrder struct {
	Ticker   string      `json:"ticker"`
	Quantity string      `json:"quantity"`
	Action   TradeAction `json:"action"`
}

// TradeResult carries the server-provided success message for a completed
// trade.
type TradeResult struct {
	Message string `json:"message"`
}
