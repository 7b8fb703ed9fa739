// Package quote fetches live stock quotes and trailing close history for
// the collaborator service. The production source sits on Yahoo Finance
// via piquette/finance-go, with retry and rate limiting around it.
package quote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	finquote "github.com/piquette/finance-go/quote"

	"github.com/emad-siddiq/sellscalehood/internal/config"
	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/util"
)

// ErrNoData means the upstream returned nothing usable for the ticker.
var ErrNoData = errors.New("no quote data available")

// Source provides a quote with trailing history for a ticker.
type Source interface {
	Quote(ctx context.Context, ticker string) (*domain.StockQuote, error)
}

// Compile-time interface check.
var _ Source = (*YahooSource)(nil)

// YahooSource fetches quotes from Yahoo Finance. Transient failures are
// retried with exponential backoff; calls are throttled through a shared
// rate limiter.
type YahooSource struct {
	attempts    int
	historyDays int
	limiter     *util.RateLimiter
	log         *slog.Logger
}

// NewYahooSource builds a YahooSource from the quotes configuration.
func NewYahooSource(cfg config.Quotes, log *slog.Logger) *YahooSource {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	days := cfg.HistoryDays
	if days < 1 {
		days = 30
	}
	perMin := cfg.RateLimitPerMin
	if perMin < 1 {
		perMin = 60
	}
	return &YahooSource{
		attempts:    attempts,
		historyDays: days,
		limiter:     util.NewRateLimiter(perMin),
		log:         log,
	}
}

// Quote returns the current price and trailing daily closes for ticker.
// A missing history is tolerated: the quote comes back with an empty
// Historical slice, matching the original service's behavior.
func (s *YahooSource) Quote(ctx context.Context, ticker string) (*domain.StockQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var q *finance.Quote
	err := util.Retry(ctx, s.attempts, time.Second, func() error {
		var err error
		q, err = finquote.Get(ticker)
		if err != nil {
			return err
		}
		if q == nil || q.Symbol == "" {
			return ErrNoData
		}
		return nil
	}, func(attempt int, err error) {
		s.log.Warn("quote fetch attempt failed", "ticker", ticker, "attempt", attempt, "error", err)
	})
	if err != nil {
		return nil, err
	}

	name := q.ShortName
	if name == "" {
		name = "N/A"
	}

	return &domain.StockQuote{
		Symbol:     q.Symbol,
		Name:       name,
		Price:      q.RegularMarketPrice,
		Historical: s.history(ticker),
	}, nil
}

// history fetches the trailing daily closes, returning nil on any error.
func (s *YahooSource) history(ticker string) []domain.ClosePoint {
	end := time.Now()
	start := end.AddDate(0, 0, -s.historyDays)

	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var points []domain.ClosePoint
	for iter.Next() {
		bar := iter.Bar()
		closePrice, _ := bar.Close.Float64()
		points = append(points, domain.ClosePoint{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC().Format("2006-01-02"),
			Close: closePrice,
		})
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("history fetch failed", "ticker", ticker, "error", err)
		return nil
	}
	return points
}
