package quote

import (
	"io"
	"log/slog"
	"testing"

	"github.com/emad-siddiq/sellscalehood/internal/config"
)

func TestNewYahooSourceClampsConfig(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewYahooSource(config.Quotes{}, log)
	if s.attempts != 1 {
		t.Errorf("attempts = %d, want clamped to 1", s.attempts)
	}
	if s.historyDays != 30 {
		t.Errorf("historyDays = %d, want default 30", s.historyDays)
	}
	if s.limiter == nil {
		t.Error("limiter must be set")
	}

	s = NewYahooSource(config.Quotes{RetryAttempts: 5, HistoryDays: 7, RateLimitPerMin: 10}, log)
	if s.attempts != 5 {
		t.Errorf("attempts = %d, want 5", s.attempts)
	}
	if s.historyDays != 7 {
		t.Errorf("historyDays = %d, want 7", s.historyDays)
	}
}
