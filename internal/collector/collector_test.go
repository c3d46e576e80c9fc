package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

func dailyBars(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func TestBuildQuote_Rounding(t *testing.T) {
	q, err := BuildQuote("AAPL", dailyBars(99, 100.0, 101.234))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 101.23 || q.Change != 1.23 || q.ChangePercent != 1.23 {
		t.Errorf("got %+v, want price 101.23 change 1.23 pct 1.23", q)
	}

	q, err = BuildQuote("TSLA", dailyBars(200.555, 198.1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// previous close rounds to 200.56 before the change is taken
	if q.Change != -2.46 || q.ChangePercent != -1.23 {
		t.Errorf("got change %v pct %v, want -2.46 / -1.23", q.Change, q.ChangePercent)
	}
}

func TestBuildQuote_SingleBar(t *testing.T) {
	q, err := BuildQuote("MSFT", dailyBars(410.129))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 410.13 || q.Change != 0 || q.ChangePercent != 0 {
		t.Errorf("got %+v", q)
	}
}

func TestBuildQuote_NoBars(t *testing.T) {
	_, err := BuildQuote("ZZZZ", nil)
	if !errors.Is(err, model.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestBuildIntraday(t *testing.T) {
	start := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	bars := []model.OHLCV{
		{Time: start, Open: 100.004, High: 101, Low: 99.5, Close: 100.5},
		{Time: start.Add(time.Minute), Open: 100.5, High: 102.336, Low: 100, Close: 102},
		{Time: start.Add(2 * time.Minute), Open: 102, High: 102.1, Low: 98.994, Close: 101.5},
	}
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	s, err := BuildIntraday("NVDA", bars, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Prices) != len(s.Times) || len(s.Prices) != 3 {
		t.Fatalf("prices/times length mismatch: %d/%d", len(s.Prices), len(s.Times))
	}
	if s.Times[1] != "2024-03-04 14:31" {
		t.Errorf("unexpected time label %q", s.Times[1])
	}
	if s.Open != 100 || s.Last != 101.5 || s.Change != 1.5 || s.ChangePercent != 1.5 {
		t.Errorf("summary mismatch: %+v", s)
	}
	if s.DayHigh != 102.34 || s.DayLow != 98.99 {
		t.Errorf("high/low = %v/%v", s.DayHigh, s.DayLow)
	}
	if s.SessionDate != "Mar 04, 2024" {
		t.Errorf("session date = %q", s.SessionDate)
	}
	if !s.AsOf.Equal(now) {
		t.Errorf("asOf = %v", s.AsOf)
	}
}

func TestCollector_IntradayFallsBackTo5m(t *testing.T) {
	m := NewMockFetcher(100)
	m.SetIntraday("AMZN", "1m", nil)
	m.SetIntraday("AMZN", "5m", dailyBars(10, 11))
	c := NewCollector(m, time.Second)

	s, err := c.Intraday(context.Background(), "AMZN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Prices) != 2 {
		t.Errorf("expected fallback bars, got %d", len(s.Prices))
	}
	if m.CallCount("intraday:AMZN:1m") != 1 || m.CallCount("intraday:AMZN:5m") != 1 {
		t.Errorf("unexpected calls: %v", m.Calls())
	}
}

func TestCollector_IntradayBothEmpty(t *testing.T) {
	m := NewMockFetcher(100)
	m.SetIntraday("META", "1m", nil)
	c := NewCollector(m, time.Second)
	_, err := c.Intraday(context.Background(), "META")
	if !errors.Is(err, model.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCollector_IntradayProviderErrorSkipsFallback(t *testing.T) {
	m := NewMockFetcher(100)
	m.SetError("NFLX", model.ErrProviderUnavailable)
	c := NewCollector(m, time.Second)
	_, err := c.Intraday(context.Background(), "NFLX")
	if !errors.Is(err, model.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
	if m.CallCount("intraday:NFLX:5m") != 0 {
		t.Error("fallback should not run on provider errors")
	}
}

func TestCollector_DailyEmptyIsNotFound(t *testing.T) {
	m := NewMockFetcher(100)
	m.SetDaily("GOOGL", []model.OHLCV{})
	c := NewCollector(m, 0)
	_, err := c.Daily(context.Background(), "GOOGL", model.Period1Y)
	if !errors.Is(err, model.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCollector_QuoteTimeout(t *testing.T) {
	m := NewMockFetcher(100)
	m.Delay = time.Second
	c := NewCollector(m, 10*time.Millisecond)
	_, err := c.Quote(context.Background(), "AAPL")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if model.KindOf(err) != model.KindCanceled {
		t.Errorf("kind = %s", model.KindOf(err))
	}
}

func TestLastSessions(t *testing.T) {
	day := func(d, h int) model.OHLCV {
		return model.OHLCV{Time: time.Date(2024, 3, d, h, 0, 0, 0, time.UTC)}
	}
	bars := []model.OHLCV{day(1, 15), day(1, 16), day(4, 15), day(5, 15), day(5, 16)}
	if got := lastSessions(bars, 1); len(got) != 2 {
		t.Errorf("last session: got %d bars, want 2", len(got))
	}
	if got := lastSessions(bars, 2); len(got) != 3 {
		t.Errorf("last two sessions: got %d bars, want 3", len(got))
	}
	if got := lastSessions(bars, 5); len(got) != 5 {
		t.Errorf("all sessions: got %d bars, want 5", len(got))
	}
}
