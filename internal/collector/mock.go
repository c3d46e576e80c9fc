package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without configured data get generated bars around Price.
type MockFetcher struct {
	mu       sync.Mutex
	Price    float64
	Daily    map[string][]model.OHLCV
	Intraday map[string]map[string][]model.OHLCV // symbol -> interval -> bars
	Errors   map[string]error
	Delay    time.Duration
	calls    []string
}

// NewMockFetcher creates a MockFetcher that generates bars around price.
func NewMockFetcher(price float64) *MockFetcher {
	return &MockFetcher{
		Price:    price,
		Daily:    make(map[string][]model.OHLCV),
		Intraday: make(map[string]map[string][]model.OHLCV),
		Errors:   make(map[string]error),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

// SetDaily replaces the daily bars served for symbol.
func (m *MockFetcher) SetDaily(symbol string, bars []model.OHLCV) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Daily[symbol] = bars
}

// SetIntraday replaces the intraday bars served for symbol at interval.
func (m *MockFetcher) SetIntraday(symbol, interval string, bars []model.OHLCV) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Intraday[symbol] == nil {
		m.Intraday[symbol] = make(map[string][]model.OHLCV)
	}
	m.Intraday[symbol][interval] = bars
}

// SetError makes every fetch for symbol fail with err; nil clears it.
func (m *MockFetcher) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.Errors, symbol)
		return
	}
	m.Errors[symbol] = err
}

// Calls returns the fetches made so far as "kind:symbol:detail" entries.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount counts recorded fetches whose entry equals call.
func (m *MockFetcher) CallCount(call string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockFetcher) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockFetcher) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("daily:%s:%s", symbol, period))
	err := m.Errors[symbol]
	bars, ok := m.Daily[symbol]
	price := m.Price
	m.mu.Unlock()

	if werr := m.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if ok {
		return bars, nil
	}
	return generateMockBars(price, 5, 24*time.Hour), nil
}

func (m *MockFetcher) FetchIntradayHistory(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("intraday:%s:%s", symbol, g.Interval))
	err := m.Errors[symbol]
	bars, ok := m.Intraday[symbol][g.Interval]
	_, anyIntraday := m.Intraday[symbol]
	price := m.Price
	m.mu.Unlock()

	if werr := m.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if ok {
		return bars, nil
	}
	if anyIntraday {
		return nil, nil
	}
	return generateMockBars(price, 30, time.Minute), nil
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Now().Add(-time.Duration(count) * step)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
