package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// QuotePeriod is the daily lookback fetched per watchlist symbol; only the
// last two closes are used.
const QuotePeriod = model.Period5D

// BuildQuote derives a quote from daily bars: price and previous close are
// rounded to cents before the change is taken. A single bar yields a zero
// change; no bars is model.ErrSymbolNotFound.
func BuildQuote(symbol string, bars []model.OHLCV) (model.Quote, error) {
	n := len(bars)
	if n == 0 {
		return model.Quote{}, fmt.Errorf("quote %s: %w", symbol, model.ErrSymbolNotFound)
	}
	q := model.Quote{Symbol: symbol, Price: calculator.Round2(bars[n-1].Close)}
	if n == 1 {
		return q, nil
	}
	prev := calculator.Round2(bars[n-2].Close)
	q.Change = calculator.Round2(q.Price - prev)
	q.ChangePercent = calculator.Round2(calculator.PercentChange(q.Change, prev))
	return q, nil
}

// BuildIntraday derives an intraday series from bars. Prices are the raw
// closes; the summary fields are rounded to cents.
func BuildIntraday(symbol string, bars []model.OHLCV, now time.Time) (model.IntradaySeries, error) {
	if len(bars) == 0 {
		return model.IntradaySeries{}, fmt.Errorf("intraday %s: %w", symbol, model.ErrSymbolNotFound)
	}
	s := model.IntradaySeries{
		Symbol:      symbol,
		Prices:      make([]float64, len(bars)),
		Times:       make([]string, len(bars)),
		SessionDate: now.Format(model.SessionDateLayout),
		AsOf:        now,
	}
	for i, b := range bars {
		s.Prices[i] = b.Close
		s.Times[i] = b.Time.Format(model.SeriesTimeLayout)
	}
	s.Last = calculator.Round2(bars[len(bars)-1].Close)
	s.Open = calculator.Round2(bars[0].Open)
	s.Change = calculator.Round2(s.Last - s.Open)
	s.ChangePercent = calculator.Round2(calculator.PercentChange(s.Change, s.Open))
	high, low, err := calculator.BarRange(bars)
	if err != nil {
		return model.IntradaySeries{}, err
	}
	s.DayHigh = calculator.Round2(high)
	s.DayLow = calculator.Round2(low)
	return s, nil
}

// Collector turns provider bars into quotes and series.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration // per fetch; 0 means no extra deadline
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, timeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Timeout: timeout, Now: time.Now}
}

func (c *Collector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// Quote fetches recent daily history for symbol and builds its quote.
func (c *Collector) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	bars, err := c.Fetcher.FetchDailyHistory(ctx, symbol, QuotePeriod)
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch daily %s: %w", symbol, err)
	}
	return BuildQuote(symbol, bars)
}

// Intraday fetches 1-minute bars for the current session, falling back to
// 5-minute bars over five sessions when the first window is empty.
func (c *Collector) Intraday(ctx context.Context, symbol string) (model.IntradaySeries, error) {
	bars, err := c.intradayBars(ctx, symbol, model.Intraday1m)
	if err != nil && !errors.Is(err, model.ErrSymbolNotFound) {
		return model.IntradaySeries{}, err
	}
	if len(bars) == 0 {
		log.Debug().Str("symbol", symbol).Str("granularity", model.Intraday5m.String()).
			Msg("intraday 1m window empty, falling back")
		bars, err = c.intradayBars(ctx, symbol, model.Intraday5m)
		if err != nil {
			return model.IntradaySeries{}, err
		}
	}
	return BuildIntraday(symbol, bars, c.Now())
}

func (c *Collector) intradayBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	bars, err := c.Fetcher.FetchIntradayHistory(ctx, symbol, g)
	if err != nil {
		return nil, fmt.Errorf("fetch intraday %s %s: %w", symbol, g, err)
	}
	return bars, nil
}

// Daily fetches daily history over period. An empty result is
// model.ErrSymbolNotFound.
func (c *Collector) Daily(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	bars, err := c.Fetcher.FetchDailyHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetch daily %s %s: %w", symbol, period, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("daily %s %s: %w", symbol, period, model.ErrSymbolNotFound)
	}
	return bars, nil
}
