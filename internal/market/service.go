// Package market is the synchronous read side: it answers API requests from
// the cache and falls through to the provider only where no background task
// owns the data.
package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/calculator"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

// ErrInvalidPeriod is returned by Summary for an unsupported lookback.
var ErrInvalidPeriod = errors.New("invalid period")

// AnalysisPeriod is the daily lookback strategy reports are built from.
const AnalysisPeriod = model.Period1Y

// DefaultSummaryPeriod is used when Summary is called without a period.
const DefaultSummaryPeriod = model.Period1Y

var summaryPeriods = map[model.Period]bool{
	model.Period1Mo: true,
	model.Period3Mo: true,
	model.Period6Mo: true,
	model.Period1Y:  true,
	model.Period5Y:  true,
	model.PeriodMax: true,
}

// Service serves watchlist, chart, strategy and summary reads.
type Service struct {
	Cache     *cache.Cache
	Collector *collector.Collector
}

// NewService wires a Service.
func NewService(c *cache.Cache, col *collector.Collector) *Service {
	return &Service{Cache: c, Collector: col}
}

// GetWatchlistSnapshot returns the last committed watchlist snapshot. It
// never touches the provider.
func (s *Service) GetWatchlistSnapshot() model.WatchlistSnapshot {
	return s.Cache.Watchlist()
}

// GetOrBootstrapChart registers symbol as the focus and returns its cached
// series. On a miss the series is fetched once, stored and returned; the
// chart refresher keeps it current from then on.
func (s *Service) GetOrBootstrapChart(ctx context.Context, symbol string) (model.IntradaySeries, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.IntradaySeries{}, model.ErrFocusNotSet
	}
	s.Cache.SetFocus(symbol)

	if cached, ok := s.Cache.Chart(symbol); ok {
		return cached, nil
	}

	series, err := s.Collector.Intraday(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Str("kind", string(model.KindOf(err))).Msg("chart bootstrap failed")
		return model.IntradaySeries{}, err
	}
	stored := s.Cache.PutChart(series)
	log.Info().Str("symbol", symbol).Int("points", len(stored.Prices)).Msg("chart bootstrapped")
	return stored, nil
}

// Analyze builds a strategy report from one year of daily closes. Fewer
// than strategy.MinSamples closes, including none at all, is
// model.ErrInsufficientHistory.
func (s *Service) Analyze(ctx context.Context, symbol string) (model.StrategyReport, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.StrategyReport{}, model.ErrFocusNotSet
	}

	bars, err := s.Collector.Daily(ctx, symbol, AnalysisPeriod)
	if errors.Is(err, model.ErrSymbolNotFound) {
		return model.StrategyReport{}, fmt.Errorf("analyze %s: %w", symbol, model.ErrInsufficientHistory)
	}
	if err != nil {
		return model.StrategyReport{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	if len(bars) < strategy.MinSamples {
		return model.StrategyReport{}, fmt.Errorf("analyze %s: %d samples: %w", symbol, len(bars), model.ErrInsufficientHistory)
	}

	ind := strategy.Indicators(model.Closes(bars))
	report := strategy.Evaluate(symbol, ind)
	log.Debug().Str("symbol", symbol).Int("samples", len(bars)).Str("action", string(report.Overall.Action)).Msg("strategy evaluated")
	return report, nil
}

// Summary reports price metrics over period. An empty period means
// DefaultSummaryPeriod.
func (s *Service) Summary(ctx context.Context, symbol string, period model.Period) (model.StockSummary, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.StockSummary{}, model.ErrFocusNotSet
	}
	if period == "" {
		period = DefaultSummaryPeriod
	}
	if !summaryPeriods[period] {
		return model.StockSummary{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	start := time.Now()
	bars, err := s.Collector.Daily(ctx, symbol, period)
	if err != nil {
		return model.StockSummary{}, fmt.Errorf("summary %s: %w", symbol, err)
	}
	closes := model.Closes(bars)

	current := calculator.Round2(closes[len(closes)-1])
	first := calculator.Round2(closes[0])
	roi, err := calculator.ROI(first, current)
	if err != nil {
		return model.StockSummary{}, fmt.Errorf("summary %s: %w", symbol, err)
	}
	high, low, err := calculator.CloseRange(closes, 0)
	if err != nil {
		return model.StockSummary{}, fmt.Errorf("summary %s: %w", symbol, err)
	}

	ma := calculator.CalculateMovingAverages(closes)
	summary := model.StockSummary{
		Symbol:       symbol,
		Period:       period,
		CurrentPrice: current,
		StartPrice:   first,
		ROI:          calculator.Round2(roi),
		High:         calculator.Round2(high),
		Low:          calculator.Round2(low),
		AvgVolume:    int64(calculator.AvgVolume(bars)),
		MA20:         lastRounded(ma.MA20),
		MA50:         lastRounded(ma.MA50),
		MA200:        lastRounded(ma.MA200),
		Samples:      len(bars),
	}
	log.Debug().Str("symbol", symbol).Str("period", string(period)).Dur("took", time.Since(start)).Msg("summary built")
	return summary, nil
}

func lastRounded(s calculator.Series) *float64 {
	v, ok := s.Last()
	if !ok {
		return nil
	}
	r := calculator.Round2(v)
	return &r
}
