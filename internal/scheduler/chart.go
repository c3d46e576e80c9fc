package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// ChartRefresher keeps the intraday series of the focused symbol fresh.
type ChartRefresher struct {
	Collector *collector.Collector
	Cache     *cache.Cache
	Metrics   *metrics.Metrics
	Recorder  recorder.Recorder
}

// RunOnce refreshes the focused symbol's series. Without a focus, or when
// the provider fails or returns nothing, the cache is left untouched.
// Entries of previously focused symbols are never removed here.
func (r *ChartRefresher) RunOnce(ctx context.Context) (model.IntradaySeries, bool) {
	sym, ok := r.Cache.Focus()
	if !ok {
		return model.IntradaySeries{}, false
	}
	start := time.Now()

	series, err := r.Collector.Intraday(ctx, sym)
	if err != nil {
		kind := model.KindOf(err)
		r.Metrics.ProviderError("chart", kind)
		r.Metrics.ObserveRefresh("chart", "failed", time.Since(start))
		log.Warn().Err(err).Str("symbol", sym).Str("kind", string(kind)).Msg("chart refresh failed")
		return model.IntradaySeries{}, false
	}

	stored := r.Cache.PutChart(series)
	r.Metrics.ObserveRefresh("chart", "ok", time.Since(start))
	r.Metrics.SetCachedCharts(r.Cache.ChartCount())
	log.Debug().Str("symbol", sym).Int("points", len(stored.Prices)).Msg("chart refreshed")

	if r.Recorder != nil {
		if err := r.Recorder.RecordChart(stored); err != nil {
			log.Error().Err(err).Msg("record chart")
		}
	}
	return stored, true
}

// Run adapts RunOnce to a scheduler task.
func (r *ChartRefresher) Run(ctx context.Context) { r.RunOnce(ctx) }

// ChartEvictor drops idle intraday series.
type ChartEvictor struct {
	Cache   *cache.Cache
	Idle    time.Duration
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Run evicts chart entries that are unfocused and unread for Idle.
func (e *ChartEvictor) Run(_ context.Context) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	evicted := e.Cache.EvictIdle(now(), e.Idle)
	if len(evicted) == 0 {
		return
	}
	e.Metrics.Evicted(len(evicted))
	e.Metrics.SetCachedCharts(e.Cache.ChartCount())
	log.Info().Strs("symbols", evicted).Msg("evicted idle charts")
}
