package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// TickerRefresher rebuilds the watchlist snapshot once per cycle.
type TickerRefresher struct {
	Collector   *collector.Collector
	Cache       *cache.Cache
	Symbols     []string
	Concurrency int
	Metrics     *metrics.Metrics
	Recorder    recorder.Recorder
	Now         func() time.Time
}

// RunOnce fetches a quote for every watchlist symbol and commits the
// quotes that succeeded, in watchlist order. Failed symbols are dropped from
// this cycle only. If every symbol fails the previous snapshot is kept and
// committed is false.
func (r *TickerRefresher) RunOnce(ctx context.Context) (snap model.WatchlistSnapshot, committed bool) {
	start := time.Now()
	results := make([]*model.Quote, len(r.Symbols))

	g := new(errgroup.Group)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, sym := range r.Symbols {
		i, sym := i, sym
		g.Go(func() error {
			q, err := r.Collector.Quote(ctx, sym)
			if err != nil {
				kind := model.KindOf(err)
				r.Metrics.ProviderError("ticker", kind)
				log.Warn().Err(err).Str("symbol", sym).Str("kind", string(kind)).Msg("ticker fetch failed")
				return nil
			}
			results[i] = &q
			return nil
		})
	}
	g.Wait()

	quotes := make([]model.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	if len(quotes) == 0 {
		r.Metrics.ObserveRefresh("ticker", "failed", time.Since(start))
		if ctx.Err() == nil {
			log.Error().Int("symbols", len(r.Symbols)).Msg("ticker cycle failed for every symbol, keeping previous snapshot")
		}
		return r.Cache.Watchlist(), false
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	snap = r.Cache.ReplaceWatchlist(model.WatchlistSnapshot{Quotes: quotes, AsOf: now()})
	result := "ok"
	if len(quotes) < len(r.Symbols) {
		result = "partial"
	}
	r.Metrics.ObserveRefresh("ticker", result, time.Since(start))
	r.Metrics.SetWatchlistSize(len(quotes))
	log.Debug().Int("quotes", len(quotes)).Int("symbols", len(r.Symbols)).
		Dur("took", time.Since(start)).Msg("watchlist refreshed")

	if r.Recorder != nil {
		if err := r.Recorder.RecordWatchlist(snap); err != nil {
			log.Error().Err(err).Msg("record watchlist")
		}
	}
	return snap, true
}

// Run adapts RunOnce to a scheduler task.
func (r *TickerRefresher) Run(ctx context.Context) { r.RunOnce(ctx) }
