package recorder

import "MarketPulse/internal/model"

// ProviderEvent records a provider circuit breaker transition.
type ProviderEvent struct {
	Provider string
	From     string
	To       string
}

// Recorder keeps an append-only history of committed refreshes for offline
// analysis. It is never read back by the service.
type Recorder interface {
	RecordWatchlist(snap model.WatchlistSnapshot) error
	RecordChart(series model.IntradaySeries) error
	RecordProviderEvent(evt ProviderEvent) error
	Close() error
}
