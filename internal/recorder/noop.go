package recorder

import "MarketPulse/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordWatchlist(_ model.WatchlistSnapshot) error { return nil }
func (n *NoopRecorder) RecordChart(_ model.IntradaySeries) error        { return nil }
func (n *NoopRecorder) RecordProviderEvent(_ ProviderEvent) error       { return nil }
func (n *NoopRecorder) Close() error                                    { return nil }
