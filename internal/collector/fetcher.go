package collector

import (
	"context"

	"MarketPulse/internal/model"
)

// Fetcher defines the interface for fetching market data. Bars are returned
// oldest first. Implementations wrap failures with model.ErrSymbolNotFound
// (no history for the symbol) or model.ErrProviderUnavailable (network,
// timeout, upstream 5xx) so callers can classify them.
type Fetcher interface {
	FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error)
	FetchIntradayHistory(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error)
	Name() string
}
