package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"MarketPulse/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market-data API.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   string
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher for the given credentials. An empty
// dataURL uses the client default; feed is "iex" or "sip".
func NewAlpacaFetcher(apiKey, apiSecret, dataURL, feed string) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(opts),
		feed:   strings.ToLower(feed),
		now:    time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// lookbackStart maps a period to the first instant requested. Calendar
// windows are padded so that "5d" still spans five sessions across a weekend.
func lookbackStart(now time.Time, p model.Period) (time.Time, error) {
	switch p {
	case model.Period1D:
		return now.AddDate(0, 0, -4), nil
	case model.Period5D:
		return now.AddDate(0, 0, -10), nil
	case model.Period1Mo:
		return now.AddDate(0, -1, 0), nil
	case model.Period3Mo:
		return now.AddDate(0, -3, 0), nil
	case model.Period6Mo:
		return now.AddDate(0, -6, 0), nil
	case model.Period1Y:
		return now.AddDate(-1, 0, 0), nil
	case model.Period2Y:
		return now.AddDate(-2, 0, 0), nil
	case model.Period5Y:
		return now.AddDate(-5, 0, 0), nil
	case model.PeriodMax:
		return time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("alpaca: unsupported period %q", p)
}

func timeFrame(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "1m":
		return marketdata.OneMin, nil
	case "5m":
		return marketdata.NewTimeFrame(5, marketdata.Min), nil
	case "1h":
		return marketdata.OneHour, nil
	case "1d":
		return marketdata.OneDay, nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("alpaca: unsupported interval %q", interval)
}

func (f *AlpacaFetcher) fetchBars(ctx context.Context, symbol string, tf marketdata.TimeFrame, p model.Period) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := f.now()
	start, err := lookbackStart(now, p)
	if err != nil {
		return nil, err
	}
	req := marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     start,
		End:       now,
	}
	switch f.feed {
	case "sip":
		req.Feed = marketdata.SIP
	case "iex":
		req.Feed = marketdata.IEX
	}

	raw, err := f.client.GetBars(strings.ToUpper(symbol), req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars %s: %v: %w", symbol, err, model.ErrProviderUnavailable)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return bars, nil
}

func (f *AlpacaFetcher) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	bars, err := f.fetchBars(ctx, symbol, marketdata.OneDay, period)
	if err != nil {
		return nil, err
	}
	switch period {
	case model.Period1D:
		return lastSessions(bars, 1), nil
	case model.Period5D:
		return lastSessions(bars, 5), nil
	}
	return bars, nil
}

func (f *AlpacaFetcher) FetchIntradayHistory(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	tf, err := timeFrame(g.Interval)
	if err != nil {
		return nil, err
	}
	bars, err := f.fetchBars(ctx, symbol, tf, g.Period)
	if err != nil {
		return nil, err
	}
	switch g.Period {
	case model.Period1D:
		return lastSessions(bars, 1), nil
	case model.Period5D:
		return lastSessions(bars, 5), nil
	}
	return bars, nil
}

// lastSessions keeps the bars of the n most recent UTC calendar dates.
func lastSessions(bars []model.OHLCV, n int) []model.OHLCV {
	if len(bars) == 0 || n <= 0 {
		return bars
	}
	seen := 0
	cut := 0
	var day string
	for i := len(bars) - 1; i >= 0; i-- {
		d := bars[i].Time.Format("2006-01-02")
		if d != day {
			if seen == n {
				cut = i + 1
				break
			}
			seen++
			day = d
		}
	}
	return bars[cut:]
}
