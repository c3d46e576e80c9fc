package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MarketPulse/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		BaseURL: yahooChartURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval string, rng model.Period) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yahoo fetch %s: %v: %w", symbol, err, model.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %v: %w", err, model.ErrProviderUnavailable)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("yahoo %s: %w", symbol, model.ErrSymbolNotFound)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("yahoo: status %d: %w", resp.StatusCode, model.ErrProviderUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, model.ErrSymbolNotFound)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bars (halts, holidays)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("yahoo: unsupported period %q", period)
	}
	return f.fetchChart(ctx, symbol, "1d", period)
}

func (f *YahooFetcher) FetchIntradayHistory(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	if g.Interval == "" {
		return nil, errors.New("yahoo: empty interval")
	}
	return f.fetchChart(ctx, symbol, g.Interval, g.Period)
}
