package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1709562600,1709562660,1709562720],
"indicators":{"quote":[{"open":[100.0,null,101.0],"high":[101.0,null,102.0],
"low":[99.0,null,100.5],"close":[100.5,null,101.5],"volume":[1000,null,1200]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, h http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL + "/"
	return f
}

func TestYahoo_ParsesChartAndSkipsNullBars(t *testing.T) {
	var gotQuery string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if !strings.HasSuffix(r.URL.Path, "/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(chartBody))
	})

	bars, err := f.FetchIntradayHistory(context.Background(), "AAPL", model.Intraday1m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "interval=1m&range=1d" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after dropping nulls, got %d", len(bars))
	}
	if bars[1].Close != 101.5 || bars[1].Volume != 1200 {
		t.Errorf("unexpected bar: %+v", bars[1])
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars should be oldest first")
	}
}

func TestYahoo_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, model.ErrSymbolNotFound},
		{http.StatusInternalServerError, model.ErrProviderUnavailable},
		{http.StatusTooManyRequests, model.ErrProviderUnavailable},
	}
	for _, tt := range tests {
		f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := f.FetchDailyHistory(context.Background(), "AAPL", model.Period5D)
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestYahoo_SymbolMap(t *testing.T) {
	var path string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(chartBody))
	})
	if _, err := f.FetchDailyHistory(context.Background(), "SPX", model.Period1Y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/^GSPC" {
		t.Errorf("path = %q, want /^GSPC", path)
	}
}

func TestYahoo_InvalidPeriod(t *testing.T) {
	f := NewYahooFetcher("", time.Second)
	if _, err := f.FetchDailyHistory(context.Background(), "AAPL", model.Period("7w")); err == nil {
		t.Error("expected error for unsupported period")
	}
}
