package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"MarketPulse/internal/model"
)

func TestMetrics_ExposedOnHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRefresh("ticker", "ok", 120*time.Millisecond)
	m.ProviderError("ticker", model.KindProviderUnavailable)
	m.SetWatchlistSize(8)
	m.SubscriberJoined("ticker")
	m.EventSent("ticker")
	m.SetBreakerState(1, true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`marketpulse_refresh_cycles_total{refresher="ticker",result="ok"} 1`,
		`marketpulse_provider_errors_total{kind="provider_unavailable",refresher="ticker"} 1`,
		`marketpulse_watchlist_quotes 8`,
		`marketpulse_stream_subscribers{stream="ticker"} 1`,
		`marketpulse_provider_breaker_trips_total 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRefresh("chart", "ok", time.Second)
	m.ProviderError("chart", model.KindUnknown)
	m.SubscriberJoined("chart")
	m.SubscriberLeft("chart")
	m.Evicted(3)
}
