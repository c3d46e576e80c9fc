package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketPulse/internal/model"
)

// Metrics holds all Prometheus metrics for the market service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	RefreshCycles   *prometheus.CounterVec   // labels: refresher, result
	RefreshDuration *prometheus.HistogramVec // labels: refresher
	ProviderErrors  *prometheus.CounterVec   // labels: refresher, kind
	WatchlistSize   prometheus.Gauge
	CachedCharts    prometheus.Gauge
	ChartEvictions  prometheus.Counter

	StreamSubscribers *prometheus.GaugeVec   // labels: stream
	StreamEvents      *prometheus.CounterVec // labels: stream

	BreakerState prometheus.Gauge // 0=closed, 1=open, 2=half-open
	BreakerTrips prometheus.Counter
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_refresh_cycles_total",
			Help: "Refresh cycles by refresher and result",
		}, []string{"refresher", "result"}),
		RefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketpulse_refresh_duration_seconds",
			Help:    "Wall time of one refresh cycle",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"refresher"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_provider_errors_total",
			Help: "Provider fetch errors by refresher and error kind",
		}, []string{"refresher", "kind"}),
		WatchlistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketpulse_watchlist_quotes",
			Help: "Quotes in the last committed watchlist snapshot",
		}),
		CachedCharts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketpulse_cached_charts",
			Help: "Intraday series held in the cache",
		}),
		ChartEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_chart_evictions_total",
			Help: "Idle intraday series dropped from the cache",
		}),
		StreamSubscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketpulse_stream_subscribers",
			Help: "Open stream connections by stream",
		}, []string{"stream"}),
		StreamEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_stream_events_total",
			Help: "Events written to stream consumers",
		}, []string{"stream"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketpulse_provider_breaker_state",
			Help: "Provider circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		BreakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_provider_breaker_trips_total",
			Help: "Times the provider circuit breaker opened",
		}),
	}

	reg.MustRegister(
		m.RefreshCycles,
		m.RefreshDuration,
		m.ProviderErrors,
		m.WatchlistSize,
		m.CachedCharts,
		m.ChartEvictions,
		m.StreamSubscribers,
		m.StreamEvents,
		m.BreakerState,
		m.BreakerTrips,
	)
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveRefresh records one refresh cycle.
func (m *Metrics) ObserveRefresh(refresher, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RefreshCycles.WithLabelValues(refresher, result).Inc()
	m.RefreshDuration.WithLabelValues(refresher).Observe(d.Seconds())
}

// ProviderError counts a fetch failure by kind.
func (m *Metrics) ProviderError(refresher string, kind model.ErrorKind) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(refresher, string(kind)).Inc()
}

// SetWatchlistSize records the committed snapshot size.
func (m *Metrics) SetWatchlistSize(n int) {
	if m == nil {
		return
	}
	m.WatchlistSize.Set(float64(n))
}

// SetCachedCharts records the cached chart count.
func (m *Metrics) SetCachedCharts(n int) {
	if m == nil {
		return
	}
	m.CachedCharts.Set(float64(n))
}

// Evicted counts evicted chart entries.
func (m *Metrics) Evicted(n int) {
	if m == nil {
		return
	}
	m.ChartEvictions.Add(float64(n))
}

// SubscriberJoined increments the open connection gauge for stream.
func (m *Metrics) SubscriberJoined(stream string) {
	if m == nil {
		return
	}
	m.StreamSubscribers.WithLabelValues(stream).Inc()
}

// SubscriberLeft decrements the open connection gauge for stream.
func (m *Metrics) SubscriberLeft(stream string) {
	if m == nil {
		return
	}
	m.StreamSubscribers.WithLabelValues(stream).Dec()
}

// EventSent counts an emitted stream event.
func (m *Metrics) EventSent(stream string) {
	if m == nil {
		return
	}
	m.StreamEvents.WithLabelValues(stream).Inc()
}

// SetBreakerState records a breaker transition; opening counts as a trip.
func (m *Metrics) SetBreakerState(state int, tripped bool) {
	if m == nil {
		return
	}
	m.BreakerState.Set(float64(state))
	if tripped {
		m.BreakerTrips.Inc()
	}
}
