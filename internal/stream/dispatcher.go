// Package stream pushes cache changes to long-lived consumers. Each
// consumer polls the cache on its own goroutine and receives one event per
// observed change; consumers may skip versions but never see one twice.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
)

// Event is one message for a consumer. Data is a JSON document.
type Event struct {
	Data []byte
}

// Emitter delivers events over a transport. An error ends the stream.
type Emitter interface {
	Emit(ev Event) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ev Event) error

func (f EmitterFunc) Emit(ev Event) error { return f(ev) }

// WatchlistMessage is the wire shape of a watchlist snapshot.
type WatchlistMessage struct {
	Quotes    []model.Quote `json:"quotes"`
	AsOf      time.Time     `json:"asOf"`
	Timestamp string        `json:"timestamp"`
}

// NewWatchlistMessage builds the wire shape of snap.
func NewWatchlistMessage(snap model.WatchlistSnapshot) WatchlistMessage {
	msg := WatchlistMessage{Quotes: snap.Quotes, AsOf: snap.AsOf}
	if msg.Quotes == nil {
		msg.Quotes = []model.Quote{}
	}
	if !snap.AsOf.IsZero() {
		msg.Timestamp = snap.AsOf.Local().Format(model.ClockLayout)
	}
	return msg
}

// ChartMessage is the wire shape of an intraday series.
type ChartMessage struct {
	model.IntradaySeries
	Timestamp string `json:"timestamp"`
}

// NewChartMessage builds the wire shape of s.
func NewChartMessage(s model.IntradaySeries) ChartMessage {
	return ChartMessage{IntradaySeries: s, Timestamp: s.AsOf.Local().Format(model.ClockLayout)}
}

// Dispatcher runs the per-consumer stream loops.
type Dispatcher struct {
	Cache   *cache.Cache
	Poll    time.Duration
	Metrics *metrics.Metrics
}

// Watchlist emits the watchlist snapshot every time its AsOf changes. Empty
// snapshots are not emitted. It returns nil when ctx ends and the emitter's
// error if a write fails.
func (d *Dispatcher) Watchlist(ctx context.Context, em Emitter) error {
	id := uuid.NewString()
	l := log.With().Str("stream", "ticker").Str("subscriber", id).Logger()
	d.Metrics.SubscriberJoined("ticker")
	defer d.Metrics.SubscriberLeft("ticker")
	l.Debug().Msg("subscriber connected")
	defer l.Debug().Msg("subscriber disconnected")

	var last time.Time
	return d.loop(ctx, func() error {
		snap := d.Cache.Watchlist()
		if snap.Empty() || snap.AsOf.Equal(last) {
			return nil
		}
		if err := d.emit(em, "ticker", NewWatchlistMessage(snap)); err != nil {
			return err
		}
		last = snap.AsOf
		return nil
	})
}

// Chart registers symbol as the focus and emits its series every time the
// cached AsOf changes. An empty symbol is model.ErrFocusNotSet.
func (d *Dispatcher) Chart(ctx context.Context, symbol string, em Emitter) error {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.ErrFocusNotSet
	}
	id := uuid.NewString()
	l := log.With().Str("stream", "chart").Str("symbol", symbol).Str("subscriber", id).Logger()
	d.Cache.SetFocus(symbol)
	d.Metrics.SubscriberJoined("chart")
	defer d.Metrics.SubscriberLeft("chart")
	l.Debug().Msg("subscriber connected")
	defer l.Debug().Msg("subscriber disconnected")

	var last time.Time
	return d.loop(ctx, func() error {
		s, ok := d.Cache.Chart(symbol)
		if !ok || s.AsOf.Equal(last) {
			return nil
		}
		if err := d.emit(em, "chart", NewChartMessage(s)); err != nil {
			return err
		}
		last = s.AsOf
		return nil
	})
}

func (d *Dispatcher) loop(ctx context.Context, check func() error) error {
	poll := d.Poll
	if poll <= 0 {
		poll = time.Second
	}
	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := check(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (d *Dispatcher) emit(em Emitter, stream string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", stream, err)
	}
	if err := em.Emit(Event{Data: data}); err != nil {
		return fmt.Errorf("emit %s event: %w", stream, err)
	}
	d.Metrics.EventSent(stream)
	return nil
}
