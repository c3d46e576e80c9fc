package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/model"
)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	BreakerClosed   BreakerState = 0 // requests pass through
	BreakerOpen     BreakerState = 1 // requests rejected immediately
	BreakerHalfOpen BreakerState = 2 // one probe allowed through
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned while the breaker rejects calls. It wraps
// model.ErrProviderUnavailable.
var ErrBreakerOpen = fmt.Errorf("circuit breaker is open: %w", model.ErrProviderUnavailable)

// BreakerFetcher wraps a Fetcher with a circuit breaker. Only errors
// classified as provider-unavailable count as failures; unknown symbols
// and cancellations leave the breaker alone.
type BreakerFetcher struct {
	next Fetcher

	mu           sync.Mutex
	state        BreakerState
	failures     int
	maxFailures  int
	resetTimeout time.Duration
	lastFailure  time.Time
	probing      bool
	now          func() time.Time

	// OnStateChange is called on transitions, outside the breaker lock.
	OnStateChange func(from, to BreakerState)
}

// NewBreakerFetcher wraps next. After maxFailures consecutive provider
// failures the breaker opens for resetTimeout, then lets one probe through.
func NewBreakerFetcher(next Fetcher, maxFailures int, resetTimeout time.Duration) *BreakerFetcher {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &BreakerFetcher{
		next:         next,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        BreakerClosed,
		now:          time.Now,
	}
}

func (b *BreakerFetcher) Name() string { return b.next.Name() }

// State returns the current breaker state.
func (b *BreakerFetcher) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BreakerFetcher) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	err := b.execute(func() error {
		var err error
		bars, err = b.next.FetchDailyHistory(ctx, symbol, period)
		return err
	})
	return bars, err
}

func (b *BreakerFetcher) FetchIntradayHistory(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	err := b.execute(func() error {
		var err error
		bars, err = b.next.FetchIntradayHistory(ctx, symbol, g)
		return err
	})
	return bars, err
}

type stateChange struct{ from, to BreakerState }

func (b *BreakerFetcher) execute(fn func() error) error {
	var changes []stateChange

	b.mu.Lock()
	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) < b.resetTimeout {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		changes = append(changes, b.transition(BreakerHalfOpen))
		b.probing = true
	case BreakerHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		b.probing = true
	}
	probe := b.probing
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	if probe {
		b.probing = false
	}
	switch {
	case errors.Is(err, model.ErrProviderUnavailable):
		b.failures++
		b.lastFailure = b.now()
		if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
			if b.state != BreakerOpen {
				changes = append(changes, b.transition(BreakerOpen))
			}
		}
	case err == nil || errors.Is(err, model.ErrSymbolNotFound):
		if b.state == BreakerHalfOpen {
			changes = append(changes, b.transition(BreakerClosed))
		}
		b.failures = 0
	}
	b.mu.Unlock()

	if b.OnStateChange != nil {
		for _, c := range changes {
			b.OnStateChange(c.from, c.to)
		}
	}
	return err
}

func (b *BreakerFetcher) transition(to BreakerState) stateChange {
	from := b.state
	b.state = to
	if to == BreakerClosed {
		b.failures = 0
	}
	return stateChange{from: from, to: to}
}
