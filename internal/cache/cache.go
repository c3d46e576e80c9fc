// Package cache holds the in-memory market snapshot shared by the refresh
// loops, the HTTP handlers and the stream dispatcher.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"MarketPulse/internal/model"
)

type chartEntry struct {
	series   *model.IntradaySeries
	lastRead atomic.Int64 // unix nanos
}

// Cache is safe for concurrent use. The watchlist and the focus symbol are
// swapped as whole values; chart entries are immutable once stored and the
// map that holds them is guarded by its own lock. No lock is held while a
// caller does I/O.
type Cache struct {
	watchlist atomic.Pointer[model.WatchlistSnapshot]
	focus     atomic.Pointer[string]

	mu     sync.RWMutex
	charts map[string]*chartEntry

	now func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	c := &Cache{
		charts: make(map[string]*chartEntry),
		now:    time.Now,
	}
	c.watchlist.Store(&model.WatchlistSnapshot{})
	return c
}

// Watchlist returns the last committed snapshot.
func (c *Cache) Watchlist() model.WatchlistSnapshot {
	return *c.watchlist.Load()
}

// ReplaceWatchlist commits snap and returns the stored value. AsOf is forced
// to advance past the previous commit.
func (c *Cache) ReplaceWatchlist(snap model.WatchlistSnapshot) model.WatchlistSnapshot {
	for {
		prev := c.watchlist.Load()
		next := snap
		next.AsOf = advance(prev.AsOf, snap.AsOf)
		if c.watchlist.CompareAndSwap(prev, &next) {
			return next
		}
	}
}

// Chart returns the cached series for symbol.
func (c *Cache) Chart(symbol string) (model.IntradaySeries, bool) {
	c.mu.RLock()
	e, ok := c.charts[symbol]
	c.mu.RUnlock()
	if !ok {
		return model.IntradaySeries{}, false
	}
	e.lastRead.Store(c.now().UnixNano())
	return *e.series, true
}

// PutChart stores series, replacing any entry for its symbol, and returns
// the stored value with AsOf advanced past the previous entry.
func (c *Cache) PutChart(series model.IntradaySeries) model.IntradaySeries {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.charts[series.Symbol]
	if ok {
		series.AsOf = advance(prev.series.AsOf, series.AsOf)
	}
	e := &chartEntry{series: &series}
	if ok {
		e.lastRead.Store(prev.lastRead.Load())
	} else {
		e.lastRead.Store(c.now().UnixNano())
	}
	c.charts[series.Symbol] = e
	return series
}

// SetFocus registers symbol as the focused chart; last writer wins.
func (c *Cache) SetFocus(symbol string) {
	c.focus.Store(&symbol)
}

// Focus returns the focused symbol, if any.
func (c *Cache) Focus() (string, bool) {
	p := c.focus.Load()
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// ChartCount returns the number of cached chart entries.
func (c *Cache) ChartCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.charts)
}

// EvictIdle drops chart entries that are not focused and have not been read
// within idle of now. It returns the evicted symbols.
func (c *Cache) EvictIdle(now time.Time, idle time.Duration) []string {
	focus, _ := c.Focus()
	cutoff := now.Add(-idle).UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()
	var evicted []string
	for sym, e := range c.charts {
		if sym == focus {
			continue
		}
		if e.lastRead.Load() < cutoff {
			delete(c.charts, sym)
			evicted = append(evicted, sym)
		}
	}
	return evicted
}

func advance(prev, next time.Time) time.Time {
	if !next.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return next
}
