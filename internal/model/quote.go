package model

import "time"

// Quote is the latest price of one watchlist symbol. A refresh replaces a
// Quote wholesale; it is never mutated in place.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// WatchlistSnapshot is the committed result of one ticker refresh cycle.
// Quotes follow the configured watchlist order and must not be modified by
// readers.
type WatchlistSnapshot struct {
	Quotes []Quote   `json:"quotes"`
	AsOf   time.Time `json:"asOf"`
}

// Empty reports whether the snapshot carries no quotes.
func (s WatchlistSnapshot) Empty() bool { return len(s.Quotes) == 0 }

// IntradaySeries is the cached intraday chart of one symbol.
type IntradaySeries struct {
	Symbol        string    `json:"symbol"`
	Prices        []float64 `json:"prices"`
	Times         []string  `json:"times"`
	Open          float64   `json:"open"`
	Last          float64   `json:"last"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	SessionDate   string    `json:"sessionDate"`
	AsOf          time.Time `json:"asOf"`
}

const (
	// SeriesTimeLayout formats IntradaySeries.Times labels.
	SeriesTimeLayout = "2006-01-02 15:04"
	// SessionDateLayout formats IntradaySeries.SessionDate.
	SessionDateLayout = "Jan 02, 2006"
	// ClockLayout is the wall-clock label sent next to asOf.
	ClockLayout = "15:04:05"
)
