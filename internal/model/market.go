package model

import (
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Period is a provider lookback window such as "5d" or "1y".
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// Valid reports whether p is one of the recognised lookback periods.
func (p Period) Valid() bool {
	switch p {
	case Period1D, Period5D, Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y, Period5Y, PeriodMax:
		return true
	}
	return false
}

// Granularity selects an intraday window and bar size.
type Granularity struct {
	Period   Period
	Interval string // "1m", "5m"
}

var (
	Intraday1m = Granularity{Period: Period1D, Interval: "1m"}
	Intraday5m = Granularity{Period: Period5D, Interval: "5m"}
)

func (g Granularity) String() string { return string(g.Period) + "/" + g.Interval }

// Closes extracts the close prices of bars in order.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// NormalizeSymbol trims and upper-cases a user supplied ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
