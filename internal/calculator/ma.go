package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// SMA computes the simple moving average of the trailing period samples.
// The first period-1 positions are undefined; a series shorter than period
// is undefined everywhere.
func SMA(prices []float64, period int) Series {
	if period <= 0 || len(prices) < period {
		return undefined(len(prices))
	}
	out := Series(talib.Sma(prices, period))
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	return out
}

// EMA computes the recursive exponential moving average with smoothing
// factor 2/(span+1), seeded with the first sample. Every position is defined.
func EMA(prices []float64, span int) Series {
	if span <= 0 {
		return undefined(len(prices))
	}
	out := make(Series, len(prices))
	if len(prices) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MovingAverages bundles the trend averages used for crossover checks.
type MovingAverages struct {
	MA20  Series
	MA50  Series
	MA200 Series
}

// CalculateMovingAverages returns MA20, MA50 and MA200 over prices.
func CalculateMovingAverages(prices []float64) MovingAverages {
	return MovingAverages{
		MA20:  SMA(prices, 20),
		MA50:  SMA(prices, 50),
		MA200: SMA(prices, 200),
	}
}
