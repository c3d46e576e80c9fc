package calculator

import "math"

const (
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// BollingerBands holds the three band series.
type BollingerBands struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// Bollinger computes 20-period bands at 2 sample standard deviations. The
// middle band is exactly SMA(prices, 20).
func Bollinger(prices []float64) BollingerBands {
	mid := SMA(prices, BollingerPeriod)
	std := StdDev(prices, BollingerPeriod)
	upper := undefined(len(prices))
	lower := undefined(len(prices))
	for i := range prices {
		m, ok := mid.At(i)
		if !ok {
			continue
		}
		s, _ := std.At(i)
		upper[i] = m + BollingerK*s
		lower[i] = m - BollingerK*s
	}
	return BollingerBands{Upper: upper, Middle: mid, Lower: lower}
}

// StdDev computes the trailing sample standard deviation (n-1 denominator).
func StdDev(prices []float64, period int) Series {
	out := undefined(len(prices))
	if period < 2 || len(prices) < period {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		window := prices[i-period+1 : i+1]
		mean := 0.0
		for _, p := range window {
			mean += p
		}
		mean /= float64(period)
		ss := 0.0
		for _, p := range window {
			d := p - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}
