package calculator

import (
	"errors"
	"math"

	"MarketPulse/internal/model"
)

// SupportResistanceLookback is the number of trailing closes scanned for
// support and resistance.
const SupportResistanceLookback = 60

// BarRange returns the highest High and lowest Low across bars.
func BarRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// CloseRange scans the most recent lookback closes and returns the high and
// low. A lookback <= 0 scans every close.
func CloseRange(closes []float64, lookback int) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no closes provided")
	}
	n := len(closes)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if closes[i] > high {
			high = closes[i]
		}
		if closes[i] < low {
			low = closes[i]
		}
	}
	return high, low, nil
}

// SupportResistance returns the lowest and highest of the trailing 60 closes.
func SupportResistance(closes []float64) (support, resistance float64, err error) {
	resistance, support, err = CloseRange(closes, SupportResistanceLookback)
	return support, resistance, err
}

// ROI returns the percentage return from start to end.
func ROI(start, end float64) (float64, error) {
	if start == 0 {
		return 0, errors.New("start price must be non-zero")
	}
	return (end - start) / start * 100, nil
}

// AvgVolume returns the mean traded volume across bars.
func AvgVolume(bars []model.OHLCV) float64 {
	if len(bars) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range bars {
		total += b.Volume
	}
	return total / float64(len(bars))
}
