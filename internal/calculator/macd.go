package calculator

const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDResult holds the three MACD series.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// MACD computes EMA(12) - EMA(26), its EMA(9) signal line and the histogram.
// The EMAs have no warm-up gap, but a series shorter than the slow span is
// reported as unavailable.
func MACD(prices []float64) MACDResult {
	n := len(prices)
	if n < MACDSlow {
		return MACDResult{Line: undefined(n), Signal: undefined(n), Histogram: undefined(n)}
	}

	fast := EMA(prices, MACDFast)
	slow := EMA(prices, MACDSlow)
	line := make(Series, n)
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal := EMA(line, MACDSignal)
	hist := make(Series, n)
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}
	return MACDResult{Line: line, Signal: signal, Histogram: hist}
}
