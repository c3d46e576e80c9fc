package calculator

import talib "github.com/markcheno/go-talib"

// RSIPeriod is the fixed RSI window.
const RSIPeriod = 14

// zeroLoss absorbs the residue a running-sum mean leaves behind once every
// loss has rolled out of the window.
const zeroLoss = 1e-12

// RSI computes the 14-period relative strength index using simple rolling
// means of gains and losses (not Wilder smoothing). Position i needs the
// 14 deltas ending at i, so the first 14 positions are undefined. When the
// average loss is zero the RSI is 100.
func RSI(prices []float64) Series {
	out := undefined(len(prices))
	if len(prices) < RSIPeriod+1 {
		return out
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := talib.Sma(gains, RSIPeriod)
	avgLoss := talib.Sma(losses, RSIPeriod)
	for i := RSIPeriod; i < len(prices); i++ {
		g, l := avgGain[i-1], avgLoss[i-1]
		if l < zeroLoss {
			out[i] = 100.0
			continue
		}
		rs := g / l
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
