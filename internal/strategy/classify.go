package strategy

import "MarketPulse/internal/model"

const (
	RSIOverboughtLevel = 70.0
	RSIOversoldLevel   = 30.0
)

// ClassifyRSI maps an RSI reading to its signal. The thresholds are strict:
// exactly 70 or 30 is neutral.
func ClassifyRSI(rsi float64) model.RSISignal {
	switch {
	case rsi > RSIOverboughtLevel:
		return model.RSIOverbought
	case rsi < RSIOversoldLevel:
		return model.RSIOversold
	default:
		return model.RSINeutral
	}
}

// ClassifyMACD is bullish only when the MACD line is strictly above its
// signal line.
func ClassifyMACD(macd, signal float64) model.MACDSignal {
	if macd > signal {
		return model.MACDBullish
	}
	return model.MACDBearish
}

// ClassifyBands compares price with the outer bands. Touching a band counts.
func ClassifyBands(price, upper, lower float64) model.BandSignal {
	switch {
	case price >= upper:
		return model.BandOverbought
	case price <= lower:
		return model.BandOversold
	default:
		return model.BandNormal
	}
}

// ClassifyCross reports a golden cross when MA50 is strictly above MA200.
func ClassifyCross(ma50, ma200 float64) model.CrossSignal {
	if ma50 > ma200 {
		return model.GoldenCross
	}
	return model.DeathCross
}

func rsiNote(s model.RSISignal) string {
	switch s {
	case model.RSIOverbought:
		return "Overbought, consider selling"
	case model.RSIOversold:
		return "Oversold, consider buying"
	}
	return "Neutral range"
}

func macdNote(s model.MACDSignal) string {
	if s == model.MACDBullish {
		return "Bullish crossover, buy signal"
	}
	return "Bearish crossover, sell signal"
}

func bandNote(s model.BandSignal) string {
	switch s {
	case model.BandOverbought:
		return "Near upper band, potentially overbought"
	case model.BandOversold:
		return "Near lower band, potentially oversold"
	}
	return "Within normal range"
}

func crossNote(s model.CrossSignal) string {
	if s == model.GoldenCross {
		return "Golden cross (MA50 > MA200), bullish"
	}
	return "Death cross (MA50 < MA200), bearish"
}
