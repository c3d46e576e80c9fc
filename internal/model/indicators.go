package model

// MarketIndicators holds the latest indicator readings of one daily series,
// rounded the way they are reported. Has* flags mark readings whose window
// was not yet filled.
type MarketIndicators struct {
	CurrentPrice float64

	HasRSI bool
	RSI    float64

	HasMACD       bool
	MACD          float64
	MACDSignal    float64
	MACDHistogram float64

	HasBollinger bool
	UpperBand    float64
	MiddleBand   float64
	LowerBand    float64

	HasMACross bool
	MA50       float64
	MA200      float64

	Support    float64
	Resistance float64
}
