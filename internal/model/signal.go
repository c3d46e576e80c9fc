package model

// RSISignal classifies an RSI reading.
type RSISignal string

const (
	RSIOverbought RSISignal = "OVERBOUGHT"
	RSIOversold   RSISignal = "OVERSOLD"
	RSINeutral    RSISignal = "NEUTRAL"
)

// MACDSignal classifies the MACD line against its signal line.
type MACDSignal string

const (
	MACDBullish MACDSignal = "BULLISH"
	MACDBearish MACDSignal = "BEARISH"
)

// BandSignal classifies a price against its Bollinger Bands.
type BandSignal string

const (
	BandOverbought BandSignal = "OVERBOUGHT"
	BandOversold   BandSignal = "OVERSOLD"
	BandNormal     BandSignal = "NORMAL"
)

// CrossSignal classifies MA50 against MA200.
type CrossSignal string

const (
	GoldenCross CrossSignal = "GOLDEN_CROSS"
	DeathCross  CrossSignal = "DEATH_CROSS"
)

// Action is the composite recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Vote is one indicator's contribution to the recommendation.
type Vote struct {
	Indicator string `json:"indicator"`
	Bullish   bool   `json:"bullish"`
}

// Recommendation is the majority vote across indicators. Ties are HOLD.
type Recommendation struct {
	Action    Action `json:"action"`
	BuyVotes  int    `json:"buyVotes"`
	SellVotes int    `json:"sellVotes"`
	Votes     []Vote `json:"votes"`
	Summary   string `json:"summary"`
}

// RSIReport is the RSI section of a strategy report.
type RSIReport struct {
	Value  float64   `json:"value"`
	Signal RSISignal `json:"signal"`
	Note   string    `json:"note"`
}

// MACDReport is the MACD section of a strategy report.
type MACDReport struct {
	MACD           float64    `json:"macd"`
	Signal         float64    `json:"signal"`
	Histogram      float64    `json:"histogram"`
	Interpretation MACDSignal `json:"interpretation"`
	Note           string     `json:"note"`
}

// BollingerReport is the Bollinger section of a strategy report.
type BollingerReport struct {
	Upper  float64    `json:"upper"`
	Lower  float64    `json:"lower"`
	SMA    float64    `json:"sma"`
	Signal BandSignal `json:"signal"`
	Note   string     `json:"note"`
}

// CrossReport is the moving-average crossover section. Available is false
// when fewer than 200 samples exist.
type CrossReport struct {
	Available bool        `json:"available"`
	Signal    CrossSignal `json:"signal,omitempty"`
	MA50      float64     `json:"ma50,omitempty"`
	MA200     float64     `json:"ma200,omitempty"`
	Note      string      `json:"note"`
}

// StrategyReport is the result of an on-demand technical analysis.
type StrategyReport struct {
	Symbol     string          `json:"symbol"`
	Price      float64         `json:"price"`
	RSI        RSIReport       `json:"rsi"`
	MACD       MACDReport      `json:"macd"`
	Bollinger  BollingerReport `json:"bollinger"`
	Support    float64         `json:"support"`
	Resistance float64         `json:"resistance"`
	MACross    CrossReport     `json:"maCrossover"`
	Overall    Recommendation  `json:"overall"`
}

// StockSummary holds key price metrics over a lookback period.
type StockSummary struct {
	Symbol       string   `json:"symbol"`
	Period       Period   `json:"period"`
	CurrentPrice float64  `json:"currentPrice"`
	StartPrice   float64  `json:"startPrice"`
	ROI          float64  `json:"roi"`
	High         float64  `json:"high"`
	Low          float64  `json:"low"`
	AvgVolume    int64    `json:"avgVolume"`
	MA20         *float64 `json:"ma20,omitempty"`
	MA50         *float64 `json:"ma50,omitempty"`
	MA200        *float64 `json:"ma200,omitempty"`
	Samples      int      `json:"samples"`
}
