package strategy

import (
	"fmt"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// MinSamples is the shortest daily history a strategy report is built from.
const MinSamples = 30

// Indicators computes the latest indicator readings of a daily close series.
// Readings are rounded the way they are reported (RSI and bands to 2
// places, MACD to 4); readings whose window is not filled are flagged
// unavailable.
func Indicators(closes []float64) model.MarketIndicators {
	var ind model.MarketIndicators
	if len(closes) == 0 {
		return ind
	}
	ind.CurrentPrice = calculator.Round2(closes[len(closes)-1])

	if v, ok := calculator.RSI(closes).Last(); ok {
		ind.HasRSI = true
		ind.RSI = calculator.Round2(v)
	}

	m := calculator.MACD(closes)
	line, okL := m.Line.Last()
	sig, okS := m.Signal.Last()
	hist, okH := m.Histogram.Last()
	if okL && okS && okH {
		ind.HasMACD = true
		ind.MACD = calculator.Round(line, 4)
		ind.MACDSignal = calculator.Round(sig, 4)
		ind.MACDHistogram = calculator.Round(hist, 4)
	}

	bb := calculator.Bollinger(closes)
	upper, okU := bb.Upper.Last()
	mid, okM := bb.Middle.Last()
	lower, okLo := bb.Lower.Last()
	if okU && okM && okLo {
		ind.HasBollinger = true
		ind.UpperBand = calculator.Round2(upper)
		ind.MiddleBand = calculator.Round2(mid)
		ind.LowerBand = calculator.Round2(lower)
	}

	ma := calculator.CalculateMovingAverages(closes)
	ma50, ok50 := ma.MA50.Last()
	ma200, ok200 := ma.MA200.Last()
	if ok50 && ok200 {
		ind.HasMACross = true
		ind.MA50 = ma50
		ind.MA200 = ma200
	}

	if s, r, err := calculator.SupportResistance(closes); err == nil {
		ind.Support = calculator.Round2(s)
		ind.Resistance = calculator.Round2(r)
	}
	return ind
}

// Evaluate classifies every available indicator and combines them into a
// recommendation. RSI and Bollinger vote only at their extremes; MACD and
// the MA crossover always vote when available.
func Evaluate(symbol string, ind model.MarketIndicators) model.StrategyReport {
	report := model.StrategyReport{
		Symbol:     symbol,
		Price:      ind.CurrentPrice,
		Support:    ind.Support,
		Resistance: ind.Resistance,
	}
	var votes []model.Vote

	if ind.HasRSI {
		s := ClassifyRSI(ind.RSI)
		report.RSI = model.RSIReport{Value: ind.RSI, Signal: s, Note: rsiNote(s)}
		switch s {
		case model.RSIOversold:
			votes = append(votes, model.Vote{Indicator: "rsi", Bullish: true})
		case model.RSIOverbought:
			votes = append(votes, model.Vote{Indicator: "rsi", Bullish: false})
		}
	} else {
		report.RSI.Note = "Not enough data for RSI"
	}

	if ind.HasMACD {
		s := ClassifyMACD(ind.MACD, ind.MACDSignal)
		report.MACD = model.MACDReport{
			MACD:           ind.MACD,
			Signal:         ind.MACDSignal,
			Histogram:      ind.MACDHistogram,
			Interpretation: s,
			Note:           macdNote(s),
		}
		votes = append(votes, model.Vote{Indicator: "macd", Bullish: s == model.MACDBullish})
	} else {
		report.MACD.Note = "Not enough data for MACD"
	}

	if ind.HasBollinger {
		s := ClassifyBands(ind.CurrentPrice, ind.UpperBand, ind.LowerBand)
		report.Bollinger = model.BollingerReport{
			Upper:  ind.UpperBand,
			Lower:  ind.LowerBand,
			SMA:    ind.MiddleBand,
			Signal: s,
			Note:   bandNote(s),
		}
		switch s {
		case model.BandOversold:
			votes = append(votes, model.Vote{Indicator: "bollinger", Bullish: true})
		case model.BandOverbought:
			votes = append(votes, model.Vote{Indicator: "bollinger", Bullish: false})
		}
	} else {
		report.Bollinger.Note = "Not enough data for Bollinger Bands"
	}

	if ind.HasMACross {
		s := ClassifyCross(ind.MA50, ind.MA200)
		report.MACross = model.CrossReport{
			Available: true,
			Signal:    s,
			MA50:      calculator.Round2(ind.MA50),
			MA200:     calculator.Round2(ind.MA200),
			Note:      crossNote(s),
		}
		votes = append(votes, model.Vote{Indicator: "ma_cross", Bullish: s == model.GoldenCross})
	} else {
		report.MACross.Note = "Not enough data for MA200 crossover"
	}

	report.Overall = Recommend(votes)
	return report
}

// Recommend tallies votes. More bullish votes is BUY, more bearish is SELL
// and a tie (including no votes) is HOLD.
func Recommend(votes []model.Vote) model.Recommendation {
	rec := model.Recommendation{Votes: votes}
	for _, v := range votes {
		if v.Bullish {
			rec.BuyVotes++
		} else {
			rec.SellVotes++
		}
	}
	total := rec.BuyVotes + rec.SellVotes
	switch {
	case rec.BuyVotes > rec.SellVotes:
		rec.Action = model.ActionBuy
		rec.Summary = fmt.Sprintf("BUY: %d of %d indicators bullish", rec.BuyVotes, total)
	case rec.SellVotes > rec.BuyVotes:
		rec.Action = model.ActionSell
		rec.Summary = fmt.Sprintf("SELL: %d of %d indicators bearish", rec.SellVotes, total)
	default:
		rec.Action = model.ActionHold
		rec.Summary = fmt.Sprintf("HOLD: signals are mixed (%d buy, %d sell)", rec.BuyVotes, rec.SellVotes)
	}
	return rec
}
