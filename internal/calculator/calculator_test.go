package calculator

import (
	"math"
	"testing"

	"MarketPulse/internal/model"
)

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.10f, want %.10f", name, got, want)
	}
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA_WarmUp(t *testing.T) {
	s := SMA([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if _, ok := s.At(i); ok {
			t.Errorf("SMA[%d] should be undefined", i)
		}
	}
	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		got, ok := s.At(i)
		if !ok {
			t.Fatalf("SMA[%d] should be defined", i)
		}
		assertClose(t, "SMA", got, want, 1e-12)
	}
}

func TestSMA_ShortSeriesUnavailable(t *testing.T) {
	s := SMA([]float64{1, 2, 3}, 20)
	if len(s) != 3 {
		t.Fatalf("expected aligned output of length 3, got %d", len(s))
	}
	if s.Available() {
		t.Error("expected no defined values")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last should report unavailable")
	}
}

func TestEMA_SeededWithFirstSample(t *testing.T) {
	s := EMA([]float64{1, 2, 3}, 3)
	assertClose(t, "EMA[0]", s[0], 1, 0)
	assertClose(t, "EMA[1]", s[1], 1.5, 1e-12)
	assertClose(t, "EMA[2]", s[2], 2.25, 1e-12)
}

func TestRSI_MonotonicIncreaseIs100(t *testing.T) {
	prices := ramp(30, 100, 1)
	rsi := RSI(prices)
	for i := 0; i < RSIPeriod; i++ {
		if _, ok := rsi.At(i); ok {
			t.Errorf("RSI[%d] should be undefined", i)
		}
	}
	for i := RSIPeriod; i < len(prices); i++ {
		v, ok := rsi.At(i)
		if !ok {
			t.Fatalf("RSI[%d] should be defined", i)
		}
		if v != 100 {
			t.Errorf("RSI[%d] = %f, want 100", i, v)
		}
	}
}

func TestRSI_MonotonicDecreaseIs0(t *testing.T) {
	rsi := RSI(ramp(20, 100, -1))
	v, ok := rsi.Last()
	if !ok {
		t.Fatal("expected RSI to be defined")
	}
	assertClose(t, "RSI", v, 0, 1e-9)
}

func TestRSI_BalancedMovesIs50(t *testing.T) {
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = 10 + float64(i%2)
	}
	v, ok := RSI(prices).Last()
	if !ok {
		t.Fatal("expected RSI to be defined at index 14")
	}
	assertClose(t, "RSI", v, 50, 1e-9)
}

func TestRSI_TooShort(t *testing.T) {
	if RSI(ramp(14, 1, 1)).Available() {
		t.Error("14 samples give only 13 deltas, RSI should be unavailable")
	}
}

func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/4)
	}
	m := MACD(prices)
	for i := range prices {
		if m.Histogram[i] != m.Line[i]-m.Signal[i] {
			t.Fatalf("histogram[%d] = %v, want %v", i, m.Histogram[i], m.Line[i]-m.Signal[i])
		}
	}
}

func TestMACD_ShortSeriesUnavailable(t *testing.T) {
	m := MACD(ramp(MACDSlow-1, 1, 1))
	if m.Line.Available() || m.Signal.Available() || m.Histogram.Available() {
		t.Error("expected MACD to be unavailable below the slow span")
	}
}

func TestBollinger_MiddleIsSMA20(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 50 + float64(i%7) - float64(i%3)
	}
	bb := Bollinger(prices)
	sma := SMA(prices, 20)
	for i := range prices {
		m, okM := bb.Middle.At(i)
		s, okS := sma.At(i)
		if okM != okS {
			t.Fatalf("availability mismatch at %d", i)
		}
		if okM && m != s {
			t.Errorf("middle[%d] = %v, SMA20 = %v", i, m, s)
		}
		if !okM {
			continue
		}
		u, _ := bb.Upper.At(i)
		l, _ := bb.Lower.At(i)
		if !(u >= m && m >= l) {
			t.Errorf("band order violated at %d: %v %v %v", i, u, m, l)
		}
	}
}

func TestBollinger_SampleStdDev(t *testing.T) {
	bb := Bollinger(ramp(20, 1, 1))
	u, ok := bb.Upper.Last()
	if !ok {
		t.Fatal("expected bands with 20 samples")
	}
	// sample variance of 1..20 is 35
	assertClose(t, "upper", u, 10.5+2*math.Sqrt(35), 1e-9)
	l, _ := bb.Lower.Last()
	assertClose(t, "lower", l, 10.5-2*math.Sqrt(35), 1e-9)
}

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 42
	}
	bb := Bollinger(prices)
	u, _ := bb.Upper.Last()
	m, _ := bb.Middle.Last()
	l, _ := bb.Lower.Last()
	if u != 42 || m != 42 || l != 42 {
		t.Errorf("expected collapsed bands at 42, got %v %v %v", u, m, l)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.01},
		{-2.345, 2, -2.35},
		{101.234, 2, 101.23},
		{0.12345, 4, 0.1235},
		{3, 2, 3},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Error("NaN should pass through")
	}
}

func TestPercentChange(t *testing.T) {
	assertClose(t, "pct", PercentChange(1.5, 100), 1.5, 1e-12)
	if PercentChange(1, 0) != 0 {
		t.Error("zero base should give 0")
	}
}

func TestCloseRangeAndSupportResistance(t *testing.T) {
	closes := ramp(100, 1, 1)
	closes[10] = 0.5 // outside the 60-close window
	s, r, err := SupportResistance(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 41 || r != 100 {
		t.Errorf("support/resistance = %v/%v, want 41/100", s, r)
	}
	if _, _, err := CloseRange(nil, 10); err == nil {
		t.Error("expected error for empty closes")
	}
}

func TestBarRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 10, Low: 8},
		{High: 12, Low: 9},
		{High: 11, Low: 7},
	}
	high, low, err := BarRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 12 || low != 7 {
		t.Errorf("range = %v/%v, want 12/7", high, low)
	}
}

func TestROIAndAvgVolume(t *testing.T) {
	roi, err := ROI(100, 125)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "roi", roi, 25, 1e-12)
	if _, err := ROI(0, 1); err == nil {
		t.Error("expected error for zero start")
	}
	avg := AvgVolume([]model.OHLCV{{Volume: 100}, {Volume: 300}})
	assertClose(t, "avg volume", avg, 200, 0)
}
