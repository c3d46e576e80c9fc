package calculator

import "math"

// Series is an indicator output aligned index-for-index with its input
// prices. Positions still inside the warm-up window hold NaN and must be
// read through At or Last.
type Series []float64

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || math.IsNaN(s[i]) {
		return 0, false
	}
	return s[i], true
}

// Last returns the final value and whether it is defined.
func (s Series) Last() (float64, bool) {
	return s.At(len(s) - 1)
}

// Available reports whether any position is defined.
func (s Series) Available() bool {
	for _, v := range s {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func undefined(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
