package types

// Series is an ordered run of bars for one instrument, most recent last.
// Strategies treat it as read-only.
type Series []Bar

// Len returns the number of bars.
func (s Series) Len() int { return len(s) }

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Last returns the most recent bar. The series must not be empty.
func (s Series) Last() Bar { return s[len(s)-1] }

// Tail returns the trailing n bars (all of them if n exceeds the length).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Ordered reports whether timestamps are strictly increasing.
func (s Series) Ordered() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return false
		}
	}
	return true
}
