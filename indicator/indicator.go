// Package indicator holds the pure series transforms used by the strategies.
// Every function returns a slice aligned with its input; positions whose
// lookback has not filled yet hold NaN.
package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Defined reports whether v carries a value.
func Defined(v float64) bool { return !math.IsNaN(v) }

// SMA is the trailing arithmetic mean over window values. Positions before
// the window fills are NaN. Inputs are expected to be NaN-free.
func SMA(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nanSlice(len(values))
	}
	return mask(talib.Sma(values, window), window)
}

// mask overwrites the warm-up prefix talib fills with zeros.
func mask(out []float64, window int) []float64 {
	for i := 0; i < window-1 && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// EMA smooths values with alpha = 2/(span+1), seeded with the first defined
// value and without bias adjustment. Leading NaNs are kept; a NaN after the
// seed carries the previous average forward.
func EMA(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span <= 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	prev := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
			continue
		case math.IsNaN(prev):
			prev = v
		default:
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// StdDev is the trailing sample standard deviation (n-1 denominator).
// talib reports the population deviation, rescaled here by sqrt(n/(n-1)).
func StdDev(values []float64, window int) []float64 {
	if window < 2 || len(values) < window {
		return nanSlice(len(values))
	}
	out := talib.StdDev(values, window, 1)
	scale := math.Sqrt(float64(window) / float64(window-1))
	for i := range out {
		out[i] *= scale
	}
	return mask(out, window)
}

// AbsDiff returns |v[i] - v[i-1]|; the first element is NaN.
func AbsDiff(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = math.Abs(values[i] - values[i-1])
	}
	return out
}

// RSI computes the relative strength index from rolling means of gains and
// losses. The first delta counts as zero movement. A zero average loss
// saturates at 100.
func RSI(closes []float64, window int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else if d < 0 {
			losses[i] = -d
		}
	}
	avgGain := SMA(gains, window)
	avgLoss := SMA(losses, window)
	out := nanSlice(n)
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			out[i] = 100
			continue
		}
		out[i] = 100 - 100/(1+g/l)
	}
	return out
}

// MACD returns EMA(fast) - EMA(slow) and its EMA(signal).
func MACD(closes []float64, fast, slow, signal int) (line, sig []float64) {
	f := EMA(closes, fast)
	s := EMA(closes, slow)
	line = make([]float64, len(closes))
	for i := range line {
		line[i] = f[i] - s[i]
	}
	return line, EMA(line, signal)
}

// Bands is an aligned Bollinger envelope.
type Bands struct {
	Upper, Middle, Lower []float64
}

// Bollinger returns SMA(window) +/- k sample standard deviations.
func Bollinger(closes []float64, window int, k float64) Bands {
	mid := SMA(closes, window)
	sd := StdDev(closes, window)
	b := Bands{
		Upper:  nanSlice(len(closes)),
		Middle: mid,
		Lower:  nanSlice(len(closes)),
	}
	for i := range closes {
		if math.IsNaN(mid[i]) || math.IsNaN(sd[i]) {
			continue
		}
		b.Upper[i] = mid[i] + k*sd[i]
		b.Lower[i] = mid[i] - k*sd[i]
	}
	return b
}

// RollingMax is the trailing maximum over window values.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, talib.Max)
}

// RollingMin is the trailing minimum over window values.
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, talib.Min)
}

func rolling(values []float64, window int, fn func([]float64, int) []float64) []float64 {
	switch {
	case window <= 0 || len(values) < window:
		return nanSlice(len(values))
	case window == 1:
		// talib rejects a period below 2
		return append([]float64(nil), values...)
	}
	return mask(fn(values, window), window)
}
