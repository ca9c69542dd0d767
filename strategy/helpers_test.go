package strategy

import (
	"time"

	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/types"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds one-minute bars whose high/low straddle the close
// by half a unit.
func seriesFromCloses(closes ...float64) types.Series {
	out := make(types.Series, len(closes))
	for i, c := range closes {
		out[i] = types.Bar{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

// ramp returns n closes starting at start and moving by step per bar.
func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// fixed always returns the same signal.
type fixed struct {
	key string
	sig types.Signal
}

func (f fixed) Key() string                        { return f.key }
func (f fixed) Evaluate(types.Series) types.Signal { return f.sig }

func defaults() config.StrategyConfig { return config.DefaultStrategy() }
