package strategy

import (
	"github.com/evdnx/rangebot/indicator"
	"github.com/evdnx/rangebot/types"
)

// RangeFilter trades flips of a volatility-adaptive hysteresis filter.
//
// The filter level only moves when price clears it by more than the smoothed
// average range; a signal is emitted on the bar where the long/short
// condition latch changes side, so a trend that keeps one side of the filter
// produces a single signal rather than one per cycle.
type RangeFilter struct {
	period int
	qty    float64
}

// NewRangeFilter builds the strategy with the sampling period and the range
// multiplier.
func NewRangeFilter(period int, qty float64) *RangeFilter {
	return &RangeFilter{period: period, qty: qty}
}

func (r *RangeFilter) Key() string { return KeyRangeFilter }

// Evaluate scans the whole window and inspects the last two states.
func (r *RangeFilter) Evaluate(bars types.Series) types.Signal {
	if len(bars) < r.period || len(bars) < 2 {
		return types.NoSignal
	}
	states := ScanRangeFilter(bars.Closes(), r.period, r.qty)
	last, prev := states[len(states)-1], states[len(states)-2]
	switch {
	case last.Long && prev.CondIni == -1:
		return types.BuySignal
	case last.Short && prev.CondIni == 1:
		return types.SellSignal
	}
	return types.NoSignal
}

// State returns the filter state after the last bar, or false when the
// series is empty.
func (r *RangeFilter) State(bars types.Series) (types.RangeFilterState, bool) {
	if len(bars) == 0 {
		return types.RangeFilterState{}, false
	}
	states := ScanRangeFilter(bars.Closes(), r.period, r.qty)
	return states[len(states)-1], true
}

// SmoothRange is EMA(EMA(|dclose|, period), 2*period-1) * qty.
func SmoothRange(closes []float64, period int, qty float64) []float64 {
	avg := indicator.EMA(indicator.AbsDiff(closes), period)
	out := indicator.EMA(avg, 2*period-1)
	for i := range out {
		out[i] *= qty
	}
	return out
}

// ScanRangeFilter folds the recurrence over closes and returns one state per
// bar. The accumulator (filter level, trend, latch) is threaded explicitly;
// nothing outlives the call.
func ScanRangeFilter(closes []float64, period int, qty float64) []types.RangeFilterState {
	n := len(closes)
	if n == 0 {
		return nil
	}
	rng := SmoothRange(closes, period, qty)
	states := make([]types.RangeFilterState, n)
	acc := types.RangeFilterState{Filter: closes[0], PrevFilter: closes[0]}
	states[0] = acc
	for i := 1; i < n; i++ {
		acc = stepRangeFilter(acc, closes[i], closes[i-1], rng[i])
		states[i] = acc
	}
	return states
}

func stepRangeFilter(acc types.RangeFilterState, c, prevClose, r float64) types.RangeFilterState {
	prev := acc.Filter
	filt := prev
	switch {
	case c-r > prev:
		filt = c - r
	case c+r < prev:
		filt = c + r
	}

	trend := acc.Trend
	switch {
	case filt > prev:
		trend = types.Up
	case filt < prev:
		trend = types.Down
	}

	// close must have moved against the previous bar in either direction
	moved := c != prevClose
	long := c > filt && moved && trend == types.Up
	short := c < filt && moved && trend == types.Down

	cond := acc.CondIni
	switch {
	case long:
		cond = 1
	case short:
		cond = -1
	}
	return types.RangeFilterState{
		Filter:     filt,
		PrevFilter: prev,
		Trend:      trend,
		CondIni:    cond,
		Long:       long,
		Short:      short,
	}
}
