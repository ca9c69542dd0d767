package strategy

import (
	"testing"

	"github.com/evdnx/rangebot/types"
)

// countSignals evaluates every trailing prefix of closes (from minLen bars)
// the way repeated polling would.
func countSignals(s Strategy, closes []float64, minLen int) (buys, sells int) {
	full := seriesFromCloses(closes...)
	for n := minLen; n <= len(full); n++ {
		switch s.Evaluate(full[:n]) {
		case types.BuySignal:
			buys++
		case types.SellSignal:
			sells++
		}
	}
	return buys, sells
}

func TestRangeFilterMonotonicUptrendLatches(t *testing.T) {
	rf := NewRangeFilter(20, 3.5)
	closes := ramp(100, 1, 60)

	buys, sells := countSignals(rf, closes, 20)
	if buys > 1 || sells != 0 {
		t.Fatalf("expected at most one BUY and no SELL, got %d/%d", buys, sells)
	}

	window := seriesFromCloses(closes...)
	st, ok := rf.State(window)
	if !ok || st.CondIni != 1 || st.Trend != types.Up {
		t.Fatalf("expected latch +1 and upward trend, got %+v", st)
	}
	// an unchanged window evaluated every cycle never repeats a buy
	for i := 0; i < 5; i++ {
		if got := rf.Evaluate(window); got == types.BuySignal {
			t.Fatalf("duplicate BUY on stable uptrend at evaluation %d", i)
		}
	}
}

func TestRangeFilterFiresOnceOnFlip(t *testing.T) {
	rf := NewRangeFilter(20, 3.5)
	down := ramp(200, -1, 30)
	up := ramp(down[len(down)-1]+1, 1, 30)
	closes := append(down, up...)

	buys, sells := countSignals(rf, closes, 20)
	if buys != 1 || sells != 0 {
		t.Fatalf("expected exactly one BUY on the flip, got %d buys / %d sells", buys, sells)
	}

	// and the mirror image
	up2 := ramp(100, 1, 30)
	down2 := ramp(up2[len(up2)-1]-1, -1, 30)
	buys, sells = countSignals(rf, append(up2, down2...), 20)
	if buys != 0 || sells != 1 {
		t.Fatalf("expected exactly one SELL on the flip, got %d buys / %d sells", buys, sells)
	}
}

func TestScanRangeFilterHysteresis(t *testing.T) {
	closes := []float64{10, 11, 10, 11, 10, 30}
	states := ScanRangeFilter(closes, 3, 1)
	if len(states) != len(closes) {
		t.Fatalf("scan must align with input, got %d states", len(states))
	}
	if states[0].Filter != 10 {
		t.Fatalf("filter must start at the first close, got %v", states[0].Filter)
	}
	rng := SmoothRange(closes, 3, 1)
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1].Filter, states[i].Filter
		if cur != prev {
			// a move lands exactly one smoothed range away from the close
			if cur != closes[i]-rng[i] && cur != closes[i]+rng[i] {
				t.Fatalf("bar %d: filter %v not on the band edge", i, cur)
			}
		}
		if states[i].PrevFilter != prev {
			t.Fatalf("bar %d: prev filter %v, want %v", i, states[i].PrevFilter, prev)
		}
	}
	last := states[len(states)-1]
	if last.Filter <= states[len(states)-2].Filter || last.Trend != types.Up || !last.Long {
		t.Fatalf("jump should lift the filter into a long condition, got %+v", last)
	}
}

func TestRangeFilterFlatSeriesHolds(t *testing.T) {
	rf := NewRangeFilter(20, 3.5)
	s := seriesFromCloses(ramp(50, 0, 40)...)
	if got := rf.Evaluate(s); got != types.NoSignal {
		t.Fatalf("flat series must not signal, got %s", got)
	}
	st, _ := rf.State(s)
	if st.Filter != 50 || st.Trend != types.Flat || st.CondIni != 0 {
		t.Fatalf("flat series must leave the filter untouched, got %+v", st)
	}
}
