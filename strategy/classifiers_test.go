package strategy

import (
	"testing"

	"github.com/evdnx/rangebot/types"
)

func TestShortHistoryNeverSignals(t *testing.T) {
	keys := []string{KeyCrossover, KeyRSI, KeyMACD, KeyBollinger, KeyBreakout, KeyRangeFilter, KeyHMATrend}
	short := seriesFromCloses(ramp(100, -3, 5)...)
	for _, k := range keys {
		s, err := Build(k, defaults())
		if err != nil {
			t.Fatalf("build %s: %v", k, err)
		}
		if got := s.Evaluate(nil); got != types.NoSignal {
			t.Fatalf("%s on empty series: got %s", k, got)
		}
		if got := s.Evaluate(short); got != types.NoSignal {
			t.Fatalf("%s on 5 bars: got %s", k, got)
		}
	}
}

func TestBuildUnknownKey(t *testing.T) {
	if _, err := Build("martingale", defaults()); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestCrossover(t *testing.T) {
	c := NewCrossover(9, 21)

	up := seriesFromCloses(append(ramp(100, -1, 29), 200)...)
	if got := c.Evaluate(up); got != types.BuySignal {
		t.Fatalf("expected BUY on upward cross, got %s", got)
	}
	down := seriesFromCloses(append(ramp(100, 1, 29), 10)...)
	if got := c.Evaluate(down); got != types.SellSignal {
		t.Fatalf("expected SELL on downward cross, got %s", got)
	}
	trend := seriesFromCloses(ramp(100, 1, 30)...)
	if got := c.Evaluate(trend); got != types.NoSignal {
		t.Fatalf("expected no signal without a cross, got %s", got)
	}
}

func TestRSIThresholds(t *testing.T) {
	r := NewRSI(14, 30, 70)

	declineThenFlat := append(ramp(120, -1, 20), 101, 101, 101, 101, 101)
	if got := r.Evaluate(seriesFromCloses(declineThenFlat...)); got != types.BuySignal {
		t.Fatalf("expected BUY on oversold, got %s", got)
	}
	if got := r.Evaluate(seriesFromCloses(ramp(100, 1, 20)...)); got != types.SellSignal {
		t.Fatalf("expected SELL on overbought, got %s", got)
	}
	alternating := make([]float64, 30)
	for i := range alternating {
		alternating[i] = 100 + float64(i%2)
	}
	if got := r.Evaluate(seriesFromCloses(alternating...)); got != types.NoSignal {
		t.Fatalf("expected no signal at RSI 50, got %s", got)
	}
}

func TestMACDCross(t *testing.T) {
	m := NewMACD(12, 26, 9)

	fall := ramp(200, -1, 40)
	fall = append(fall, fall[len(fall)-1]+50)
	if got := m.Evaluate(seriesFromCloses(fall...)); got != types.BuySignal {
		t.Fatalf("expected BUY when MACD crosses above signal, got %s", got)
	}
	rise := ramp(100, 1, 40)
	rise = append(rise, rise[len(rise)-1]-50)
	if got := m.Evaluate(seriesFromCloses(rise...)); got != types.SellSignal {
		t.Fatalf("expected SELL when MACD crosses below signal, got %s", got)
	}
	if got := m.Evaluate(seriesFromCloses(ramp(100, 1, 41)...)); got != types.NoSignal {
		t.Fatalf("expected no cross on a steady ramp, got %s", got)
	}
}

func TestBollingerBreach(t *testing.T) {
	b := NewBollinger(20, 2)
	base := make([]float64, 24)
	for i := range base {
		base[i] = 100 + float64(i%2)
	}
	if got := b.Evaluate(seriesFromCloses(append(base, 120)...)); got != types.SellSignal {
		t.Fatalf("expected SELL above upper band, got %s", got)
	}
	if got := b.Evaluate(seriesFromCloses(append(base, 80)...)); got != types.BuySignal {
		t.Fatalf("expected BUY below lower band, got %s", got)
	}
	if got := b.Evaluate(seriesFromCloses(base...)); got != types.NoSignal {
		t.Fatalf("expected no signal inside the bands, got %s", got)
	}
}

func TestBreakoutUsesPriorBars(t *testing.T) {
	b := NewBreakout(20)
	flat := ramp(100, 0, 25) // highs 100.5, lows 99.5

	cases := []struct {
		last float64
		want types.Signal
	}{
		{101, types.BuySignal},
		{99, types.SellSignal},
		{100.5, types.NoSignal}, // equal to the prior high is not a breakout
		{100, types.NoSignal},
	}
	for _, c := range cases {
		s := seriesFromCloses(append(append([]float64(nil), flat...), c.last)...)
		if got := b.Evaluate(s); got != c.want {
			t.Fatalf("close %v: got %s want %s", c.last, got, c.want)
		}
	}
}

func TestHMATrendCrossovers(t *testing.T) {
	down := ramp(100, -1, 40)
	up := ramp(60, 1, 40)
	reversalUp := seriesFromCloses(append(down, down[len(down)-1]+4)...)
	reversalDown := seriesFromCloses(append(up, up[len(up)-1]-4)...)

	cases := []struct {
		name   string
		period int
		bars   types.Series
		want   types.Signal
	}{
		{"close jumps above a lagging hull", 12, reversalUp, types.BuySignal},
		{"close drops below a lagging hull", 12, reversalDown, types.SellSignal},
		// the short hull already sits under the prior close, so nothing crosses
		{"short period on the jump", 5, reversalUp, types.NoSignal},
		{"short period on the drop", 5, reversalDown, types.NoSignal},
		{"window shorter than twice the period", 25, reversalUp, types.NoSignal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHMATrend(c.period)
			if got := h.Evaluate(c.bars); got != c.want {
				t.Fatalf("period %d: got %s want %s", c.period, got, c.want)
			}
			if again := h.Evaluate(c.bars); again != c.want {
				t.Fatalf("repeated evaluation diverged: %s", again)
			}
		})
	}
}
