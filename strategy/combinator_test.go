package strategy

import (
	"testing"

	"github.com/evdnx/rangebot/types"
)

func TestCombinatorPrecedence(t *testing.T) {
	cases := []struct {
		name       string
		rsi, boll  types.Signal
		fallback   types.Signal
		wantSignal types.Signal
		wantSource string
	}{
		{"pair agrees on sell over fallback buy", types.SellSignal, types.SellSignal, types.BuySignal, types.SellSignal, "rsi+bollinger"},
		{"pair agrees on buy", types.BuySignal, types.BuySignal, types.NoSignal, types.BuySignal, "rsi+bollinger"},
		{"single vote falls back", types.BuySignal, types.NoSignal, types.SellSignal, types.SellSignal, KeyRangeFilter},
		{"disagreement falls back", types.BuySignal, types.SellSignal, types.BuySignal, types.BuySignal, KeyRangeFilter},
		{"nothing anywhere", types.NoSignal, types.NoSignal, types.NoSignal, types.NoSignal, ""},
		{"disagreement and silent fallback", types.SellSignal, types.BuySignal, types.NoSignal, types.NoSignal, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			comb := &Combinator{
				First:    fixed{KeyRSI, c.rsi},
				Second:   fixed{KeyBollinger, c.boll},
				Fallback: fixed{KeyRangeFilter, c.fallback},
			}
			d := comb.Decide(nil)
			if d.Signal != c.wantSignal || d.Source != c.wantSource {
				t.Fatalf("got %+v, want %s from %q", d, c.wantSignal, c.wantSource)
			}
			if d.Valid() != (c.wantSignal != types.NoSignal) {
				t.Fatalf("Valid() inconsistent with signal %s", d.Signal)
			}
		})
	}
}

func TestDefaultCombinatorWiring(t *testing.T) {
	c := NewCombinator(defaults())
	if c.First.Key() != KeyRSI || c.Second.Key() != KeyBollinger || c.Fallback.Key() != KeyRangeFilter {
		t.Fatalf("unexpected default wiring: %s/%s/%s", c.First.Key(), c.Second.Key(), c.Fallback.Key())
	}
	if d := c.Decide(seriesFromCloses(1, 2, 3)); d.Valid() {
		t.Fatalf("short series must not produce a decision, got %+v", d)
	}
}
