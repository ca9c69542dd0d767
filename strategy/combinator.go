package strategy

import (
	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/types"
)

// Decision is the combined action for one instrument and cycle. Source names
// the strategy (or agreeing pair) that produced it.
type Decision struct {
	Signal types.Signal
	Source string
}

// Valid reports whether the decision carries a trade direction.
func (d Decision) Valid() bool { return d.Signal != types.NoSignal }

// Combinator merges strategies with a fixed precedence: the First/Second
// pair when they agree on a non-null signal, otherwise Fallback, otherwise
// nothing.
type Combinator struct {
	First    Strategy
	Second   Strategy
	Fallback Strategy
}

// NewCombinator wires the default policy: RSI and Bollinger must agree,
// the range filter decides otherwise.
func NewCombinator(cfg config.StrategyConfig) *Combinator {
	return &Combinator{
		First:    NewRSI(cfg.RSIPeriod, cfg.RSIOversold, cfg.RSIOverbought),
		Second:   NewBollinger(cfg.BollingerPeriod, cfg.BollingerMult),
		Fallback: NewRangeFilter(cfg.RangePeriod, cfg.RangeQty),
	}
}

// Decide evaluates the policy on bars.
func (c *Combinator) Decide(bars types.Series) Decision {
	a := c.First.Evaluate(bars)
	b := c.Second.Evaluate(bars)
	if a != types.NoSignal && a == b {
		return Decision{Signal: a, Source: c.First.Key() + "+" + c.Second.Key()}
	}
	if s := c.Fallback.Evaluate(bars); s != types.NoSignal {
		return Decision{Signal: s, Source: c.Fallback.Key()}
	}
	return Decision{Signal: types.NoSignal}
}
