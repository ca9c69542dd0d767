package strategy

import (
	"github.com/evdnx/rangebot/indicator"
	"github.com/evdnx/rangebot/types"
)

// Crossover signals when the fast SMA crosses the slow SMA.
type Crossover struct {
	fast, slow int
}

// NewCrossover builds a fast/slow SMA crossover classifier.
func NewCrossover(fast, slow int) *Crossover { return &Crossover{fast: fast, slow: slow} }

func (c *Crossover) Key() string { return KeyCrossover }

// Evaluate needs slow+1 bars so both SMAs exist on the previous bar.
func (c *Crossover) Evaluate(bars types.Series) types.Signal {
	if len(bars) < c.slow+1 {
		return types.NoSignal
	}
	closes := bars.Closes()
	fast := indicator.SMA(closes, c.fast)
	slow := indicator.SMA(closes, c.slow)
	switch {
	case crossedAbove(fast, slow):
		return types.BuySignal
	case crossedBelow(fast, slow):
		return types.SellSignal
	}
	return types.NoSignal
}

// RSI signals oversold (buy) and overbought (sell) readings on the last bar.
type RSI struct {
	period               int
	oversold, overbought float64
}

// NewRSI builds an RSI threshold classifier.
func NewRSI(period int, oversold, overbought float64) *RSI {
	return &RSI{period: period, oversold: oversold, overbought: overbought}
}

func (r *RSI) Key() string { return KeyRSI }

func (r *RSI) Evaluate(bars types.Series) types.Signal {
	if len(bars) < r.period {
		return types.NoSignal
	}
	rsi := indicator.RSI(bars.Closes(), r.period)
	last := rsi[len(rsi)-1]
	switch {
	case !indicator.Defined(last):
		return types.NoSignal
	case last < r.oversold:
		return types.BuySignal
	case last > r.overbought:
		return types.SellSignal
	}
	return types.NoSignal
}

// MACD signals when the MACD line crosses its signal line.
type MACD struct {
	fast, slow, signal int
}

// NewMACD builds a MACD/signal crossover classifier.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{fast: fast, slow: slow, signal: signal}
}

func (m *MACD) Key() string { return KeyMACD }

// Evaluate waits for the slow EMA warm-up before trusting the lines.
func (m *MACD) Evaluate(bars types.Series) types.Signal {
	if len(bars) < m.slow {
		return types.NoSignal
	}
	line, sig := indicator.MACD(bars.Closes(), m.fast, m.slow, m.signal)
	switch {
	case crossedAbove(line, sig):
		return types.BuySignal
	case crossedBelow(line, sig):
		return types.SellSignal
	}
	return types.NoSignal
}

// Bollinger signals a close outside the bands: below lower buys, above
// upper sells.
type Bollinger struct {
	period int
	mult   float64
}

// NewBollinger builds a Bollinger band breakout classifier.
func NewBollinger(period int, mult float64) *Bollinger {
	return &Bollinger{period: period, mult: mult}
}

func (b *Bollinger) Key() string { return KeyBollinger }

func (b *Bollinger) Evaluate(bars types.Series) types.Signal {
	if len(bars) < b.period {
		return types.NoSignal
	}
	closes := bars.Closes()
	bands := indicator.Bollinger(closes, b.period, b.mult)
	i := len(closes) - 1
	if !defined(bands.Upper[i], bands.Lower[i]) {
		return types.NoSignal
	}
	switch {
	case closes[i] < bands.Lower[i]:
		return types.BuySignal
	case closes[i] > bands.Upper[i]:
		return types.SellSignal
	}
	return types.NoSignal
}

// Breakout compares the last close with the channel of the preceding
// period bars; the current bar is excluded from the channel.
type Breakout struct {
	period int
}

// NewBreakout builds a channel breakout classifier.
func NewBreakout(period int) *Breakout { return &Breakout{period: period} }

func (b *Breakout) Key() string { return KeyBreakout }

func (b *Breakout) Evaluate(bars types.Series) types.Signal {
	if len(bars) < b.period+1 {
		return types.NoSignal
	}
	prior := bars[:len(bars)-1]
	hi := indicator.RollingMax(prior.Highs(), b.period)
	lo := indicator.RollingMin(prior.Lows(), b.period)
	j := len(prior) - 1
	c := bars.Last().Close
	switch {
	case c > hi[j]:
		return types.BuySignal
	case c < lo[j]:
		return types.SellSignal
	}
	return types.NoSignal
}
