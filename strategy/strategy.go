// Package strategy implements the signal library: stateless classifiers that
// read the two most recent bars of indicator output, the stateful range
// filter, and the combinator that merges them into one decision.
package strategy

import (
	"fmt"
	"strings"

	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/indicator"
	"github.com/evdnx/rangebot/types"
)

// Strategy maps a bar series to a signal. Implementations return
// types.NoSignal when the series is too short, never an error.
type Strategy interface {
	Key() string
	Evaluate(bars types.Series) types.Signal
}

// Keys of the library strategies accepted by Build.
const (
	KeyCrossover   = "crossover"
	KeyRSI         = "rsi"
	KeyMACD        = "macd"
	KeyBollinger   = "bollinger"
	KeyBreakout    = "breakout"
	KeyRangeFilter = "range_filter"
	KeyHMATrend    = "hma_trend"
)

// Build returns the library strategy registered under key.
func Build(key string, cfg config.StrategyConfig) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeyCrossover:
		return NewCrossover(cfg.FastMA, cfg.SlowMA), nil
	case KeyRSI:
		return NewRSI(cfg.RSIPeriod, cfg.RSIOversold, cfg.RSIOverbought), nil
	case KeyMACD:
		return NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal), nil
	case KeyBollinger:
		return NewBollinger(cfg.BollingerPeriod, cfg.BollingerMult), nil
	case KeyBreakout:
		return NewBreakout(cfg.BreakoutPeriod), nil
	case KeyRangeFilter:
		return NewRangeFilter(cfg.RangePeriod, cfg.RangeQty), nil
	case KeyHMATrend:
		return NewHMATrend(cfg.HMAPeriod), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", key)
}

// crossedAbove reports a <= b on the previous bar and a > b on the last.
func crossedAbove(a, b []float64) bool {
	n := len(a)
	if n < 2 || !defined(a[n-2], b[n-2], a[n-1], b[n-1]) {
		return false
	}
	return a[n-2] <= b[n-2] && a[n-1] > b[n-1]
}

// crossedBelow reports a >= b on the previous bar and a < b on the last.
func crossedBelow(a, b []float64) bool {
	n := len(a)
	if n < 2 || !defined(a[n-2], b[n-2], a[n-1], b[n-1]) {
		return false
	}
	return a[n-2] >= b[n-2] && a[n-1] < b[n-1]
}

func defined(vals ...float64) bool {
	for _, v := range vals {
		if !indicator.Defined(v) {
			return false
		}
	}
	return true
}
