package strategy

import (
	"github.com/evdnx/goti"
	"github.com/evdnx/rangebot/types"
)

// HMATrend signals closes crossing the goti Hull moving average. A fresh
// indicator is fed the whole window on every call, so the strategy keeps no
// state between cycles.
type HMATrend struct {
	period  int
	minBars int
}

// NewHMATrend requires twice period bars of history before evaluating.
func NewHMATrend(period int) *HMATrend {
	return &HMATrend{period: period, minBars: 2 * period}
}

func (h *HMATrend) Key() string { return KeyHMATrend }

func (h *HMATrend) Evaluate(bars types.Series) types.Signal {
	if len(bars) < h.minBars || len(bars) < 2 {
		return types.NoSignal
	}
	hma, err := goti.NewHullMovingAverageWithParams(h.period)
	if err != nil {
		return types.NoSignal
	}
	for _, b := range bars {
		if err := hma.Add(b.Close); err != nil {
			return types.NoSignal
		}
	}
	if ok, err := hma.IsBullishCrossover(); err == nil && ok {
		return types.BuySignal
	}
	if ok, err := hma.IsBearishCrossover(); err == nil && ok {
		return types.SellSignal
	}
	return types.NoSignal
}
