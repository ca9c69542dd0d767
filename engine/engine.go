// Package engine drives the polling loop: one sequential pass over the
// instrument list per cycle, separated by a fixed pause.
package engine

import (
	"context"
	"time"

	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/controller"
	"github.com/evdnx/rangebot/feed"
	"github.com/evdnx/rangebot/logger"
	"github.com/evdnx/rangebot/metrics"
	"github.com/evdnx/rangebot/types"
)

// Stepper is the per-instrument evaluation the engine delegates to.
type Stepper interface {
	Step(ctx context.Context, symbol string, bars types.Series) controller.Outcome
}

// CycleReport lists per-instrument outcomes of one pass, in config order.
type CycleReport struct {
	Cycle    int64
	Outcomes []controller.Outcome
	Skipped  []string // symbols without usable market data
}

// Engine owns no trading state; everything is re-read each cycle.
type Engine struct {
	cfg   config.Config
	src   feed.Source
	step  Stepper
	log   logger.Logger
	cycle int64
	// minBars is the window below which an instrument is skipped, sweep
	// included; at least one bar.
	minBars int
	// wait blocks for d or until ctx is done; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// New wires an engine. cfg is copied and never mutated.
func New(cfg config.Config, src feed.Source, step Stepper, log logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		src:     src,
		step:    step,
		log:     log,
		minBars: max(1, cfg.Strategy.DecisionBars()),
		wait:    sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunCycle evaluates every instrument once, in order. It always runs to
// completion; ctx is only handed down to the collaborators.
func (e *Engine) RunCycle(ctx context.Context) CycleReport {
	e.cycle++
	rep := CycleReport{Cycle: e.cycle}
	e.log.Info("cycle_start",
		logger.Int64("cycle", e.cycle),
		logger.Strings("symbols", e.cfg.Symbols),
	)
	for _, sym := range e.cfg.Symbols {
		bars, err := e.src.Fetch(ctx, sym, e.cfg.Timeframe, e.cfg.BarCount)
		if err != nil || len(bars) < e.minBars {
			fields := []logger.Field{
				logger.String("symbol", sym),
				logger.Int("bars", len(bars)),
				logger.Int("need", e.minBars),
			}
			if err != nil {
				fields = append(fields, logger.Err(err))
			}
			e.log.Warn("data_unavailable", fields...)
			rep.Skipped = append(rep.Skipped, sym)
			continue
		}
		rep.Outcomes = append(rep.Outcomes, e.step.Step(ctx, sym, bars))
	}
	metrics.CyclesTotal.Inc()
	e.log.Info("cycle_done",
		logger.Int64("cycle", e.cycle),
		logger.Int("evaluated", len(rep.Outcomes)),
		logger.Int("skipped", len(rep.Skipped)),
	)
	return rep
}

// Run loops until ctx is cancelled. The pause is measured from the end of
// one pass to the start of the next, so slow collaborators stretch the
// period instead of overlapping cycles.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		e.RunCycle(ctx)
		if err := e.wait(ctx, e.cfg.Interval); err != nil {
			return nil
		}
	}
}
