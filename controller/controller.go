// Package controller turns combined signals into broker intents while
// enforcing the per-instrument position cap and the profit-close sweep.
package controller

import (
	"context"

	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/executor"
	"github.com/evdnx/rangebot/logger"
	"github.com/evdnx/rangebot/metrics"
	"github.com/evdnx/rangebot/risk"
	"github.com/evdnx/rangebot/strategy"
	"github.com/evdnx/rangebot/types"
)

// Decider produces the combined decision for a series.
type Decider interface {
	Decide(bars types.Series) strategy.Decision
}

// State is the cap state of an instrument for the current cycle.
type State string

const (
	BelowCap State = "below_cap"
	AtCap    State = "at_cap"
)

// Outcome summarises one Step for tests and the orchestrator.
type Outcome struct {
	Symbol   string
	State    State
	Skipped  bool // positions could not be read
	Decision strategy.Decision
	Open     *types.OrderIntent
	Closes   []types.OrderIntent
	Failures int
}

// Controller is stateless across cycles; every Step starts from the broker's
// view of open positions.
type Controller struct {
	broker    executor.Broker
	decider   Decider
	observers []strategy.Strategy
	limits    risk.Limits
	lotSize   float64
	lotStep   float64
	minLot    float64
	log       logger.Logger
}

// New builds a controller from cfg. observers are evaluated for logging only.
func New(cfg config.Config, broker executor.Broker, decider Decider,
	log logger.Logger, observers ...strategy.Strategy) *Controller {

	return &Controller{
		broker:    broker,
		decider:   decider,
		observers: observers,
		limits:    risk.Limits{MaxOpen: cfg.MaxOpenPerSymbol, ProfitClose: cfg.ProfitClose},
		lotSize:   cfg.LotSize,
		lotStep:   cfg.LotStep,
		minLot:    cfg.MinLot,
		log:       log,
	}
}

// Step runs the per-instrument state machine once: optional open, then the
// unconditional profit sweep over the positions read at entry.
func (c *Controller) Step(ctx context.Context, symbol string, bars types.Series) Outcome {
	out := Outcome{Symbol: symbol}

	positions, err := c.broker.OpenPositions(ctx, symbol)
	if err != nil {
		c.log.Warn("positions_unavailable", logger.String("symbol", symbol), logger.Err(err))
		out.Skipped = true
		return out
	}
	metrics.PositionsOpen.WithLabelValues(symbol).Set(float64(len(positions)))

	c.observe(symbol, bars)

	if c.limits.CanOpen(len(positions)) {
		out.State = BelowCap
		c.tryOpen(ctx, symbol, bars, &out)
	} else {
		out.State = AtCap
		c.log.Info("open_skipped_at_cap",
			logger.String("symbol", symbol),
			logger.Int("open", len(positions)),
			logger.Int("cap", c.limits.MaxOpen),
		)
	}

	c.sweep(ctx, positions, &out)
	return out
}

// tryOpen issues at most one open intent; the first valid decision ends the
// evaluation for this instrument.
func (c *Controller) tryOpen(ctx context.Context, symbol string, bars types.Series, out *Outcome) {
	d := c.decider.Decide(bars)
	out.Decision = d
	if !d.Valid() {
		return
	}
	side, _ := types.SideFor(d.Signal)

	c.log.Info("signal_emitted",
		logger.String("symbol", symbol),
		logger.String("strategy", d.Source),
		logger.String("side", string(side)),
	)
	metrics.SignalsTotal.WithLabelValues(symbol, d.Source, string(side)).Inc()

	vol := risk.NormalizeVolume(c.lotSize, c.lotStep, c.minLot)
	if vol <= 0 {
		c.log.Warn("volume_below_minimum",
			logger.String("symbol", symbol),
			logger.Float64("lot", c.lotSize),
			logger.Float64("min_lot", c.minLot),
		)
		return
	}

	intent := types.OrderIntent{Symbol: symbol, Side: side, Volume: vol, Comment: d.Source}
	out.Open = &intent
	res := c.broker.Submit(ctx, intent)
	metrics.OrdersTotal.WithLabelValues(symbol, string(side), metrics.Result(res.Success)).Inc()
	if !res.Success {
		out.Failures++
		c.log.Error("order_failed",
			logger.String("symbol", symbol),
			logger.String("side", string(side)),
			logger.Float64("volume", vol),
			logger.Int("code", res.Code),
			logger.String("message", res.Message),
		)
		return
	}
	c.log.Info("order_submitted",
		logger.String("symbol", symbol),
		logger.String("side", string(side)),
		logger.Float64("volume", vol),
		logger.Int64("ticket", res.Ticket),
		logger.String("ctx", d.Source),
	)
}

// sweep closes every position at or above the profit threshold.
func (c *Controller) sweep(ctx context.Context, positions []types.Position, out *Outcome) {
	for _, p := range positions {
		if !c.limits.ShouldClose(p.Profit) {
			continue
		}
		intent := types.OrderIntent{
			Symbol:        p.Symbol,
			Side:          p.Side.Opposite(),
			Volume:        p.Volume,
			ClosingTicket: p.Ticket,
			Comment:       "profit_close",
		}
		out.Closes = append(out.Closes, intent)
		res := c.broker.Submit(ctx, intent)
		metrics.PositionsClosed.WithLabelValues(p.Symbol, metrics.Result(res.Success)).Inc()
		if !res.Success {
			out.Failures++
			c.log.Error("position_close_failed",
				logger.String("symbol", p.Symbol),
				logger.Int64("ticket", p.Ticket),
				logger.Float64("profit", p.Profit),
				logger.Int("code", res.Code),
				logger.String("message", res.Message),
			)
			continue
		}
		c.log.Info("position_closed",
			logger.String("symbol", p.Symbol),
			logger.Int64("ticket", p.Ticket),
			logger.Float64("profit", p.Profit),
		)
	}
}

func (c *Controller) observe(symbol string, bars types.Series) {
	for _, s := range c.observers {
		sig := s.Evaluate(bars)
		if sig == types.NoSignal {
			continue
		}
		c.log.Info("signal_observed",
			logger.String("symbol", symbol),
			logger.String("strategy", s.Key()),
			logger.String("side", string(sig)),
		)
	}
}
