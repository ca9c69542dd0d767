package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/evdnx/rangebot/config"
	"github.com/evdnx/rangebot/controller"
	"github.com/evdnx/rangebot/engine"
	"github.com/evdnx/rangebot/executor"
	"github.com/evdnx/rangebot/feed"
	"github.com/evdnx/rangebot/logger"
	"github.com/evdnx/rangebot/metrics"
	"github.com/evdnx/rangebot/strategy"
	"github.com/evdnx/rangebot/types"
)

// markingFeed revalues paper positions with the last close of every fetch,
// so the profit sweep sees the same prices the strategies do.
type markingFeed struct {
	src    feed.Source
	broker *executor.PaperBroker
}

func (m markingFeed) Fetch(ctx context.Context, symbol, timeframe string, count int) (types.Series, error) {
	bars, err := m.src.Fetch(ctx, symbol, timeframe, count)
	if err == nil && len(bars) > 0 {
		m.broker.Mark(symbol, bars[len(bars)-1].Close)
	}
	return bars, err
}

func main() {
	path := flag.String("config", "", "path to a YAML config file (defaults are used when empty)")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
	}

	log, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("fatal", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	observers := make([]strategy.Strategy, 0, len(cfg.Observe))
	for _, key := range cfg.Observe {
		s, err := strategy.Build(key, cfg.Strategy)
		if err != nil {
			return fmt.Errorf("observer %q: %w", key, err)
		}
		observers = append(observers, s)
	}

	srv := metrics.Serve(cfg.MetricsAddr, log)
	log.Info("metrics_up", logger.String("addr", cfg.MetricsAddr))

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	broker := executor.NewPaperBroker(cfg.Paper.ContractSize)
	src := markingFeed{
		src:    feed.NewRandomWalk(cfg.Paper.Seed, cfg.Paper.StartingPrice, cfg.Paper.Volatility),
		broker: broker,
	}
	ctrl := controller.New(cfg, broker, strategy.NewCombinator(cfg.Strategy), log, observers...)
	eng := engine.New(cfg, src, ctrl, log)

	log.Info("engine_started",
		logger.Strings("symbols", cfg.Symbols),
		logger.String("timeframe", cfg.Timeframe),
		logger.String("interval", cfg.Interval.String()),
	)
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutting_down")

	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	return srv.Shutdown(shutdown)
}
