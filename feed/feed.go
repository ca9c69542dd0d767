// Package feed defines the market-data contract and a synthetic source for
// paper runs.
package feed

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/evdnx/rangebot/types"
)

// Source fetches the trailing count bars of symbol on timeframe. A short or
// empty series is a valid answer.
type Source interface {
	Fetch(ctx context.Context, symbol, timeframe string, count int) (types.Series, error)
}

// TimeframeDuration maps MetaTrader-style timeframe names to bar lengths.
func TimeframeDuration(tf string) (time.Duration, bool) {
	switch tf {
	case "M1":
		return time.Minute, true
	case "M5":
		return 5 * time.Minute, true
	case "M15":
		return 15 * time.Minute, true
	case "M30":
		return 30 * time.Minute, true
	case "H1":
		return time.Hour, true
	case "H4":
		return 4 * time.Hour, true
	case "D1":
		return 24 * time.Hour, true
	}
	return 0, false
}

// RandomWalk produces a deterministic geometric random walk per symbol.
// Every Fetch appends one new bar, so repeated polling sees time advance.
type RandomWalk struct {
	mu         sync.Mutex
	rng        *rand.Rand
	start      float64
	volatility float64
	origin     time.Time
	history    map[string]types.Series
	keep       int
}

// NewRandomWalk seeds the generator. start is the first close of every
// symbol, volatility the per-bar stddev as a fraction of price.
func NewRandomWalk(seed int64, start, volatility float64) *RandomWalk {
	return &RandomWalk{
		rng:        rand.New(rand.NewSource(seed)),
		start:      start,
		volatility: volatility,
		origin:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		history:    make(map[string]types.Series),
		keep:       1000,
	}
}

// Fetch implements Source.
func (w *RandomWalk) Fetch(ctx context.Context, symbol, timeframe string, count int) (types.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step, ok := TimeframeDuration(timeframe)
	if !ok {
		return nil, errors.New("feed: unsupported timeframe " + timeframe)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	hist := w.history[symbol]
	if len(hist) == 0 {
		// warm up so the first poll already has a full window
		for i := 0; i < count; i++ {
			hist = append(hist, w.next(hist, step))
		}
	}
	hist = append(hist, w.next(hist, step))
	if len(hist) > w.keep {
		hist = hist[len(hist)-w.keep:]
	}
	w.history[symbol] = hist

	tail := hist.Tail(count)
	out := make(types.Series, len(tail))
	copy(out, tail)
	return out, nil
}

func (w *RandomWalk) next(hist types.Series, step time.Duration) types.Bar {
	open, ts := w.start, w.origin
	if len(hist) > 0 {
		last := hist.Last()
		open, ts = last.Close, last.Time.Add(step)
	}
	ret := w.rng.NormFloat64() * w.volatility
	closePx := open * math.Exp(ret)
	wick := math.Abs(w.rng.NormFloat64()) * w.volatility * open / 2
	return types.Bar{
		Time:   ts,
		Open:   open,
		High:   math.Max(open, closePx) + wick,
		Low:    math.Min(open, closePx) - wick,
		Close:  closePx,
		Volume: float64(100 + w.rng.Intn(900)),
	}
}
