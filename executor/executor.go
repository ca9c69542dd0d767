package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/evdnx/rangebot/types"
)

// Broker is the execution collaborator. It owns positions; callers only read
// them and submit intents.
type Broker interface {
	OpenPositions(ctx context.Context, symbol string) ([]types.Position, error)
	Submit(ctx context.Context, o types.OrderIntent) types.OrderResult
}

// PaperBroker fills every valid intent at the last marked price, no
// slippage. Unrealised profit is (mark - open) * volume * contract size,
// sign-flipped for shorts.
type PaperBroker struct {
	mu           sync.RWMutex
	contractSize float64
	nextTicket   int64
	marks        map[string]float64
	positions    map[int64]*types.Position
}

// NewPaperBroker creates an empty broker. A non-positive contractSize
// defaults to 1.
func NewPaperBroker(contractSize float64) *PaperBroker {
	if contractSize <= 0 {
		contractSize = 1
	}
	return &PaperBroker{
		contractSize: contractSize,
		nextTicket:   1,
		marks:        make(map[string]float64),
		positions:    make(map[int64]*types.Position),
	}
}

// Mark sets the current price for symbol and revalues its positions.
func (p *PaperBroker) Mark(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
	for _, pos := range p.positions {
		if pos.Symbol == symbol {
			pos.Profit = p.profit(pos, price)
		}
	}
}

func (p *PaperBroker) profit(pos *types.Position, mark float64) float64 {
	diff := mark - pos.Price
	if pos.Side == types.Sell {
		diff = -diff
	}
	return diff * pos.Volume * p.contractSize
}

// OpenPositions returns copies of the positions on symbol ordered by ticket.
func (p *PaperBroker) OpenPositions(_ context.Context, symbol string) ([]types.Position, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.Position, 0)
	for _, pos := range p.positions {
		if pos.Symbol == symbol {
			out = append(out, *pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticket < out[j].Ticket })
	return out, nil
}

// Submit opens or closes a position.
func (p *PaperBroker) Submit(_ context.Context, o types.OrderIntent) types.OrderResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o.IsClose() {
		pos, ok := p.positions[o.ClosingTicket]
		if !ok || pos.Symbol != o.Symbol {
			return types.OrderResult{Code: types.CodePositionClosed,
				Message: fmt.Sprintf("position %d not found", o.ClosingTicket)}
		}
		delete(p.positions, o.ClosingTicket)
		return types.OrderResult{Success: true, Code: types.CodeDone, Ticket: pos.Ticket}
	}

	if o.Volume <= 0 {
		return types.OrderResult{Code: types.CodeInvalidVolume, Message: "invalid volume"}
	}
	mark, ok := p.marks[o.Symbol]
	if !ok {
		return types.OrderResult{Code: types.CodeMarketClosed, Message: "no price for " + o.Symbol}
	}
	pos := &types.Position{
		Ticket: p.nextTicket,
		Symbol: o.Symbol,
		Side:   o.Side,
		Volume: o.Volume,
		Price:  mark,
	}
	p.nextTicket++
	p.positions[pos.Ticket] = pos
	return types.OrderResult{Success: true, Code: types.CodeDone, Ticket: pos.Ticket}
}
