package testutils

import (
	"context"
	"sync"

	"github.com/evdnx/rangebot/types"
)

// MockBroker implements executor.Broker in memory. Positions are seeded by
// the test; submitted intents are captured and rejected per Fail.
type MockBroker struct {
	mu        sync.RWMutex
	positions map[string][]types.Position
	orders    []types.OrderIntent
	// PositionsErr, when set, is returned by OpenPositions for that symbol.
	PositionsErr map[string]error
	// Fail makes every Submit for the listed symbols return a rejection.
	Fail map[string]bool
}

// NewMockBroker creates an empty broker.
func NewMockBroker() *MockBroker {
	return &MockBroker{
		positions:    make(map[string][]types.Position),
		PositionsErr: make(map[string]error),
		Fail:         make(map[string]bool),
	}
}

// SetPositions replaces the open positions of symbol.
func (m *MockBroker) SetPositions(symbol string, pos ...types.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[symbol] = append([]types.Position(nil), pos...)
}

// OpenPositions returns a copy of the seeded positions.
func (m *MockBroker) OpenPositions(_ context.Context, symbol string) ([]types.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.PositionsErr[symbol]; err != nil {
		return nil, err
	}
	return append([]types.Position(nil), m.positions[symbol]...), nil
}

// Submit records the intent. It does not mutate the seeded positions.
func (m *MockBroker) Submit(_ context.Context, o types.OrderIntent) types.OrderResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	if m.Fail[o.Symbol] {
		return types.OrderResult{Code: types.CodeRejected, Message: "rejected by mock"}
	}
	return types.OrderResult{Success: true, Code: types.CodeDone, Ticket: int64(len(m.orders))}
}

// Orders returns a copy of all submitted intents.
func (m *MockBroker) Orders() []types.OrderIntent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.OrderIntent, len(m.orders))
	copy(out, m.orders)
	return out
}

// MockFeed serves fixed series per symbol and counts fetches.
type MockFeed struct {
	mu      sync.Mutex
	Series  map[string]types.Series
	Errs    map[string]error
	fetches map[string]int
}

// NewMockFeed creates a feed with no symbols.
func NewMockFeed() *MockFeed {
	return &MockFeed{
		Series:  make(map[string]types.Series),
		Errs:    make(map[string]error),
		fetches: make(map[string]int),
	}
}

// Fetch returns the trailing count bars of the seeded series.
func (f *MockFeed) Fetch(_ context.Context, symbol, _ string, count int) (types.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[symbol]++
	if err := f.Errs[symbol]; err != nil {
		return nil, err
	}
	return f.Series[symbol].Tail(count), nil
}

// Fetches reports how often symbol was requested.
func (f *MockFeed) Fetches(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[symbol]
}
