package types

import "time"

// Signal is a strategy's directional recommendation for the current cycle.
type Signal string

const (
	NoSignal   Signal = "NONE"
	BuySignal  Signal = "BUY"
	SellSignal Signal = "SELL"
)

// Side is the direction of an order or an open position.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the side that flattens a position of side s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// SideFor maps a non-null signal onto an order side.
func SideFor(sig Signal) (Side, bool) {
	switch sig {
	case BuySignal:
		return Buy, true
	case SellSignal:
		return Sell, true
	}
	return "", false
}

// Bar is one OHLCV sample for a fixed timeframe.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Position is the broker-side view of an open trade. Profit is unrealised.
type Position struct {
	Ticket int64
	Symbol string
	Side   Side
	Volume float64
	Price  float64 // open price
	Profit float64
}

// OrderIntent asks the broker to open a position or, when ClosingTicket is
// non-zero, to close the position with that ticket.
type OrderIntent struct {
	Symbol        string
	Side          Side
	Volume        float64
	ClosingTicket int64
	Comment       string
}

// IsClose reports whether the intent targets an existing position.
func (o OrderIntent) IsClose() bool { return o.ClosingTicket != 0 }

// Return codes follow the MetaTrader trade server convention.
const (
	CodeDone           = 10009
	CodeRejected       = 10006
	CodeInvalidVolume  = 10014
	CodeMarketClosed   = 10018
	CodePositionClosed = 10036
)

// OrderResult is the broker's answer to a submitted intent.
type OrderResult struct {
	Success bool
	Code    int
	Message string
	Ticket  int64
}

// Direction is the last non-flat movement of the range filter.
type Direction int

const (
	Flat Direction = 0
	Up   Direction = 1
	Down Direction = -1
)

// RangeFilterState is the range filter accumulator after one bar.
// CondIni latches +1 after a long condition and -1 after a short one.
type RangeFilterState struct {
	Filter     float64
	PrevFilter float64
	Trend      Direction
	CondIni    int
	Long       bool
	Short      bool
}
