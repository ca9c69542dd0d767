package risk

import "math"

// Limits are the per-instrument guard rails of the position controller.
type Limits struct {
	MaxOpen     int     // concurrent positions per symbol
	ProfitClose float64 // unrealised profit at which a position is closed
}

// CanOpen reports whether another position may be opened given the current
// open count.
func (l Limits) CanOpen(open int) bool {
	return open < l.MaxOpen
}

// ShouldClose reports whether a position has reached the profit target.
func (l Limits) ShouldClose(profit float64) bool {
	return profit >= l.ProfitClose
}

// NormalizeVolume floors lot to a multiple of step and returns 0 when the
// result falls below minLot. A non-positive step leaves lot unrounded.
func NormalizeVolume(lot, step, minLot float64) float64 {
	if lot <= 0 {
		return 0
	}
	vol := lot
	if step > 0 {
		// the epsilon keeps 0.3/0.1 from flooring to 2
		vol = math.Floor(lot/step+1e-9) * step
		// strip float noise from the multiplication without leaving the grid
		vol = math.Round(vol*1e8) / 1e8
	}
	if vol < minLot {
		return 0
	}
	return vol
}
