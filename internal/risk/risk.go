// Package risk holds pre-trade guard-rails.
package risk

import "math"

// Limits caps how much a single trade may spend, in whole SOL units.
type Limits struct {
	MaxAmountPerTrade float64 // 0 disables the cap
}

func (l Limits) Allow(amount float64) bool {
	if math.IsNaN(amount) || amount <= 0 {
		return false
	}
	if l.MaxAmountPerTrade <= 0 {
		return true
	}
	return amount <= l.MaxAmountPerTrade
}
