// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/basinswap/fixmath"
)

// reservoirMaxLimit is the fully regenerated budget: a configured
// fraction of the active pool on the reservoir's side.
func reservoirMaxLimit(poolSide *big.Int, maxFractionBps uint64) *big.Int {
	return fixmath.MulDiv(poolSide, new(big.Int).SetUint64(maxFractionBps), big.NewInt(BPS))
}

// reservoirLimit is the currently available budget. Before the growth
// deadline the budget is the max scaled by regeneration progress; at or
// past the deadline it is whole.
func reservoirLimit(poolSide *big.Int, p Params, growthDeadline, now uint64) *big.Int {
	maxLimit := reservoirMaxLimit(poolSide, p.MaxSwappableReservoirLimitBps)
	if growthDeadline <= now {
		return maxLimit
	}
	window := p.SwappableReservoirGrowthWindowSeconds
	remaining := growthDeadline - now
	if remaining >= window {
		return big.NewInt(0)
	}
	progress := new(big.Int).SetUint64(window - remaining)
	return fixmath.MulDiv(maxLimit, progress, new(big.Int).SetUint64(window))
}

// consumeReservoirBudget returns the growth deadline after spending
// amount of the budget. Consumption costs growth-window time in
// proportion to the fraction spent, rounded up, anchored to now if the
// previous deadline already passed.
func consumeReservoirBudget(amount, poolSide *big.Int, p Params, growthDeadline, now uint64) uint64 {
	window := p.SwappableReservoirGrowthWindowSeconds
	maxLimit := reservoirMaxLimit(poolSide, p.MaxSwappableReservoirLimitBps)

	var delta uint64
	if maxLimit.Sign() == 0 {
		delta = window
	} else {
		d := fixmath.MulDivCeil(new(big.Int).SetUint64(window), amount, maxLimit)
		if !d.IsUint64() {
			delta = window
		} else {
			delta = d.Uint64()
		}
	}

	anchor := growthDeadline
	if now > anchor {
		anchor = now
	}
	return anchor + delta
}
