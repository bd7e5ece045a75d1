// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/basinswap/fixmath"
)

// splitLiquidity decomposes raw balances into {active pool, reservoir,
// basin} against the last committed snapshot.
//
// Balance growth that happened outside swap accounting (rebase,
// donation) is admitted linearly between minBasin and maxBasin seconds
// after the last swap; the unadmitted remainder is the basin. Of the
// admitted totals, the side that is poorer relative to the last price
// ratio is taken whole as its pool; the other pool is recomputed from
// it at the last ratio and the surplus becomes the reservoir. Shrinkage
// is never delayed: the admitted floor tracks the current total scaled
// by the last pool fraction, so negative rebases hit the pool at once.
func splitLiquidity(total0, total1 *big.Int, snap *PairSnapshot, minBasin, maxBasin, now uint64) (LiquidityBalances, error) {
	lb := zeroLiquidityBalances()
	if snap.Pool0Last == nil || snap.Pool0Last.Sign() == 0 || snap.Pool1Last.Sign() == 0 ||
		total0.Sign() == 0 || total1.Sign() == 0 {
		return lb, nil
	}

	var elapsed uint64
	if now > snap.BlockTimestampLast {
		elapsed = now - snap.BlockTimestampLast
	}

	admitted0 := admittedTotal(total0, snap.Pool0Last, snap.Total0Last, minBasin, maxBasin, elapsed)
	admitted1 := admittedTotal(total1, snap.Pool1Last, snap.Total1Last, minBasin, maxBasin, elapsed)

	// The smaller cross product identifies the side poorer relative to
	// the last price ratio; it is held fixed at its admitted total.
	cross0 := new(big.Int).Mul(admitted0, snap.Pool1Last)
	cross1 := new(big.Int).Mul(admitted1, snap.Pool0Last)

	if cross0.Cmp(cross1) <= 0 {
		lb.Pool0 = admitted0
		lb.Pool1 = fixmath.MulDivNearest(admitted0, snap.Pool1Last, snap.Pool0Last)
		if lb.Pool1.Cmp(admitted1) > 0 {
			lb.Pool1 = new(big.Int).Set(admitted1)
		}
		lb.Reservoir1 = new(big.Int).Sub(admitted1, lb.Pool1)
	} else {
		lb.Pool1 = admitted1
		lb.Pool0 = fixmath.MulDivNearest(admitted1, snap.Pool0Last, snap.Pool1Last)
		if lb.Pool0.Cmp(admitted0) > 0 {
			lb.Pool0 = new(big.Int).Set(admitted0)
		}
		lb.Reservoir0 = new(big.Int).Sub(admitted0, lb.Pool0)
	}

	lb.Basin0 = new(big.Int).Sub(total0, admitted0)
	lb.Basin1 = new(big.Int).Sub(total1, admitted1)

	if !fixmath.FitsUint112(lb.Pool0) || !fixmath.FitsUint112(lb.Pool1) {
		return zeroLiquidityBalances(), ErrOverflow
	}
	return lb, nil
}

// admittedTotal interpolates from total * poolLast/totalLast at
// elapsed <= minBasin up to the full total at elapsed >= maxBasin.
// poolLast <= totalLast always holds, so the floor never exceeds total.
func admittedTotal(total, poolLast, totalLast *big.Int, minBasin, maxBasin, elapsed uint64) *big.Int {
	low := fixmath.MulDiv(total, poolLast, totalLast)
	switch {
	case elapsed <= minBasin:
		return low
	case elapsed >= maxBasin:
		return new(big.Int).Set(total)
	}
	span := new(big.Int).SetUint64(maxBasin - minBasin)
	progress := new(big.Int).SetUint64(elapsed - minBasin)
	gain := new(big.Int).Sub(total, low)
	gain = fixmath.MulDiv(gain, progress, span)
	return low.Add(low, gain)
}
