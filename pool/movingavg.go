// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/big"

// movingAveragePrice blends the last reference price toward the
// instantaneous price in proportion to time elapsed since the last
// commit. Zero elapsed returns the last value unchanged; at or beyond
// the window the old reference has fully decayed.
func movingAveragePrice(instant, last *big.Int, windowSeconds, elapsed uint64) *big.Int {
	switch {
	case elapsed == 0:
		return new(big.Int).Set(last)
	case elapsed >= windowSeconds:
		return new(big.Int).Set(instant)
	}
	w := new(big.Int).SetUint64(windowSeconds)
	old := new(big.Int).SetUint64(windowSeconds - elapsed)
	old.Mul(old, last)
	cur := new(big.Int).SetUint64(elapsed)
	cur.Mul(cur, instant)
	old.Add(old, cur)
	return old.Quo(old, w)
}
