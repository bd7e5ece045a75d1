// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/big"

// timelockDuration maps the deviation of the post-swap price from the
// moving average onto a lock duration in [min, max]. The duration
// scales linearly with deviation relative to maxVolatilityBps of the
// reference price; a zero reference or zero volatility bound yields the
// maximum out of caution.
func timelockDuration(newPrice0, refPrice0 *big.Int, p Params) uint64 {
	dev := new(big.Int).Sub(newPrice0, refPrice0)
	if dev.Sign() < 0 {
		dev.Neg(dev)
	}
	if dev.Sign() == 0 {
		return p.MinTimelockSeconds
	}
	den := new(big.Int).Mul(refPrice0, new(big.Int).SetUint64(p.MaxVolatilityBps))
	if den.Sign() == 0 {
		return p.MaxTimelockSeconds
	}
	span := new(big.Int).SetUint64(p.MaxTimelockSeconds - p.MinTimelockSeconds)
	dur := dev.Mul(dev, big.NewInt(BPS))
	dur.Mul(dur, span)
	dur.Quo(dur, den)
	dur.Add(dur, new(big.Int).SetUint64(p.MinTimelockSeconds))
	if !dur.IsUint64() || dur.Uint64() > p.MaxTimelockSeconds {
		return p.MaxTimelockSeconds
	}
	return dur.Uint64()
}

// extendDeadline moves a deadline forward to now+duration, never
// backward.
func extendDeadline(existing, now, duration uint64) uint64 {
	candidate := now + duration
	if candidate > existing {
		return candidate
	}
	return existing
}
