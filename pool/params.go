// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "fmt"

// Params are the pair's operating parameters. They are set at creation
// from the registry's per-category defaults and mutated only through
// the admin setters, each of which re-runs Verify.
type Params struct {
	// PriceFloorBps selects the curve shape: 0 is plain constant
	// product, 1..9999 bounds the price ratio to [floor, 1/floor].
	PriceFloorBps uint64

	// FeeBps is the trading fee retained by the pool.
	FeeBps uint64

	// ProtocolFeeMbps is the slice of fee growth minted to the fee
	// recipient, in milli-bps of the invariant growth. Bounded by
	// FeeBps * 1000.
	ProtocolFeeMbps uint64

	// MovingAverageWindowSeconds is the decay window of the reference
	// price.
	MovingAverageWindowSeconds uint64

	// MaxVolatilityBps scales price deviation into timelock duration.
	MaxVolatilityBps uint64

	// MinTimelockSeconds and MaxTimelockSeconds bound the single-sided
	// timelock.
	MinTimelockSeconds uint64
	MaxTimelockSeconds uint64

	// MaxSwappableReservoirLimitBps caps the reservoir budget as a
	// fraction of the active pool side.
	MaxSwappableReservoirLimitBps uint64

	// SwappableReservoirGrowthWindowSeconds is the time over which a
	// fully spent reservoir budget regenerates.
	SwappableReservoirGrowthWindowSeconds uint64

	// MinBasinSeconds and MaxBasinSeconds bound the admission window
	// for balance growth that happened outside swap accounting.
	MinBasinSeconds uint64
	MaxBasinSeconds uint64
}

// Verify checks every bound the parameters must satisfy. It is called
// at construction and by every setter before mutation.
func (p Params) Verify() error {
	if p.PriceFloorBps >= BPS {
		return fmt.Errorf("%w: priceFloorBps %d", ErrParameterOutOfBounds, p.PriceFloorBps)
	}
	if p.FeeBps > BPS {
		return fmt.Errorf("%w: feeBps %d", ErrParameterOutOfBounds, p.FeeBps)
	}
	if p.ProtocolFeeMbps > p.FeeBps*1000 || p.ProtocolFeeMbps > MBPS {
		return fmt.Errorf("%w: protocolFeeMbps %d", ErrParameterOutOfBounds, p.ProtocolFeeMbps)
	}
	if p.MaxVolatilityBps > BPS {
		return fmt.Errorf("%w: maxVolatilityBps %d", ErrParameterOutOfBounds, p.MaxVolatilityBps)
	}
	if p.MaxSwappableReservoirLimitBps > BPS {
		return fmt.Errorf("%w: maxSwappableReservoirLimitBps %d", ErrParameterOutOfBounds, p.MaxSwappableReservoirLimitBps)
	}
	if p.MovingAverageWindowSeconds == 0 || p.MovingAverageWindowSeconds > MaxParamDuration {
		return fmt.Errorf("%w: movingAverageWindowSeconds %d", ErrParameterOutOfBounds, p.MovingAverageWindowSeconds)
	}
	if p.SwappableReservoirGrowthWindowSeconds == 0 || p.SwappableReservoirGrowthWindowSeconds > MaxParamDuration {
		return fmt.Errorf("%w: swappableReservoirGrowthWindowSeconds %d", ErrParameterOutOfBounds, p.SwappableReservoirGrowthWindowSeconds)
	}
	if p.MinTimelockSeconds > p.MaxTimelockSeconds || p.MaxTimelockSeconds > MaxParamDuration {
		return fmt.Errorf("%w: timelock bounds %d..%d", ErrParameterOutOfBounds, p.MinTimelockSeconds, p.MaxTimelockSeconds)
	}
	if p.MinBasinSeconds > p.MaxBasinSeconds || p.MaxBasinSeconds > MaxParamDuration {
		return fmt.Errorf("%w: basin bounds %d..%d", ErrParameterOutOfBounds, p.MinBasinSeconds, p.MaxBasinSeconds)
	}
	return nil
}
