// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/basinswap/curve"
)

func (p *Pair) requireAdmin(caller common.Address) error {
	if caller != p.admin {
		return ErrForbidden
	}
	return nil
}

// applyParams validates and commits a parameter mutation, emitting one
// update event. Setters that change two parameters emit the second via
// emitParam after the commit.
func (p *Pair) applyParams(next Params, name string, oldValue, newValue uint64) error {
	if err := next.Verify(); err != nil {
		return err
	}
	p.params = next
	p.emitParam(name, oldValue, newValue)
	return nil
}

func (p *Pair) emitParam(name string, oldValue, newValue uint64) {
	p.log.Info("parameter updated", "param", name, "old", oldValue, "new", newValue)
	p.sink.Emit(Event{
		Kind:      EventParamUpdated,
		Timestamp: p.clock(),
		Param:     name,
		OldValue:  oldValue,
		NewValue:  newValue,
	})
}

// SetFeeBps updates the trading fee. The protocol fee bound is
// re-validated against the new value.
func (p *Pair) SetFeeBps(caller common.Address, feeBps uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.FeeBps
	next.FeeBps = feeBps
	return p.applyParams(next, "feeBps", old, feeBps)
}

// SetProtocolFeeMbps updates the protocol's slice of fee growth.
func (p *Pair) SetProtocolFeeMbps(caller common.Address, mbps uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.ProtocolFeeMbps
	next.ProtocolFeeMbps = mbps
	return p.applyParams(next, "protocolFeeMbps", old, mbps)
}

// SetPriceFloorBps swaps the curve model. Existing pools are repriced
// by the new curve on the next operation.
func (p *Pair) SetPriceFloorBps(caller common.Address, floorBps uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	model, err := curve.New(floorBps)
	if err != nil {
		return ErrParameterOutOfBounds
	}
	next := p.params
	old := next.PriceFloorBps
	next.PriceFloorBps = floorBps
	if err := p.applyParams(next, "priceFloorBps", old, floorBps); err != nil {
		return err
	}
	p.model = model
	return nil
}

// SetMovingAverageWindow updates the reference-price decay window.
func (p *Pair) SetMovingAverageWindow(caller common.Address, seconds uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.MovingAverageWindowSeconds
	next.MovingAverageWindowSeconds = seconds
	return p.applyParams(next, "movingAverageWindowSeconds", old, seconds)
}

// SetMaxVolatilityBps updates the deviation scale of the timelock.
func (p *Pair) SetMaxVolatilityBps(caller common.Address, bps uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.MaxVolatilityBps
	next.MaxVolatilityBps = bps
	return p.applyParams(next, "maxVolatilityBps", old, bps)
}

// SetTimelockBounds updates the single-sided timelock range. Any
// in-flight deadline is rescaled by the ratio of the new to the old
// maximum instead of being discarded.
func (p *Pair) SetTimelockBounds(caller common.Address, minSeconds, maxSeconds uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	oldMin := next.MinTimelockSeconds
	oldMax := next.MaxTimelockSeconds
	next.MinTimelockSeconds = minSeconds
	next.MaxTimelockSeconds = maxSeconds
	if err := p.applyParams(next, "minTimelockSeconds", oldMin, minSeconds); err != nil {
		return err
	}
	p.emitParam("maxTimelockSeconds", oldMax, maxSeconds)

	now := p.clock()
	if d := p.throttle.SingleSidedTimelockDeadline; d > now && oldMax > 0 {
		remaining := new(big.Int).SetUint64(d - now)
		remaining.Mul(remaining, new(big.Int).SetUint64(maxSeconds))
		remaining.Quo(remaining, new(big.Int).SetUint64(oldMax))
		p.throttle.SingleSidedTimelockDeadline = now + remaining.Uint64()
	}
	return nil
}

// SetMaxSwappableReservoirLimitBps updates the reservoir budget cap.
func (p *Pair) SetMaxSwappableReservoirLimitBps(caller common.Address, bps uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.MaxSwappableReservoirLimitBps
	next.MaxSwappableReservoirLimitBps = bps
	return p.applyParams(next, "maxSwappableReservoirLimitBps", old, bps)
}

// SetSwappableReservoirGrowthWindow updates the budget regeneration
// window, rescaling any in-flight growth deadline proportionally.
func (p *Pair) SetSwappableReservoirGrowthWindow(caller common.Address, seconds uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	old := next.SwappableReservoirGrowthWindowSeconds
	next.SwappableReservoirGrowthWindowSeconds = seconds
	if err := p.applyParams(next, "swappableReservoirGrowthWindowSeconds", old, seconds); err != nil {
		return err
	}

	now := p.clock()
	if d := p.throttle.SwappableReservoirLimitReachesMaxDeadline; d > now && old > 0 {
		remaining := new(big.Int).SetUint64(d - now)
		remaining.Mul(remaining, new(big.Int).SetUint64(seconds))
		remaining.Quo(remaining, new(big.Int).SetUint64(old))
		p.throttle.SwappableReservoirLimitReachesMaxDeadline = now + remaining.Uint64()
	}
	return nil
}

// SetBasinBounds updates the admission window for out-of-band balance
// growth.
func (p *Pair) SetBasinBounds(caller common.Address, minSeconds, maxSeconds uint64) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	next := p.params
	oldMin := next.MinBasinSeconds
	oldMax := next.MaxBasinSeconds
	next.MinBasinSeconds = minSeconds
	next.MaxBasinSeconds = maxSeconds
	if err := p.applyParams(next, "minBasinSeconds", oldMin, minSeconds); err != nil {
		return err
	}
	p.emitParam("maxBasinSeconds", oldMax, maxSeconds)
	return nil
}

// Pause suspends swaps and mints. Burns stay available so holders can
// always exit.
func (p *Pair) Pause(caller common.Address) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	if p.paused {
		return nil
	}
	p.paused = true
	p.log.Info("pair paused")
	p.sink.Emit(Event{Kind: EventPaused, Caller: caller, Timestamp: p.clock()})
	return nil
}

// Unpause resumes operation. The accumulators and reference price are
// rolled forward over the paused interval, and the single-sided
// timelock restarts at its maximum since the pause interval carries no
// price information.
func (p *Pair) Unpause(caller common.Address) error {
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	if !p.paused {
		return nil
	}
	now := p.clock()

	if p.initialized() {
		var elapsed uint64
		if now > p.snap.BlockTimestampLast {
			elapsed = now - p.snap.BlockTimestampLast
		}
		if elapsed > 0 {
			p0, err0 := p.model.Price(p.snap.Pool1Last, p.snap.Pool0Last)
			p1, err1 := p.model.Price(p.snap.Pool0Last, p.snap.Pool1Last)
			if err0 == nil && err1 == nil {
				e := new(big.Int).SetUint64(elapsed)
				p.snap.Price0CumulativeLast.Add(p.snap.Price0CumulativeLast, p0.Mul(p0, e))
				p.snap.Price1CumulativeLast.Add(p.snap.Price1CumulativeLast, p1.Mul(p1, e))
				instant0, err := p.model.Price(p.snap.Pool1Last, p.snap.Pool0Last)
				if err == nil {
					p.snap.MovingAveragePrice0Last = movingAveragePrice(
						instant0, p.snap.MovingAveragePrice0Last,
						p.params.MovingAverageWindowSeconds, elapsed)
				}
			}
		}
		p.snap.BlockTimestampLast = now
	}

	p.paused = false
	p.throttle.SingleSidedTimelockDeadline = now + p.params.MaxTimelockSeconds
	p.log.Info("pair unpaused", "timelockDeadline", p.throttle.SingleSidedTimelockDeadline)
	p.sink.Emit(Event{Kind: EventUnpaused, Caller: caller, Timestamp: now})
	return nil
}
