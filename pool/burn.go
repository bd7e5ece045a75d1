// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/basinswap/fixmath"
)

// Burn redeems liquidity shares pro rata against raw totals. Redemption
// stays available while the pair is paused.
func (p *Pair) Burn(caller, to common.Address, liquidity *big.Int) (*big.Int, *big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, nil, err
	}
	defer p.unlock()
	if err := p.checkRecipient(to); err != nil {
		return nil, nil, err
	}

	now := p.clock()
	rb := p.captureLedgers()
	out0, out1, err := p.burnLocked(caller, to, liquidity, now)
	if err != nil {
		rb.revert()
		return nil, nil, err
	}
	return out0, out1, nil
}

func (p *Pair) burnLocked(caller, to common.Address, liquidity *big.Int, now uint64) (*big.Int, *big.Int, error) {
	if err := p.settleProtocolFees(now); err != nil {
		return nil, nil, err
	}
	if liquidity.Sign() <= 0 {
		return nil, nil, ErrInsufficientInput
	}
	ts := p.shares.TotalSupply()
	if ts.Sign() == 0 {
		return nil, nil, ErrUninitialized
	}

	total0, total1 := p.totals()
	out0 := fixmath.MulDiv(total0, liquidity, ts)
	out1 := fixmath.MulDiv(total1, liquidity, ts)
	if out0.Sign() == 0 || out1.Sign() == 0 {
		return nil, nil, ErrInsufficientOutput
	}

	if err := p.shares.Burn(caller, liquidity); err != nil {
		return nil, nil, err
	}
	if err := p.asset0.Transfer(p.address, to, out0); err != nil {
		return nil, nil, err
	}
	if err := p.asset1.Transfer(p.address, to, out1); err != nil {
		return nil, nil, err
	}

	p.log.Info("burn settled", "shares", liquidity, "out0", out0, "out1", out1, "to", to)
	p.sink.Emit(Event{
		Kind:        EventBurn,
		Caller:      caller,
		Recipient:   to,
		Timestamp:   now,
		Amount0Out:  out0,
		Amount1Out:  out1,
		SharesDelta: new(big.Int).Neg(liquidity),
	})
	return out0, out1, nil
}

// BurnFromReservoir redeems shares into the reservoir-side asset only:
// the pro-rata claim on the other asset is converted at the
// moving-average price and paid out of the reservoir. Available while
// paused, but gated by the volatility timelock and the reservoir
// budget.
func (p *Pair) BurnFromReservoir(caller, to common.Address, liquidity *big.Int) (*big.Int, *big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, nil, err
	}
	defer p.unlock()
	if err := p.checkRecipient(to); err != nil {
		return nil, nil, err
	}

	now := p.clock()
	rb := p.captureLedgers()
	out0, out1, err := p.burnFromReservoirLocked(caller, to, liquidity, now)
	if err != nil {
		rb.revert()
		return nil, nil, err
	}
	return out0, out1, nil
}

func (p *Pair) burnFromReservoirLocked(caller, to common.Address, liquidity *big.Int, now uint64) (*big.Int, *big.Int, error) {
	if err := p.settleProtocolFees(now); err != nil {
		return nil, nil, err
	}
	if liquidity.Sign() <= 0 {
		return nil, nil, ErrInsufficientInput
	}
	if now < p.throttle.SingleSidedTimelockDeadline {
		return nil, nil, ErrTimelockActive
	}
	ts := p.shares.TotalSupply()
	if ts.Sign() == 0 {
		return nil, nil, ErrUninitialized
	}

	total0, total1 := p.totals()
	lb, err := splitLiquidity(total0, total1, &p.snap,
		p.params.MinBasinSeconds, p.params.MaxBasinSeconds, now)
	if err != nil {
		return nil, nil, err
	}
	if lb.Pool0.Sign() == 0 || lb.Pool1.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidity
	}

	ma, err := p.currentMovingAverage(lb, now)
	if err != nil {
		return nil, nil, err
	}

	claim0 := fixmath.MulDiv(total0, liquidity, ts)
	claim1 := fixmath.MulDiv(total1, liquidity, ts)

	out0 := big.NewInt(0)
	out1 := big.NewInt(0)
	var converted, reservoir, poolSide *big.Int
	var outAsset Asset
	if lb.Reservoir0.Sign() > 0 {
		// pay entirely in token0: the token1 claim converts at 1/price0
		converted = fixmath.MulDiv(claim1, fixmath.Q112, ma)
		reservoir, poolSide = lb.Reservoir0, lb.Pool0
		out0 = new(big.Int).Add(claim0, converted)
		outAsset = p.asset0
		if out0.Cmp(total0) > 0 {
			return nil, nil, ErrInsufficientLiquidity
		}
	} else {
		converted = fixmath.MulDiv(claim0, ma, fixmath.Q112)
		reservoir, poolSide = lb.Reservoir1, lb.Pool1
		out1 = new(big.Int).Add(claim1, converted)
		outAsset = p.asset1
		if out1.Cmp(total1) > 0 {
			return nil, nil, ErrInsufficientLiquidity
		}
	}

	if converted.Cmp(reservoir) > 0 {
		return nil, nil, ErrInsufficientReservoir
	}
	limit := reservoirLimit(poolSide, p.params,
		p.throttle.SwappableReservoirLimitReachesMaxDeadline, now)
	if converted.Cmp(limit) > 0 {
		return nil, nil, ErrReservoirBudgetExceeded
	}

	out := out0
	if out1.Sign() > 0 {
		out = out1
	}
	if out.Sign() == 0 {
		return nil, nil, ErrInsufficientOutput
	}

	if err := p.shares.Burn(caller, liquidity); err != nil {
		return nil, nil, err
	}
	if err := outAsset.Transfer(p.address, to, out); err != nil {
		return nil, nil, err
	}

	p.throttle.SwappableReservoirLimitReachesMaxDeadline =
		consumeReservoirBudget(converted, poolSide, p.params,
			p.throttle.SwappableReservoirLimitReachesMaxDeadline, now)

	p.log.Info("single-sided burn settled",
		"shares", liquidity, "out0", out0, "out1", out1, "converted", converted, "to", to)
	p.sink.Emit(Event{
		Kind:        EventBurnFromReservoir,
		Caller:      caller,
		Recipient:   to,
		Timestamp:   now,
		Amount0Out:  out0,
		Amount1Out:  out1,
		SharesDelta: new(big.Int).Neg(liquidity),
	})
	return out0, out1, nil
}
