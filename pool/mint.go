// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/basinswap/fixmath"
)

// Mint deposits both assets and issues liquidity shares to the
// recipient at the less generous of the two deposit ratios; any excess
// on the other side is donated to existing holders. The first mint
// issues curve liquidity minus MinimumLiquidity, which is locked to the
// zero address forever.
func (p *Pair) Mint(caller, to common.Address, amount0, amount1 *big.Int) (*big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, err
	}
	defer p.unlock()
	if p.paused {
		return nil, ErrPaused
	}
	if to == (common.Address{}) || to == p.address {
		return nil, ErrInvalidRecipient
	}

	now := p.clock()
	rb := p.captureLedgers()
	shares, err := p.mintLocked(caller, to, amount0, amount1, now)
	if err != nil {
		rb.revert()
		return nil, err
	}
	return shares, nil
}

func (p *Pair) mintLocked(caller, to common.Address, amount0, amount1 *big.Int, now uint64) (*big.Int, error) {
	if err := p.settleProtocolFees(now); err != nil {
		return nil, err
	}
	if amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return nil, ErrInsufficientInput
	}

	total0, total1 := p.totals()
	if err := p.asset0.Transfer(caller, p.address, amount0); err != nil {
		return nil, err
	}
	if err := p.asset1.Transfer(caller, p.address, amount1); err != nil {
		return nil, err
	}
	newTotal0, newTotal1 := p.totals()

	in0 := new(big.Int).Sub(newTotal0, total0)
	in1 := new(big.Int).Sub(newTotal1, total1)
	if in0.Sign() < 0 || in1.Sign() < 0 {
		return nil, ErrBalanceDecreased
	}
	if in0.Sign() == 0 || in1.Sign() == 0 {
		return nil, ErrInsufficientInput
	}

	ts := p.shares.TotalSupply()
	var shares *big.Int
	if ts.Sign() == 0 {
		shares = p.model.Liquidity(in0, in1)
		shares.Sub(shares, big.NewInt(MinimumLiquidity))
		if shares.Sign() <= 0 {
			return nil, ErrInsufficientLiquidity
		}
		if err := p.shares.Mint(common.Address{}, big.NewInt(MinimumLiquidity)); err != nil {
			return nil, err
		}
		if !fixmath.FitsUint112(in0) || !fixmath.FitsUint112(in1) {
			return nil, ErrOverflow
		}
		p.initSnapshot(in0, in1, newTotal0, newTotal1, now)
	} else {
		// shares priced against pre-transfer totals
		s0 := fixmath.MulDiv(ts, in0, total0)
		s1 := fixmath.MulDiv(ts, in1, total1)
		shares = fixmath.Min(s0, s1)
		if shares.Sign() == 0 {
			return nil, ErrInsufficientLiquidity
		}
	}
	if err := p.shares.Mint(to, shares); err != nil {
		return nil, err
	}

	p.log.Info("mint settled", "in0", in0, "in1", in1, "shares", shares, "to", to)
	p.sink.Emit(Event{
		Kind:        EventMint,
		Caller:      caller,
		Recipient:   to,
		Timestamp:   now,
		Amount0In:   in0,
		Amount1In:   in1,
		SharesDelta: new(big.Int).Set(shares),
	})
	return new(big.Int).Set(shares), nil
}

// initSnapshot seeds the remembered state on first mint. The whole
// deposit is active pool; the reference price starts at the deposit
// ratio with empty accumulators.
func (p *Pair) initSnapshot(pool0, pool1, total0, total1 *big.Int, now uint64) {
	p.snap.Pool0Last = new(big.Int).Set(pool0)
	p.snap.Pool1Last = new(big.Int).Set(pool1)
	p.snap.Total0Last = new(big.Int).Set(total0)
	p.snap.Total1Last = new(big.Int).Set(total1)
	p.snap.BlockTimestampLast = now
	p.snap.Price0CumulativeLast = big.NewInt(0)
	p.snap.Price1CumulativeLast = big.NewInt(0)
	instant0, err := p.model.Price(pool1, pool0)
	if err != nil {
		instant0 = big.NewInt(0)
	}
	p.snap.MovingAveragePrice0Last = instant0
}

// MintWithReservoir deposits only the asset opposite the current
// reservoir. Part of the deposit is notionally swapped into the
// reservoir side at the moving-average price, sized so the reservoir is
// consumed without growing, and shares are issued against the resulting
// dual-sided deposit. Gated by the volatility timelock and the
// reservoir budget.
func (p *Pair) MintWithReservoir(caller, to common.Address, amountIn *big.Int) (*big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, err
	}
	defer p.unlock()
	if p.paused {
		return nil, ErrPaused
	}
	if to == (common.Address{}) || to == p.address {
		return nil, ErrInvalidRecipient
	}

	now := p.clock()
	rb := p.captureLedgers()
	shares, err := p.mintWithReservoirLocked(caller, to, amountIn, now)
	if err != nil {
		rb.revert()
		return nil, err
	}
	return shares, nil
}

func (p *Pair) mintWithReservoirLocked(caller, to common.Address, amountIn *big.Int, now uint64) (*big.Int, error) {
	if err := p.settleProtocolFees(now); err != nil {
		return nil, err
	}
	if amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInput
	}
	if now < p.throttle.SingleSidedTimelockDeadline {
		return nil, ErrTimelockActive
	}
	ts := p.shares.TotalSupply()
	if ts.Sign() == 0 {
		return nil, ErrUninitialized
	}

	total0, total1 := p.totals()
	lb, err := splitLiquidity(total0, total1, &p.snap,
		p.params.MinBasinSeconds, p.params.MaxBasinSeconds, now)
	if err != nil {
		return nil, err
	}
	if lb.Pool0.Sign() == 0 || lb.Pool1.Sign() == 0 {
		return nil, ErrInsufficientLiquidity
	}

	ma, err := p.currentMovingAverage(lb, now)
	if err != nil {
		return nil, err
	}

	depositAsset := p.asset0
	if lb.Reservoir0.Sign() > 0 {
		depositAsset = p.asset1
	}

	before := depositAsset.BalanceOf(p.address)
	if err := depositAsset.Transfer(caller, p.address, amountIn); err != nil {
		return nil, err
	}
	in := new(big.Int).Sub(depositAsset.BalanceOf(p.address), before)
	if in.Sign() < 0 {
		return nil, ErrBalanceDecreased
	}
	if in.Sign() == 0 {
		return nil, ErrInsufficientInput
	}

	// size the notional swap so the deposit plus swapped reservoir
	// lands exactly on the pool ratio
	var toSwap, swapped, retained *big.Int
	var reservoir, poolSide, totalDeposit, totalReservoir *big.Int
	if lb.Reservoir0.Sign() > 0 {
		// deposit token1, consume token0 reservoir at 1/price0
		reservoir, poolSide = lb.Reservoir0, lb.Pool0
		totalDeposit, totalReservoir = total1, total0
		den := fixmath.MulDiv(fixmath.Q112, total1, ma)
		den.Add(den, total0)
		toSwap = fixmath.MulDiv(in, total0, den)
		swapped = fixmath.MulDiv(toSwap, fixmath.Q112, ma)
	} else {
		// deposit token0, consume token1 reservoir at price0
		reservoir, poolSide = lb.Reservoir1, lb.Pool1
		totalDeposit, totalReservoir = total0, total1
		den := fixmath.MulDiv(ma, total0, fixmath.Q112)
		den.Add(den, total1)
		toSwap = fixmath.MulDiv(in, total1, den)
		swapped = fixmath.MulDiv(toSwap, ma, fixmath.Q112)
	}
	retained = new(big.Int).Sub(in, toSwap)

	if swapped.Cmp(reservoir) > 0 {
		return nil, ErrInsufficientReservoir
	}
	limit := reservoirLimit(poolSide, p.params,
		p.throttle.SwappableReservoirLimitReachesMaxDeadline, now)
	if swapped.Cmp(limit) > 0 {
		return nil, ErrReservoirBudgetExceeded
	}

	sDeposit := fixmath.MulDiv(ts, retained, totalDeposit)
	sReservoir := fixmath.MulDiv(ts, swapped, totalReservoir)
	shares := fixmath.Min(sDeposit, sReservoir)
	if shares.Sign() == 0 {
		return nil, ErrInsufficientLiquidity
	}
	if err := p.shares.Mint(to, shares); err != nil {
		return nil, err
	}

	p.throttle.SwappableReservoirLimitReachesMaxDeadline =
		consumeReservoirBudget(swapped, poolSide, p.params,
			p.throttle.SwappableReservoirLimitReachesMaxDeadline, now)

	p.log.Info("single-sided mint settled",
		"in", in, "swapped", swapped, "shares", shares, "to", to)
	ev := Event{
		Kind:        EventMintWithReservoir,
		Caller:      caller,
		Recipient:   to,
		Timestamp:   now,
		SharesDelta: new(big.Int).Set(shares),
	}
	if lb.Reservoir0.Sign() > 0 {
		ev.Amount1In = in
	} else {
		ev.Amount0In = in
	}
	p.sink.Emit(ev)
	return new(big.Int).Set(shares), nil
}

// currentMovingAverage blends the stored reference toward the
// instantaneous price without committing anything.
func (p *Pair) currentMovingAverage(lb LiquidityBalances, now uint64) (*big.Int, error) {
	instant0, err := p.model.Price(lb.Pool1, lb.Pool0)
	if err != nil {
		return nil, err
	}
	var elapsed uint64
	if now > p.snap.BlockTimestampLast {
		elapsed = now - p.snap.BlockTimestampLast
	}
	return movingAveragePrice(instant0, p.snap.MovingAveragePrice0Last,
		p.params.MovingAverageWindowSeconds, elapsed), nil
}
