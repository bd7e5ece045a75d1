// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/basinswap/fixmath"
)

// Swap trades declared inputs for requested outputs. Inputs are pulled
// from caller, outputs are sent to the recipient before the invariant
// check, and the amounts that actually count are re-derived from
// measured balance deltas so fee-on-transfer and rebasing assets settle
// correctly. At least one unit of each active pool always remains.
func (p *Pair) Swap(caller, to common.Address, amountIn0, amountIn1, amountOut0, amountOut1 *big.Int) error {
	if err := p.lock(); err != nil {
		return err
	}
	defer p.unlock()
	if p.paused {
		return ErrPaused
	}
	// declared amounts are signed at the API boundary but must never be
	// negative: a negative output would inflate the settlement floor and
	// undercharge the fee on the measured input
	if amountIn0.Sign() < 0 || amountIn1.Sign() < 0 {
		return ErrInsufficientInput
	}
	if amountOut0.Sign() < 0 || amountOut1.Sign() < 0 {
		return ErrInsufficientOutput
	}
	if amountOut0.Sign() == 0 && amountOut1.Sign() == 0 {
		return ErrInsufficientOutput
	}
	if err := p.checkRecipient(to); err != nil {
		return err
	}

	now := p.clock()
	rb := p.captureLedgers()
	if err := p.swapLocked(caller, to, amountIn0, amountIn1, amountOut0, amountOut1, now); err != nil {
		rb.revert()
		return err
	}
	return nil
}

func (p *Pair) swapLocked(caller, to common.Address, in0, in1, out0, out1 *big.Int, now uint64) error {
	if err := p.settleProtocolFees(now); err != nil {
		return err
	}

	total0, total1 := p.totals()
	lb, err := splitLiquidity(total0, total1, &p.snap,
		p.params.MinBasinSeconds, p.params.MaxBasinSeconds, now)
	if err != nil {
		return err
	}
	if lb.Pool0.Sign() == 0 || lb.Pool1.Sign() == 0 {
		return ErrInsufficientLiquidity
	}

	one := big.NewInt(1)
	if out0.Cmp(new(big.Int).Sub(lb.Pool0, one)) > 0 ||
		out1.Cmp(new(big.Int).Sub(lb.Pool1, one)) > 0 {
		return ErrInsufficientLiquidity
	}

	// optimistic movement; real effects are measured afterwards
	if in0.Sign() > 0 {
		if err := p.asset0.Transfer(caller, p.address, in0); err != nil {
			return err
		}
	}
	if in1.Sign() > 0 {
		if err := p.asset1.Transfer(caller, p.address, in1); err != nil {
			return err
		}
	}
	if out0.Sign() > 0 {
		if err := p.asset0.Transfer(p.address, to, out0); err != nil {
			return err
		}
	}
	if out1.Sign() > 0 {
		if err := p.asset1.Transfer(p.address, to, out1); err != nil {
			return err
		}
	}

	// a swap cannot touch reservoir or basin, so the whole balance
	// delta belongs to the pool component
	newTotal0, newTotal1 := p.totals()
	pool0New := new(big.Int).Add(lb.Pool0, new(big.Int).Sub(newTotal0, total0))
	pool1New := new(big.Int).Add(lb.Pool1, new(big.Int).Sub(newTotal1, total1))

	floor0 := new(big.Int).Sub(lb.Pool0, out0)
	floor1 := new(big.Int).Sub(lb.Pool1, out1)
	if pool0New.Cmp(floor0) < 0 || pool1New.Cmp(floor1) < 0 {
		return ErrBalanceDecreased
	}
	effIn0 := new(big.Int).Sub(pool0New, floor0)
	effIn1 := new(big.Int).Sub(pool1New, floor1)
	if effIn0.Sign() == 0 && effIn1.Sign() == 0 {
		return ErrInsufficientInput
	}
	if !fixmath.FitsUint112(pool0New) || !fixmath.FitsUint112(pool1New) {
		return ErrOverflow
	}

	// invariant check on fee-adjusted balances, compared by
	// cross-multiplication against the pre-swap pools on the same basis
	bps := big.NewInt(BPS)
	fee := new(big.Int).SetUint64(p.params.FeeBps)
	adj0 := new(big.Int).Mul(pool0New, bps)
	adj0.Sub(adj0, new(big.Int).Mul(effIn0, fee))
	adj1 := new(big.Int).Mul(pool1New, bps)
	adj1.Sub(adj1, new(big.Int).Mul(effIn1, fee))

	numNew, denNew := p.model.Invariant(adj0, adj1)
	numOld, denOld := p.model.Invariant(new(big.Int).Mul(lb.Pool0, bps), new(big.Int).Mul(lb.Pool1, bps))
	if new(big.Int).Mul(numNew, denOld).Cmp(new(big.Int).Mul(numOld, denNew)) < 0 {
		return ErrInvariantViolation
	}

	var elapsed uint64
	if now > p.snap.BlockTimestampLast {
		elapsed = now - p.snap.BlockTimestampLast
	}
	price0Cum := new(big.Int).Set(p.snap.Price0CumulativeLast)
	price1Cum := new(big.Int).Set(p.snap.Price1CumulativeLast)
	if elapsed > 0 {
		p0, err := p.model.Price(p.snap.Pool1Last, p.snap.Pool0Last)
		if err != nil {
			return err
		}
		p1, err := p.model.Price(p.snap.Pool0Last, p.snap.Pool1Last)
		if err != nil {
			return err
		}
		e := new(big.Int).SetUint64(elapsed)
		price0Cum.Add(price0Cum, p0.Mul(p0, e))
		price1Cum.Add(price1Cum, p1.Mul(p1, e))
	}

	// the reference price blends toward the pre-swap instantaneous
	// price; the post-swap price only feeds the timelock
	instant0, err := p.model.Price(lb.Pool1, lb.Pool0)
	if err != nil {
		return err
	}
	ma := movingAveragePrice(instant0, p.snap.MovingAveragePrice0Last,
		p.params.MovingAverageWindowSeconds, elapsed)

	if err := p.mintProtocolFee(lb.Pool0, lb.Pool1, pool0New, pool1New); err != nil {
		return err
	}

	newPrice0, err := p.model.Price(pool1New, pool0New)
	if err != nil {
		return err
	}
	dur := timelockDuration(newPrice0, ma, p.params)
	p.throttle.SingleSidedTimelockDeadline =
		extendDeadline(p.throttle.SingleSidedTimelockDeadline, now, dur)

	p.snap.Pool0Last = pool0New
	p.snap.Pool1Last = pool1New
	p.snap.Total0Last = newTotal0
	p.snap.Total1Last = newTotal1
	p.snap.BlockTimestampLast = now
	p.snap.Price0CumulativeLast = price0Cum
	p.snap.Price1CumulativeLast = price1Cum
	p.snap.MovingAveragePrice0Last = ma

	p.log.Info("swap settled",
		"in0", effIn0, "in1", effIn1, "out0", out0, "out1", out1,
		"pool0", pool0New, "pool1", pool1New)
	p.sink.Emit(Event{
		Kind:        EventSwap,
		Caller:      caller,
		Recipient:   to,
		Timestamp:   now,
		Amount0In:   effIn0,
		Amount1In:   effIn1,
		Amount0Out:  new(big.Int).Set(out0),
		Amount1Out:  new(big.Int).Set(out1),
		Pool0Before: lb.Pool0,
		Pool1Before: lb.Pool1,
		Pool0After:  pool0New,
		Pool1After:  pool1New,
	})
	return nil
}

// mintProtocolFee issues shares to the pair itself for the protocol's
// slice of invariant growth. They are forwarded to the fee recipient on
// the next entry into any settlement path.
func (p *Pair) mintProtocolFee(pool0, pool1, pool0New, pool1New *big.Int) error {
	if p.params.ProtocolFeeMbps == 0 {
		return nil
	}
	ts := p.shares.TotalSupply()
	if ts.Sign() == 0 {
		return nil
	}
	l1 := p.model.Liquidity(pool0, pool1)
	l2 := p.model.Liquidity(pool0New, pool1New)
	if l2.Cmp(l1) <= 0 {
		return nil
	}
	growth := new(big.Int).Sub(l2, l1)
	pm := new(big.Int).SetUint64(p.params.ProtocolFeeMbps)

	num := new(big.Int).Mul(ts, pm)
	num.Mul(num, growth)
	den := new(big.Int).SetUint64(p.params.FeeBps * 1000)
	den.Mul(den, l2)
	den.Sub(den, new(big.Int).Mul(pm, growth))
	if den.Sign() <= 0 {
		return nil
	}
	minted := num.Quo(num, den)
	if minted.Sign() == 0 {
		return nil
	}
	return p.shares.Mint(p.address, minted)
}
