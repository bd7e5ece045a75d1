// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"
	"time"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/luxfi/basinswap/curve"
	"github.com/luxfi/basinswap/token"
)

// PairConfig wires a pair to its collaborators. Address identifies the
// account whose asset balances belong to the pair; Admin is the only
// caller accepted by setters and pause transitions.
type PairConfig struct {
	Address common.Address
	Admin   common.Address

	Asset0     Asset
	Asset1     Asset
	Asset0Addr common.Address
	Asset1Addr common.Address

	Params Params

	// FeeBook supplies the protocol-fee recipient; nil means accrued
	// shares are burned.
	FeeBook FeeBook

	ShareName   string
	ShareSymbol string

	Logger log.Logger
	Sink   EventSink

	// Now overrides the clock, used by tests. Defaults to wall time.
	Now func() uint64
}

// Pair is a two-asset liquidity pool instance. All mutating calls are
// serialized by the platform; the internal lock only rejects reentrant
// calls made during optimistic transfers.
type Pair struct {
	log   log.Logger
	sink  EventSink
	clock func() uint64

	address    common.Address
	admin      common.Address
	asset0     Asset
	asset1     Asset
	asset0Addr common.Address
	asset1Addr common.Address

	shares *token.Ledger
	model  curve.Model
	params Params
	fees   FeeBook

	snap     PairSnapshot
	throttle ThrottleState

	paused bool
	locked bool
}

// NewPair validates the configuration and returns an empty pair. The
// snapshot stays uninitialized until the first mint.
func NewPair(cfg PairConfig) (*Pair, error) {
	if err := cfg.Params.Verify(); err != nil {
		return nil, err
	}
	model, err := curve.New(cfg.Params.PriceFloorBps)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	p := &Pair{
		log:        logger,
		clock:      cfg.Now,
		address:    cfg.Address,
		admin:      cfg.Admin,
		asset0:     cfg.Asset0,
		asset1:     cfg.Asset1,
		asset0Addr: cfg.Asset0Addr,
		asset1Addr: cfg.Asset1Addr,
		shares:     token.NewLedger(cfg.ShareName, cfg.ShareSymbol, 18),
		model:      model,
		params:     cfg.Params,
		fees:       cfg.FeeBook,
		snap: PairSnapshot{
			Pool0Last:               big.NewInt(0),
			Pool1Last:               big.NewInt(0),
			Total0Last:              big.NewInt(0),
			Total1Last:              big.NewInt(0),
			Price0CumulativeLast:    big.NewInt(0),
			Price1CumulativeLast:    big.NewInt(0),
			MovingAveragePrice0Last: big.NewInt(0),
		},
	}
	if p.clock == nil {
		p.clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if cfg.Sink != nil {
		p.sink = cfg.Sink
	} else {
		p.sink = sinkFunc(func(ev Event) {
			p.log.Debug("pair event", "kind", ev.Kind, "digest", ev.Digest())
		})
	}
	return p, nil
}

// Address returns the account holding the pair's asset balances.
func (p *Pair) Address() common.Address { return p.address }

// Shares exposes the liquidity-share ledger.
func (p *Pair) Shares() *token.Ledger { return p.shares }

// Params returns a copy of the current parameters.
func (p *Pair) Params() Params { return p.params }

// Paused reports whether non-redemption operations are suspended.
func (p *Pair) Paused() bool { return p.paused }

// Snapshot returns a copy of the last committed snapshot.
func (p *Pair) Snapshot() PairSnapshot {
	s := p.snap
	s.Pool0Last = new(big.Int).Set(p.snap.Pool0Last)
	s.Pool1Last = new(big.Int).Set(p.snap.Pool1Last)
	s.Total0Last = new(big.Int).Set(p.snap.Total0Last)
	s.Total1Last = new(big.Int).Set(p.snap.Total1Last)
	s.Price0CumulativeLast = new(big.Int).Set(p.snap.Price0CumulativeLast)
	s.Price1CumulativeLast = new(big.Int).Set(p.snap.Price1CumulativeLast)
	s.MovingAveragePrice0Last = new(big.Int).Set(p.snap.MovingAveragePrice0Last)
	return s
}

// Throttle returns the current single-sided deadlines.
func (p *Pair) Throttle() ThrottleState { return p.throttle }

func (p *Pair) lock() error {
	if p.locked {
		return ErrLocked
	}
	p.locked = true
	return nil
}

func (p *Pair) unlock() { p.locked = false }

func (p *Pair) totals() (*big.Int, *big.Int) {
	return p.asset0.BalanceOf(p.address), p.asset1.BalanceOf(p.address)
}

func (p *Pair) initialized() bool {
	return p.snap.Pool0Last.Sign() > 0 && p.snap.Pool1Last.Sign() > 0
}

// LiquidityBalances derives the current {pool, reservoir, basin} split.
func (p *Pair) LiquidityBalances() (LiquidityBalances, error) {
	total0, total1 := p.totals()
	return splitLiquidity(total0, total1, &p.snap,
		p.params.MinBasinSeconds, p.params.MaxBasinSeconds, p.clock())
}

// Price0 returns token0 priced in token1 on the current active pools,
// as a UQ112x112 value.
func (p *Pair) Price0() (*big.Int, error) {
	lb, err := p.LiquidityBalances()
	if err != nil {
		return nil, err
	}
	return p.model.Price(lb.Pool1, lb.Pool0)
}

// Price1 returns token1 priced in token0.
func (p *Pair) Price1() (*big.Int, error) {
	lb, err := p.LiquidityBalances()
	if err != nil {
		return nil, err
	}
	return p.model.Price(lb.Pool0, lb.Pool1)
}

// Invariant returns the curve's conserved quantity on the current
// active pools, as an unreduced fraction.
func (p *Pair) Invariant() (num, den *big.Int, err error) {
	lb, err := p.LiquidityBalances()
	if err != nil {
		return nil, nil, err
	}
	num, den = p.model.Invariant(lb.Pool0, lb.Pool1)
	return num, den, nil
}

// MovingAveragePrice0 returns the reference price as of now, blending
// the stored value toward the instantaneous price.
func (p *Pair) MovingAveragePrice0() (*big.Int, error) {
	lb, err := p.LiquidityBalances()
	if err != nil {
		return nil, err
	}
	if lb.Pool0.Sign() == 0 || lb.Pool1.Sign() == 0 {
		return nil, ErrUninitialized
	}
	instant, err := p.model.Price(lb.Pool1, lb.Pool0)
	if err != nil {
		return nil, err
	}
	now := p.clock()
	var elapsed uint64
	if now > p.snap.BlockTimestampLast {
		elapsed = now - p.snap.BlockTimestampLast
	}
	return movingAveragePrice(instant, p.snap.MovingAveragePrice0Last,
		p.params.MovingAverageWindowSeconds, elapsed), nil
}

// SwappableReservoirLimit returns the currently available reservoir
// budget, measured in units of the reservoir-side asset.
func (p *Pair) SwappableReservoirLimit() (*big.Int, error) {
	lb, err := p.LiquidityBalances()
	if err != nil {
		return nil, err
	}
	side := lb.Pool1
	if lb.Reservoir0.Sign() > 0 {
		side = lb.Pool0
	}
	return reservoirLimit(side, p.params,
		p.throttle.SwappableReservoirLimitReachesMaxDeadline, p.clock()), nil
}

// settleProtocolFees moves shares accrued to the pair itself to the fee
// recipient, or burns them when no recipient is configured. A zero
// accrual is a silent no-op.
func (p *Pair) settleProtocolFees(now uint64) error {
	accrued := p.shares.BalanceOf(p.address)
	if accrued.Sign() == 0 {
		return nil
	}
	recipient := common.Address{}
	if p.fees != nil {
		recipient = p.fees.FeeRecipient()
	}
	var err error
	if recipient == (common.Address{}) {
		err = p.shares.Burn(p.address, accrued)
	} else {
		err = p.shares.Transfer(p.address, recipient, accrued)
	}
	if err != nil {
		return err
	}
	p.sink.Emit(Event{
		Kind:        EventFeeSettled,
		Caller:      p.address,
		Recipient:   recipient,
		Timestamp:   now,
		SharesDelta: new(big.Int).Neg(accrued),
	})
	return nil
}

// checkRecipient rejects destinations that would corrupt accounting.
func (p *Pair) checkRecipient(to common.Address) error {
	if to == (common.Address{}) || to == p.address || to == p.asset0Addr || to == p.asset1Addr {
		return ErrInvalidRecipient
	}
	return nil
}

// rollback captures snapshots of every ledger the pair can write to and
// replays them on failure. Pair-internal state is only mutated after
// all checks pass, so it needs no journal.
type rollback struct {
	undo []func()
}

func (p *Pair) captureLedgers() *rollback {
	rb := &rollback{}
	for _, c := range []any{p.asset0, p.asset1} {
		if s, ok := c.(Snapshotter); ok {
			id := s.Snapshot()
			snapper := s
			rb.undo = append(rb.undo, func() { snapper.RevertToSnapshot(id) })
		}
	}
	id := p.shares.Snapshot()
	rb.undo = append(rb.undo, func() { p.shares.RevertToSnapshot(id) })
	return rb
}

func (rb *rollback) revert() {
	for i := len(rb.undo) - 1; i >= 0; i-- {
		rb.undo[i]()
	}
}
