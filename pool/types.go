// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements a two-asset liquidity pair tolerant of
// rebasing and fee-on-transfer assets. Raw balances are decomposed into
// an active pool, a single-sided reservoir, and a slowly-admitted basin;
// swaps settle optimistically and reconcile against measured balance
// deltas; single-sided operations are gated by a volatility-scaled
// timelock and a regenerating reservoir budget.
package pool

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
)

const (
	// BPS is the basis-point denominator for fee and fraction parameters.
	BPS = 10_000
	// MBPS is the milli-basis-point denominator for the protocol fee.
	MBPS = 10_000_000
	// MinimumLiquidity is locked to the zero address on first mint.
	MinimumLiquidity = 1000
	// MaxParamDuration bounds every duration parameter (12 weeks).
	MaxParamDuration = 12 * 7 * 24 * 60 * 60
)

var (
	ErrParameterOutOfBounds    = errors.New("pool: parameter out of bounds")
	ErrForbidden               = errors.New("pool: caller not authorized")
	ErrPaused                  = errors.New("pool: operation unavailable while paused")
	ErrLocked                  = errors.New("pool: reentrant call")
	ErrTimelockActive          = errors.New("pool: single-sided timelock active")
	ErrInsufficientLiquidity   = errors.New("pool: insufficient liquidity")
	ErrInsufficientReservoir   = errors.New("pool: insufficient reservoir")
	ErrInsufficientInput       = errors.New("pool: insufficient input amount")
	ErrInsufficientOutput      = errors.New("pool: insufficient output amount")
	ErrReservoirBudgetExceeded = errors.New("pool: reservoir budget exceeded")
	ErrInvariantViolation      = errors.New("pool: curve invariant violated")
	ErrOverflow                = errors.New("pool: derived pool balance exceeds width")
	ErrBalanceDecreased        = errors.New("pool: asset balance decreased during settlement")
	ErrInvalidRecipient        = errors.New("pool: invalid recipient")
	ErrUninitialized           = errors.New("pool: pair has no liquidity")
)

// Asset is the external asset surface the pair settles against. The
// real effect of Transfer is never trusted; the pair re-measures its
// own balance before and after.
type Asset interface {
	BalanceOf(holder common.Address) *big.Int
	Transfer(from, to common.Address, amount *big.Int) error
}

// Snapshotter is optionally implemented by assets and ledgers that can
// unwind optimistic writes when a settlement fails partway.
type Snapshotter interface {
	Snapshot() int
	RevertToSnapshot(id int)
}

// FeeBook is the registry-side collaborator queried per fee settlement.
// A zero recipient means accrued protocol shares are burned instead.
type FeeBook interface {
	FeeRecipient() common.Address
}

// PairSnapshot is the remembered state as of the end of the last swap.
// It is initialized by the first mint and mutated only by swap
// settlement and pause transitions.
type PairSnapshot struct {
	Pool0Last  *big.Int
	Pool1Last  *big.Int
	Total0Last *big.Int
	Total1Last *big.Int

	BlockTimestampLast uint64

	Price0CumulativeLast *big.Int
	Price1CumulativeLast *big.Int

	MovingAveragePrice0Last *big.Int
}

// ThrottleState holds the deadlines gating single-sided operations.
type ThrottleState struct {
	// SingleSidedTimelockDeadline is the timestamp before which
	// single-sided mint and burn fail.
	SingleSidedTimelockDeadline uint64
	// SwappableReservoirLimitReachesMaxDeadline is the timestamp at
	// which the reservoir-exchange budget regains its configured
	// maximum fraction of the pool.
	SwappableReservoirLimitReachesMaxDeadline uint64
}

// LiquidityBalances is the derived decomposition of raw balances. It is
// recomputed on every read and never stored. For each asset i,
// Pool_i + Reservoir_i + Basin_i == Total_i, and at most one of the two
// reservoirs is non-zero.
type LiquidityBalances struct {
	Pool0, Pool1           *big.Int
	Reservoir0, Reservoir1 *big.Int
	Basin0, Basin1         *big.Int
}

func zeroLiquidityBalances() LiquidityBalances {
	return LiquidityBalances{
		Pool0: big.NewInt(0), Pool1: big.NewInt(0),
		Reservoir0: big.NewInt(0), Reservoir1: big.NewInt(0),
		Basin0: big.NewInt(0), Basin1: big.NewInt(0),
	}
}
