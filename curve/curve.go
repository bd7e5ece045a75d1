// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve defines the pricing model used by a pair. A Model maps
// active pool balances to an instantaneous marginal price, a swap
// invariant, and a scalar liquidity measure. Models are stateless and
// never mutate their inputs.
package curve

import (
	"errors"
	"math/big"
)

// BPS is the basis-point denominator shared by all curve parameters.
const BPS = 10_000

var (
	ErrZeroPool          = errors.New("curve: price undefined for empty pool")
	ErrInvalidPriceFloor = errors.New("curve: price floor bps out of range")
)

// Model prices one asset of a pair in terms of the other and supplies
// the invariant the swap settlement enforces.
type Model interface {
	// Price returns poolA priced in poolB as a UQ112x112 fixed-point
	// value. Fails if the denominator side is empty.
	Price(poolA, poolB *big.Int) (*big.Int, error)

	// Invariant returns the swap invariant of the given balances as an
	// unreduced (num, den) fraction. Callers compare two invariants by
	// cross-multiplying, never by dividing.
	Invariant(poolA, poolB *big.Int) (num, den *big.Int)

	// Liquidity returns the scalar liquidity measure of the balances,
	// used for share issuance and protocol fee growth.
	Liquidity(poolA, poolB *big.Int) *big.Int
}

// New returns the model for the given price floor. A zero floor selects
// the unbounded constant-product curve. Floors of one (10000 bps) or
// more are rejected: the curve degenerates to a fixed-price line there.
func New(priceFloorBps uint64) (Model, error) {
	if priceFloorBps == 0 {
		return ConstantProduct{}, nil
	}
	if priceFloorBps >= BPS {
		return nil, ErrInvalidPriceFloor
	}
	return NewFloorCurve(priceFloorBps), nil
}
