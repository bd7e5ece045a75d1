// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixmath provides the integer primitives shared by the pool
// engine: floor square root, overflow-safe multiply-divide with explicit
// rounding modes, and UQ112x112 fixed-point price encoding. All values
// are non-negative big integers; intermediate products may occupy twice
// the input bit width, which math/big absorbs without truncation.
package fixmath

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Q112 is the UQ112x112 fixed-point scale (2^112).
var Q112 = new(big.Int).Lsh(big.NewInt(1), 112)

// MaxUint112 is the largest value that fits the pool storage width.
var MaxUint112 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

// Sqrt returns the integer floor square root of n.
// Negative inputs are treated as zero.
func Sqrt(n *big.Int) *big.Int {
	if n == nil || n.Sign() <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sqrt(n)
}

// MulDiv returns floor(a * b / den). den must be non-zero.
func MulDiv(a, b, den *big.Int) *big.Int {
	prod := new(big.Int).Mul(a, b)
	return prod.Quo(prod, den)
}

// MulDivCeil returns ceil(a * b / den). den must be non-zero.
func MulDivCeil(a, b, den *big.Int) *big.Int {
	prod := new(big.Int).Mul(a, b)
	q, r := prod.QuoRem(prod, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// MulDivNearest returns a * b / den rounded to the nearest integer,
// with exact halves rounded up. den must be non-zero.
func MulDivNearest(a, b, den *big.Int) *big.Int {
	prod := new(big.Int).Mul(a, b)
	prod.Lsh(prod, 1)
	prod.Add(prod, den)
	den2 := new(big.Int).Lsh(den, 1)
	return prod.Quo(prod, den2)
}

// CeilDiv returns ceil(a / den). den must be non-zero.
func CeilDiv(a, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// Min returns the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// FitsUint112 reports whether x fits the 112-bit pool storage width.
func FitsUint112(x *big.Int) bool {
	return x.Sign() >= 0 && x.BitLen() <= 112
}

// EncodeUQ112 returns num * 2^112 / den as a UQ112x112 fixed-point
// value. den must be non-zero.
func EncodeUQ112(num, den *big.Int) *big.Int {
	scaled := new(big.Int).Lsh(num, 112)
	return scaled.Quo(scaled, den)
}

// ToU256 converts x to a uint256, saturating at the type maximum.
// Used at the boundary with ledgers that store balances as uint256.
func ToU256(x *big.Int) *uint256.Int {
	u, overflow := uint256.FromBig(x)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return u
}

// FromU256 converts a uint256 balance to a big integer.
func FromU256(u *uint256.Int) *big.Int {
	if u == nil {
		return big.NewInt(0)
	}
	return u.ToBig()
}
