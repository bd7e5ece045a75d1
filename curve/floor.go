// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"math/big"

	"github.com/luxfi/basinswap/fixmath"
)

// FloorCurve is a constant-product curve shifted by a virtual offset on
// both sides, which bounds the marginal price to [g^2/B^2, B^2/g^2]
// where g = isqrt(floorBps * B). The square root floors, so the
// realized bound sits marginally below floorBps/B whenever floorBps*B
// is not a perfect square (9000 bps realizes ~0.89984, not 0.9000).
// The offset is proportional to the balanced-point scale s of the
// current balances, so the bounds hold at every point of the curve, not
// just at deployment.
//
// With B = 10000 and offset coefficient a = g*B/(B-g), s is the
// positive root of
//
//	s^2 (B + 2a) - a (x+y) s - B x y = 0
//
// which at x == y reduces to s == x. The invariant is the quadratic's
// discriminant-root expression kept as an unreduced fraction so swap
// checks can cross-multiply without precision loss.
type FloorCurve struct {
	floorBps uint64
	a        *big.Int // virtual offset coefficient, bps-scaled
	den2     *big.Int // 2*(B + 2a), the quadratic's doubled leading coefficient
}

// NewFloorCurve builds the curve for floorBps in (0, BPS).
// Use New for validated construction.
func NewFloorCurve(floorBps uint64) *FloorCurve {
	b := big.NewInt(BPS)
	g := fixmath.Sqrt(new(big.Int).Mul(new(big.Int).SetUint64(floorBps), b))
	a := new(big.Int).Mul(g, b)
	a.Quo(a, new(big.Int).Sub(b, g))
	den2 := new(big.Int).Add(b, new(big.Int).Lsh(a, 1))
	den2.Lsh(den2, 1)
	return &FloorCurve{floorBps: floorBps, a: a, den2: den2}
}

// FloorBps returns the configured price floor in basis points.
func (c *FloorCurve) FloorBps() uint64 { return c.floorBps }

// root returns a(x+y) + isqrt(a^2 (x+y)^2 + 4(B+2a) B x y), the
// numerator shared by the liquidity scalar and the invariant.
func (c *FloorCurve) root(x, y *big.Int) *big.Int {
	sum := new(big.Int).Add(x, y)
	lin := new(big.Int).Mul(c.a, sum)

	disc := new(big.Int).Mul(lin, lin)
	xy := new(big.Int).Mul(x, y)
	xy.Mul(xy, big.NewInt(BPS))
	xy.Mul(xy, c.den2) // den2 = 2(B+2a), so this is 2(B+2a)*B*x*y
	xy.Lsh(xy, 1)      // 4(B+2a)*B*x*y
	disc.Add(disc, xy)

	return lin.Add(lin, fixmath.Sqrt(disc))
}

func (c *FloorCurve) Price(poolA, poolB *big.Int) (*big.Int, error) {
	if poolA.Sign() == 0 && poolB.Sign() == 0 {
		return nil, ErrZeroPool
	}
	s := c.Liquidity(poolA, poolB)
	off := new(big.Int).Mul(c.a, s)
	num := new(big.Int).Mul(poolA, big.NewInt(BPS))
	num.Add(num, off)
	den := new(big.Int).Mul(poolB, big.NewInt(BPS))
	den.Add(den, off)
	if den.Sign() == 0 {
		return nil, ErrZeroPool
	}
	return fixmath.EncodeUQ112(num, den), nil
}

func (c *FloorCurve) Invariant(poolA, poolB *big.Int) (num, den *big.Int) {
	return c.root(poolA, poolB), new(big.Int).Set(c.den2)
}

func (c *FloorCurve) Liquidity(poolA, poolB *big.Int) *big.Int {
	s := c.root(poolA, poolB)
	return s.Quo(s, c.den2)
}
