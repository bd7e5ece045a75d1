// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/basinswap/fixmath"
)

func TestNewFactory(t *testing.T) {
	m, err := New(0)
	require.NoError(t, err)
	require.IsType(t, ConstantProduct{}, m)

	m, err = New(2500)
	require.NoError(t, err)
	require.IsType(t, &FloorCurve{}, m)

	_, err = New(BPS)
	require.ErrorIs(t, err, ErrInvalidPriceFloor)
	_, err = New(BPS + 1)
	require.ErrorIs(t, err, ErrInvalidPriceFloor)
}

func TestConstantProductPrice(t *testing.T) {
	cp := ConstantProduct{}

	p, err := cp.Price(big.NewInt(1000), big.NewInt(1000))
	require.NoError(t, err)
	require.Zero(t, p.Cmp(fixmath.Q112))

	p, err = cp.Price(big.NewInt(2000), big.NewInt(1000))
	require.NoError(t, err)
	want := new(big.Int).Lsh(fixmath.Q112, 1)
	require.Zero(t, p.Cmp(want))

	_, err = cp.Price(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrZeroPool)
}

func TestConstantProductInvariantAndLiquidity(t *testing.T) {
	cp := ConstantProduct{}
	x, y := big.NewInt(300), big.NewInt(1200)

	num, den := cp.Invariant(x, y)
	require.EqualValues(t, 360000, num.Int64())
	require.EqualValues(t, 1, den.Int64())

	require.EqualValues(t, 600, cp.Liquidity(x, y).Int64())
}

func TestFloorCurveBalancedPoint(t *testing.T) {
	fc := NewFloorCurve(2500)
	require.EqualValues(t, 2500, fc.FloorBps())

	for _, x := range []int64{1, 1000, 1_000_000, 123_456_789} {
		b := big.NewInt(x)
		require.Zero(t, b.Cmp(fc.Liquidity(b, b)), "liquidity at balance %d", x)

		p, err := fc.Price(b, b)
		require.NoError(t, err)
		require.Zero(t, p.Cmp(fixmath.Q112), "price at balance %d", x)
	}
}

func TestFloorCurvePriceBounds(t *testing.T) {
	// floorBps 2500: g = 5000, a = 10000, ceiling = ((a+B)/a)^2 = 4.
	fc := NewFloorCurve(2500)
	x := big.NewInt(3_000_000)
	zero := big.NewInt(0)

	ceiling, err := fc.Price(x, zero)
	require.NoError(t, err)
	want := new(big.Int).Lsh(fixmath.Q112, 2)
	require.Zero(t, ceiling.Cmp(want))

	floor, err := fc.Price(zero, x)
	require.NoError(t, err)
	want = new(big.Int).Rsh(fixmath.Q112, 2)
	require.Zero(t, floor.Cmp(want))

	// interior points stay within the bounds
	for _, y := range []int64{1, 1000, 2_999_999, 3_000_000} {
		p, err := fc.Price(x, big.NewInt(y))
		require.NoError(t, err)
		require.True(t, p.Cmp(ceiling) <= 0)
		require.True(t, p.Cmp(floor) >= 0)
	}
}

// The realized bound is g^2/B^2 with a floored square root: 9000 bps
// realizes ~0.89984 rather than 0.9000 because 9000*10000 is not a
// perfect square. (2500 bps is exact; see the bounds test above.)
func TestFloorCurveRealizedFloorIsFloored(t *testing.T) {
	fc := NewFloorCurve(9000)

	floor, err := fc.Price(big.NewInt(0), big.NewInt(1_000_000))
	require.NoError(t, err)

	nominal := new(big.Int).Mul(fixmath.Q112, big.NewInt(9000))
	nominal.Quo(nominal, big.NewInt(BPS))
	low := new(big.Int).Mul(fixmath.Q112, big.NewInt(8998))
	low.Quo(low, big.NewInt(BPS))

	require.True(t, floor.Cmp(nominal) < 0)
	require.True(t, floor.Cmp(low) >= 0)
}

func TestFloorCurvePriceMonotone(t *testing.T) {
	fc := NewFloorCurve(100)
	x := big.NewInt(1_000_000)

	above, err := fc.Price(new(big.Int).Lsh(x, 1), x)
	require.NoError(t, err)
	below, err := fc.Price(x, new(big.Int).Lsh(x, 1))
	require.NoError(t, err)

	require.True(t, above.Cmp(fixmath.Q112) > 0)
	require.True(t, below.Cmp(fixmath.Q112) < 0)
}

func TestFloorCurveInvariantGrowsWithBalances(t *testing.T) {
	fc := NewFloorCurve(2500)
	x, y := big.NewInt(5000), big.NewInt(7000)

	n1, d1 := fc.Invariant(x, y)
	n2, d2 := fc.Invariant(new(big.Int).Add(x, big.NewInt(1)), y)

	// cross-multiplied comparison, the same way the pool checks swaps
	lhs := new(big.Int).Mul(n2, d1)
	rhs := new(big.Int).Mul(n1, d2)
	require.True(t, lhs.Cmp(rhs) > 0)
}

func TestFloorCurveEmptyPool(t *testing.T) {
	fc := NewFloorCurve(2500)
	_, err := fc.Price(big.NewInt(0), big.NewInt(0))
	require.ErrorIs(t, err, ErrZeroPool)
	require.Zero(t, fc.Liquidity(big.NewInt(0), big.NewInt(0)).Sign())
}
