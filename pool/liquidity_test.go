// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func snapAt(pool0, pool1, total0, total1 int64, ts uint64) *PairSnapshot {
	return &PairSnapshot{
		Pool0Last:               big.NewInt(pool0),
		Pool1Last:               big.NewInt(pool1),
		Total0Last:              big.NewInt(total0),
		Total1Last:              big.NewInt(total1),
		BlockTimestampLast:      ts,
		Price0CumulativeLast:    big.NewInt(0),
		Price1CumulativeLast:    big.NewInt(0),
		MovingAveragePrice0Last: big.NewInt(0),
	}
}

func requireSums(t *testing.T, lb LiquidityBalances, total0, total1 int64) {
	t.Helper()
	sum0 := new(big.Int).Add(lb.Pool0, lb.Reservoir0)
	sum0.Add(sum0, lb.Basin0)
	require.EqualValues(t, total0, sum0.Int64())
	sum1 := new(big.Int).Add(lb.Pool1, lb.Reservoir1)
	sum1.Add(sum1, lb.Basin1)
	require.EqualValues(t, total1, sum1.Int64())
	require.False(t, lb.Reservoir0.Sign() > 0 && lb.Reservoir1.Sign() > 0,
		"both reservoirs non-zero")
}

func TestSplitUninitialized(t *testing.T) {
	snap := snapAt(0, 0, 0, 0, 0)
	lb, err := splitLiquidity(big.NewInt(500), big.NewInt(500), snap, 60, 3600, 100)
	require.NoError(t, err)
	require.Zero(t, lb.Pool0.Sign())
	require.Zero(t, lb.Pool1.Sign())
	requireSums(t, lb, 0, 0) // all-zero split sums to zero totals
}

func TestSplitSteadyState(t *testing.T) {
	snap := snapAt(1_000_000, 1_000_000, 1_000_000, 1_000_000, 1000)
	lb, err := splitLiquidity(big.NewInt(1_000_000), big.NewInt(1_000_000), snap, 60, 3600, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000, lb.Pool0.Int64())
	require.EqualValues(t, 1_000_000, lb.Pool1.Int64())
	require.Zero(t, lb.Reservoir0.Sign())
	require.Zero(t, lb.Reservoir1.Sign())
	require.Zero(t, lb.Basin0.Sign())
	require.Zero(t, lb.Basin1.Sign())
}

func TestSplitRebaseUpProportional(t *testing.T) {
	// the pool held the full balance at last commit, so a rebase keeps
	// the pool fraction and the surplus lands in the reservoir at once
	snap := snapAt(1_000_000, 1_000_000, 1_000_000, 1_000_000, 1000)
	lb, err := splitLiquidity(big.NewInt(1_200_000), big.NewInt(1_000_000), snap, 60, 3600, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000, lb.Pool0.Int64())
	require.EqualValues(t, 1_000_000, lb.Pool1.Int64())
	require.EqualValues(t, 200_000, lb.Reservoir0.Int64())
	require.Zero(t, lb.Reservoir1.Sign())
	requireSums(t, lb, 1_200_000, 1_000_000)
}

func TestSplitRebaseDownImmediate(t *testing.T) {
	// shrinkage is never delayed
	snap := snapAt(1_000_000, 1_000_000, 1_000_000, 1_000_000, 1000)
	lb, err := splitLiquidity(big.NewInt(800_000), big.NewInt(1_000_000), snap, 60, 3600, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 800_000, lb.Pool0.Int64())
	require.EqualValues(t, 800_000, lb.Pool1.Int64())
	require.EqualValues(t, 200_000, lb.Reservoir1.Int64())
	requireSums(t, lb, 800_000, 1_000_000)
}

func TestSplitBasinAdmission(t *testing.T) {
	// part of the balance was already outside the pool at last commit,
	// so new growth is admitted over the basin window
	snap := snapAt(1_000_000, 1_000_000, 1_200_000, 1_000_000, 1000)
	const minBasin, maxBasin = 100, 1100

	tests := []struct {
		name               string
		now                uint64
		admitted0          int64
		reservoir0, basin0 int64
	}{
		{"before window", 1050, 1_166_666, 166_666, 233_334},
		{"at window start", 1100, 1_166_666, 166_666, 233_334},
		{"halfway", 1600, 1_283_333, 283_333, 116_667},
		{"at window end", 2100, 1_400_000, 400_000, 0},
		{"past window end", 9999, 1_400_000, 400_000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb, err := splitLiquidity(big.NewInt(1_400_000), big.NewInt(1_000_000),
				snap, minBasin, maxBasin, tt.now)
			require.NoError(t, err)
			require.EqualValues(t, 1_000_000, lb.Pool0.Int64())
			require.EqualValues(t, 1_000_000, lb.Pool1.Int64())
			require.EqualValues(t, tt.reservoir0, lb.Reservoir0.Int64())
			require.EqualValues(t, tt.basin0, lb.Basin0.Int64())
			requireSums(t, lb, 1_400_000, 1_000_000)
		})
	}
}

func TestSplitRatioRounding(t *testing.T) {
	// the recomputed side rounds to the nearest value at the last
	// ratio, ties up
	snap := snapAt(2, 3, 2, 3, 1000)
	// fixed side 0 admits 3, so the ratio puts side 1 at 4.5: ties up
	lb, err := splitLiquidity(big.NewInt(3), big.NewInt(9), snap, 60, 3600, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 3, lb.Pool0.Int64())
	require.EqualValues(t, 5, lb.Pool1.Int64())
	require.EqualValues(t, 4, lb.Reservoir1.Int64())
	requireSums(t, lb, 3, 9)
}

func TestSplitOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 113)
	snap := &PairSnapshot{
		Pool0Last:          new(big.Int).Set(huge),
		Pool1Last:          new(big.Int).Set(huge),
		Total0Last:         new(big.Int).Set(huge),
		Total1Last:         new(big.Int).Set(huge),
		BlockTimestampLast: 1000,
	}
	_, err := splitLiquidity(huge, huge, snap, 60, 3600, 1000)
	require.ErrorIs(t, err, ErrOverflow)
}
