// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettersRequireAdmin(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())

	require.ErrorIs(t, env.pair.SetFeeBps(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetProtocolFeeMbps(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetPriceFloorBps(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetMovingAverageWindow(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetMaxVolatilityBps(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetTimelockBounds(alice, 1, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetMaxSwappableReservoirLimitBps(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetSwappableReservoirGrowthWindow(alice, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.SetBasinBounds(alice, 1, 100), ErrForbidden)
	require.ErrorIs(t, env.pair.Pause(alice), ErrForbidden)
	require.ErrorIs(t, env.pair.Unpause(alice), ErrForbidden)
}

func TestSettersValidateBounds(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())

	require.ErrorIs(t, env.pair.SetFeeBps(adminAddr, BPS+1), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetProtocolFeeMbps(adminAddr, 30*1000+1), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetPriceFloorBps(adminAddr, BPS), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetMovingAverageWindow(adminAddr, 0), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetMovingAverageWindow(adminAddr, MaxParamDuration+1), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetMaxVolatilityBps(adminAddr, BPS+1), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetTimelockBounds(adminAddr, 100, 10), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetBasinBounds(adminAddr, 100, 10), ErrParameterOutOfBounds)
	require.ErrorIs(t, env.pair.SetSwappableReservoirGrowthWindow(adminAddr, 0), ErrParameterOutOfBounds)

	// a failed setter leaves parameters untouched
	require.Equal(t, defaultParams(), env.pair.Params())
}

func TestSettersCommitAndEmit(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())

	require.NoError(t, env.pair.SetFeeBps(adminAddr, 100))
	require.EqualValues(t, 100, env.pair.Params().FeeBps)

	require.NoError(t, env.pair.SetProtocolFeeMbps(adminAddr, 50_000))
	require.EqualValues(t, 50_000, env.pair.Params().ProtocolFeeMbps)

	require.NoError(t, env.pair.SetPriceFloorBps(adminAddr, 2500))
	require.EqualValues(t, 2500, env.pair.Params().PriceFloorBps)

	last := env.events[len(env.events)-1]
	require.Equal(t, EventParamUpdated, last.Kind)
	require.Equal(t, "priceFloorBps", last.Param)
	require.EqualValues(t, 0, last.OldValue)
	require.EqualValues(t, 2500, last.NewValue)
}

// Setters that change two parameters report both, so the event stream
// alone reconstructs the configuration.
func TestBoundSettersEmitBothParams(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())

	require.NoError(t, env.pair.SetTimelockBounds(adminAddr, 30, 43_200))
	require.Len(t, env.events, 2)
	require.Equal(t, "minTimelockSeconds", env.events[0].Param)
	require.EqualValues(t, 24, env.events[0].OldValue)
	require.EqualValues(t, 30, env.events[0].NewValue)
	require.Equal(t, "maxTimelockSeconds", env.events[1].Param)
	require.EqualValues(t, 86_400, env.events[1].OldValue)
	require.EqualValues(t, 43_200, env.events[1].NewValue)

	require.NoError(t, env.pair.SetBasinBounds(adminAddr, 30, 600))
	require.Len(t, env.events, 4)
	require.Equal(t, "minBasinSeconds", env.events[2].Param)
	require.EqualValues(t, 60, env.events[2].OldValue)
	require.EqualValues(t, 30, env.events[2].NewValue)
	require.Equal(t, "maxBasinSeconds", env.events[3].Param)
	require.EqualValues(t, 3_600, env.events[3].OldValue)
	require.EqualValues(t, 600, env.events[3].NewValue)
}

func TestSetTimelockBoundsRescalesDeadline(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())
	now := env.clock.now
	env.pair.throttle.SingleSidedTimelockDeadline = now + 1000

	// halving the maximum halves the remaining lock
	require.NoError(t, env.pair.SetTimelockBounds(adminAddr, 24, 43_200))
	require.Equal(t, now+500, env.pair.throttle.SingleSidedTimelockDeadline)

	// an expired deadline is left alone
	env.pair.throttle.SingleSidedTimelockDeadline = now - 1
	require.NoError(t, env.pair.SetTimelockBounds(adminAddr, 24, 86_400))
	require.Equal(t, now-1, env.pair.throttle.SingleSidedTimelockDeadline)
}

func TestSetGrowthWindowRescalesDeadline(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())
	now := env.clock.now
	env.pair.throttle.SwappableReservoirLimitReachesMaxDeadline = now + 864

	// window shrinks 86400 -> 43200, so remaining regeneration halves
	require.NoError(t, env.pair.SetSwappableReservoirGrowthWindow(adminAddr, 43_200))
	require.Equal(t, now+432, env.pair.throttle.SwappableReservoirLimitReachesMaxDeadline)
}

func TestPauseIsIdempotent(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())
	require.NoError(t, env.pair.Pause(adminAddr))
	require.NoError(t, env.pair.Pause(adminAddr))
	require.True(t, env.pair.Paused())
	require.NoError(t, env.pair.Unpause(adminAddr))
	require.NoError(t, env.pair.Unpause(adminAddr))
	require.False(t, env.pair.Paused())
}

func TestSwapRespectsUpdatedFee(t *testing.T) {
	env, _, _ := newEnv(t, defaultParams())
	_, err := env.pair.Mint(alice, alice, big.NewInt(1_000_000), big.NewInt(1_000_000))
	require.NoError(t, err)
	require.NoError(t, env.pair.SetFeeBps(adminAddr, 100)) // 1%

	// the 30 bps quote now violates the invariant under the 1% fee
	err = env.pair.Swap(bob, bob, big.NewInt(1000), big.NewInt(0), big.NewInt(0), big.NewInt(996))
	require.ErrorIs(t, err, ErrInvariantViolation)

	want := getAmountOut(big.NewInt(1000), big.NewInt(1_000_000), big.NewInt(1_000_000), 100)
	require.NoError(t, env.pair.Swap(bob, bob, big.NewInt(1000), big.NewInt(0), big.NewInt(0), want))
}
