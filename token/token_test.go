// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob   = common.HexToAddress("0xb0b0000000000000000000000000000000000002")
)

func TestLedgerMintBurnTransfer(t *testing.T) {
	l := NewLedger("Basin LP", "BLP", 18)
	require.Equal(t, "Basin LP", l.Name())
	require.Equal(t, "BLP", l.Symbol())
	require.EqualValues(t, 18, l.Decimals())

	require.NoError(t, l.Mint(alice, big.NewInt(1000)))
	require.EqualValues(t, 1000, l.TotalSupply().Int64())
	require.EqualValues(t, 1000, l.BalanceOf(alice).Int64())

	require.NoError(t, l.Transfer(alice, bob, big.NewInt(400)))
	require.EqualValues(t, 600, l.BalanceOf(alice).Int64())
	require.EqualValues(t, 400, l.BalanceOf(bob).Int64())

	require.NoError(t, l.Burn(bob, big.NewInt(400)))
	require.EqualValues(t, 600, l.TotalSupply().Int64())

	require.ErrorIs(t, l.Burn(bob, big.NewInt(1)), ErrInsufficientBalance)
	require.ErrorIs(t, l.Transfer(alice, bob, big.NewInt(601)), ErrInsufficientBalance)
	require.ErrorIs(t, l.Mint(alice, big.NewInt(-1)), ErrAmountOutOfRange)
}

func TestLedgerSnapshotRevert(t *testing.T) {
	l := NewLedger("Basin LP", "BLP", 18)
	require.NoError(t, l.Mint(alice, big.NewInt(100)))

	id := l.Snapshot()
	require.NoError(t, l.Mint(bob, big.NewInt(50)))
	require.NoError(t, l.Transfer(alice, bob, big.NewInt(30)))
	require.EqualValues(t, 150, l.TotalSupply().Int64())

	l.RevertToSnapshot(id)
	require.EqualValues(t, 100, l.TotalSupply().Int64())
	require.EqualValues(t, 100, l.BalanceOf(alice).Int64())
	require.Zero(t, l.BalanceOf(bob).Sign())
}

func TestFeeOnTransferAsset(t *testing.T) {
	a := NewFeeOnTransferAsset("FOT", 100) // 1% burn
	require.NoError(t, a.Mint(alice, big.NewInt(10_000)))

	require.NoError(t, a.Transfer(alice, bob, big.NewInt(10_000)))
	require.EqualValues(t, 9900, a.BalanceOf(bob).Int64())
	require.Zero(t, a.BalanceOf(alice).Sign())
	require.EqualValues(t, 9900, a.TotalSupply().Int64())
}

func TestRebasingAsset(t *testing.T) {
	a := NewRebasingAsset("RBS")
	require.NoError(t, a.Mint(alice, big.NewInt(1000)))
	require.EqualValues(t, 1000, a.BalanceOf(alice).Int64())

	// positive rebase doubles every balance
	a.Rebase(big.NewInt(2), big.NewInt(1))
	require.EqualValues(t, 2000, a.BalanceOf(alice).Int64())

	require.NoError(t, a.Transfer(alice, bob, big.NewInt(500)))
	require.EqualValues(t, 1500, a.BalanceOf(alice).Int64())
	require.EqualValues(t, 500, a.BalanceOf(bob).Int64())

	// negative rebase halves back
	a.Rebase(big.NewInt(1), big.NewInt(1))
	require.EqualValues(t, 750, a.BalanceOf(alice).Int64())

	id := a.Snapshot()
	require.NoError(t, a.Transfer(alice, bob, big.NewInt(100)))
	a.RevertToSnapshot(id)
	require.EqualValues(t, 750, a.BalanceOf(alice).Int64())
}
