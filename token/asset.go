// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// SimpleAsset is a plain fungible asset backed by a Ledger. Transfers
// move exactly the requested amount.
type SimpleAsset struct {
	*Ledger
}

// NewSimpleAsset returns an empty asset with the given symbol.
func NewSimpleAsset(symbol string) *SimpleAsset {
	return &SimpleAsset{Ledger: NewLedger(symbol, symbol, 18)}
}

// FeeOnTransferAsset burns a basis-point fee out of every transfer, so
// the recipient receives less than the sender declared. Used to test
// that settlement trusts measured deltas over declared amounts.
type FeeOnTransferAsset struct {
	*Ledger
	feeBps uint64
}

// NewFeeOnTransferAsset returns an asset that burns feeBps of every
// transferred amount.
func NewFeeOnTransferAsset(symbol string, feeBps uint64) *FeeOnTransferAsset {
	return &FeeOnTransferAsset{Ledger: NewLedger(symbol, symbol, 18), feeBps: feeBps}
}

func (a *FeeOnTransferAsset) Transfer(from, to common.Address, amount *big.Int) error {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(a.feeBps))
	fee.Quo(fee, big.NewInt(10_000))
	received := new(big.Int).Sub(amount, fee)
	if err := a.Ledger.Transfer(from, to, received); err != nil {
		return err
	}
	// the fee leaves the sender and is burned
	return a.Ledger.Burn(from, fee)
}

// RebasingAsset scales every balance by a shared multiplier. Holders
// own shares; BalanceOf reports shares * num / den. Rebase changes the
// multiplier without touching any holder's shares.
type RebasingAsset struct {
	shares *Ledger
	num    *big.Int
	den    *big.Int
}

// NewRebasingAsset returns a rebasing asset with a 1:1 multiplier.
func NewRebasingAsset(symbol string) *RebasingAsset {
	return &RebasingAsset{
		shares: NewLedger(symbol, symbol, 18),
		num:    big.NewInt(1),
		den:    big.NewInt(1),
	}
}

// Rebase sets the balance multiplier to num/den. Both must be positive.
func (a *RebasingAsset) Rebase(num, den *big.Int) {
	if num.Sign() <= 0 || den.Sign() <= 0 {
		return
	}
	a.num = new(big.Int).Set(num)
	a.den = new(big.Int).Set(den)
}

func (a *RebasingAsset) BalanceOf(holder common.Address) *big.Int {
	b := a.shares.BalanceOf(holder)
	b.Mul(b, a.num)
	return b.Quo(b, a.den)
}

// Mint issues amount (in balance units) to holder.
func (a *RebasingAsset) Mint(holder common.Address, amount *big.Int) error {
	return a.shares.Mint(holder, a.toShares(amount))
}

func (a *RebasingAsset) Transfer(from, to common.Address, amount *big.Int) error {
	return a.shares.Transfer(from, to, a.toShares(amount))
}

func (a *RebasingAsset) Snapshot() int           { return a.shares.Snapshot() }
func (a *RebasingAsset) RevertToSnapshot(id int) { a.shares.RevertToSnapshot(id) }

func (a *RebasingAsset) toShares(amount *big.Int) *big.Int {
	s := new(big.Int).Mul(amount, a.den)
	return s.Quo(s, a.num)
}
