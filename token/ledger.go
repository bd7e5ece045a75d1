// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token holds the in-memory fungible primitives the pool engine
// settles against: a share ledger for liquidity tokens and a set of
// asset implementations used as external collaborators. Balances are
// stored as uint256 and exposed as big integers at the API boundary.
package token

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

var (
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrAmountOutOfRange    = errors.New("token: amount negative or too wide")
	ErrBadSnapshot         = errors.New("token: unknown snapshot id")
)

// Ledger is a fungible share ledger with journal-style snapshots. The
// pool uses one Ledger per pair for its liquidity shares; snapshots let
// a failed settlement unwind optimistic mints and transfers.
type Ledger struct {
	name     string
	symbol   string
	decimals uint8

	balances map[common.Address]*uint256.Int
	total    *uint256.Int

	snaps []ledgerSnap
}

type ledgerSnap struct {
	balances map[common.Address]*uint256.Int
	total    *uint256.Int
}

// NewLedger returns an empty ledger with the given display metadata.
func NewLedger(name, symbol string, decimals uint8) *Ledger {
	return &Ledger{
		name:     name,
		symbol:   symbol,
		decimals: decimals,
		balances: make(map[common.Address]*uint256.Int),
		total:    uint256.NewInt(0),
	}
}

func (l *Ledger) Name() string    { return l.name }
func (l *Ledger) Symbol() string  { return l.symbol }
func (l *Ledger) Decimals() uint8 { return l.decimals }

// TotalSupply returns the outstanding share count.
func (l *Ledger) TotalSupply() *big.Int { return l.total.ToBig() }

// BalanceOf returns holder's share balance.
func (l *Ledger) BalanceOf(holder common.Address) *big.Int {
	if b, ok := l.balances[holder]; ok {
		return b.ToBig()
	}
	return big.NewInt(0)
}

func toAmount(v *big.Int) (*uint256.Int, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ErrAmountOutOfRange
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrAmountOutOfRange
	}
	return u, nil
}

// Mint issues amount shares to holder.
func (l *Ledger) Mint(holder common.Address, amount *big.Int) error {
	u, err := toAmount(amount)
	if err != nil {
		return err
	}
	cur, ok := l.balances[holder]
	if !ok {
		cur = uint256.NewInt(0)
		l.balances[holder] = cur
	}
	cur.Add(cur, u)
	l.total.Add(l.total, u)
	return nil
}

// Burn destroys amount shares held by holder.
func (l *Ledger) Burn(holder common.Address, amount *big.Int) error {
	u, err := toAmount(amount)
	if err != nil {
		return err
	}
	cur, ok := l.balances[holder]
	if !ok || cur.Lt(u) {
		return ErrInsufficientBalance
	}
	cur.Sub(cur, u)
	l.total.Sub(l.total, u)
	return nil
}

// Transfer moves amount shares between holders.
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	u, err := toAmount(amount)
	if err != nil {
		return err
	}
	src, ok := l.balances[from]
	if !ok || src.Lt(u) {
		return ErrInsufficientBalance
	}
	dst, ok := l.balances[to]
	if !ok {
		dst = uint256.NewInt(0)
		l.balances[to] = dst
	}
	src.Sub(src, u)
	dst.Add(dst, u)
	return nil
}

// Snapshot records the current state and returns an id for revert.
func (l *Ledger) Snapshot() int {
	cp := make(map[common.Address]*uint256.Int, len(l.balances))
	for a, b := range l.balances {
		cp[a] = new(uint256.Int).Set(b)
	}
	l.snaps = append(l.snaps, ledgerSnap{balances: cp, total: new(uint256.Int).Set(l.total)})
	return len(l.snaps) - 1
}

// RevertToSnapshot restores the state captured by Snapshot. Later
// snapshots are discarded.
func (l *Ledger) RevertToSnapshot(id int) {
	if id < 0 || id >= len(l.snaps) {
		return
	}
	s := l.snaps[id]
	l.balances = s.balances
	l.total = s.total
	l.snaps = l.snaps[:id]
}
