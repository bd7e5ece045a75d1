// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry creates and administers liquidity pairs. Pairs are
// keyed by their canonically ordered asset addresses plus a fee
// category; the registry is the admin of every pair it creates and
// serves as the protocol-fee book for all of them.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"
	"github.com/zeebo/blake3"

	"github.com/luxfi/basinswap/pool"
)

var (
	ErrIdenticalAssets = errors.New("registry: identical assets")
	ErrZeroAsset       = errors.New("registry: zero asset address")
	ErrPairExists      = errors.New("registry: pair already exists")
	ErrPairNotFound    = errors.New("registry: pair not found")
	ErrUnknownCategory = errors.New("registry: unknown category")
	ErrForbidden       = errors.New("registry: caller not authorized")
)

// Category selects the default parameter profile of a new pair.
type Category uint8

const (
	CategoryStable Category = iota
	CategoryStandard
	CategoryVolatile
)

func (c Category) String() string {
	switch c {
	case CategoryStable:
		return "stable"
	case CategoryStandard:
		return "standard"
	case CategoryVolatile:
		return "volatile"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// CategoryInfo describes one parameter profile.
type CategoryInfo struct {
	Category    Category
	Name        string
	Description string
	Params      pool.Params
}

// Categories lists the supported profiles and their default parameters.
// Pairs start from these and diverge only through the admin setters.
var Categories = []CategoryInfo{
	{
		Category:    CategoryStable,
		Name:        "stable",
		Description: "pegged assets: tight price floor, low fee, short timelock",
		Params: pool.Params{
			PriceFloorBps:                         9000,
			FeeBps:                                5,
			ProtocolFeeMbps:                       1_000,
			MovingAverageWindowSeconds:            86_400,
			MaxVolatilityBps:                      100,
			MinTimelockSeconds:                    24,
			MaxTimelockSeconds:                    43_200,
			MaxSwappableReservoirLimitBps:         1_000,
			SwappableReservoirGrowthWindowSeconds: 86_400,
			MinBasinSeconds:                       60,
			MaxBasinSeconds:                       3_600,
		},
	},
	{
		Category:    CategoryStandard,
		Name:        "standard",
		Description: "uncorrelated assets: constant product, 30 bps fee",
		Params: pool.Params{
			PriceFloorBps:                         0,
			FeeBps:                                30,
			ProtocolFeeMbps:                       5_000,
			MovingAverageWindowSeconds:            86_400,
			MaxVolatilityBps:                      700,
			MinTimelockSeconds:                    24,
			MaxTimelockSeconds:                    86_400,
			MaxSwappableReservoirLimitBps:         1_000,
			SwappableReservoirGrowthWindowSeconds: 86_400,
			MinBasinSeconds:                       60,
			MaxBasinSeconds:                       3_600,
		},
	},
	{
		Category:    CategoryVolatile,
		Name:        "volatile",
		Description: "long-tail assets: high fee, long timelock, slow reservoir",
		Params: pool.Params{
			PriceFloorBps:                         0,
			FeeBps:                                100,
			ProtocolFeeMbps:                       20_000,
			MovingAverageWindowSeconds:            86_400,
			MaxVolatilityBps:                      2_000,
			MinTimelockSeconds:                    3_600,
			MaxTimelockSeconds:                    604_800,
			MaxSwappableReservoirLimitBps:         500,
			SwappableReservoirGrowthWindowSeconds: 172_800,
			MinBasinSeconds:                       60,
			MaxBasinSeconds:                       7_200,
		},
	},
}

// CategoryParams returns the default parameters for a category.
func CategoryParams(c Category) (pool.Params, error) {
	for _, ci := range Categories {
		if ci.Category == c {
			return ci.Params, nil
		}
	}
	return pool.Params{}, ErrUnknownCategory
}

// AssetRef identifies one side of a pair: the asset's account address,
// its display symbol, and the settlement surface.
type AssetRef struct {
	Addr   common.Address
	Symbol string
	Asset  pool.Asset
}

// PairID derives the key of a pair from its asset addresses and
// category. The addresses are sorted first, so argument order does not
// matter.
func PairID(assetA, assetB common.Address, category Category) common.Hash {
	if bytes.Compare(assetB.Bytes(), assetA.Bytes()) < 0 {
		assetA, assetB = assetB, assetA
	}
	h := blake3.New()
	h.Write(assetA.Bytes())
	h.Write(assetB.Bytes())
	h.Write([]byte{byte(category)})
	return common.Hash(h.Sum(nil)[:32])
}

// PairAddress derives the account a pair holds its balances under, the
// trailing 20 bytes of the pair ID.
func PairAddress(id common.Hash) common.Address {
	return common.BytesToAddress(id[12:])
}

// Config wires a registry to its collaborators.
type Config struct {
	// Address is the registry's own account; it is installed as the
	// admin of every pair created here.
	Address common.Address
	// Admin is the only caller accepted by the registry's mutating
	// methods.
	Admin common.Address
	// FeeRecipient receives settled protocol fees. The zero address
	// makes pairs burn accrued shares instead.
	FeeRecipient common.Address

	Logger log.Logger
	Sink   pool.EventSink

	// Now overrides the clock handed to pairs, used by tests.
	Now func() uint64
}

// Registry is the pair factory and directory.
type Registry struct {
	mu    sync.RWMutex
	log   log.Logger
	sink  pool.EventSink
	clock func() uint64

	address common.Address
	admin   common.Address

	feeRecipient common.Address
	pairs        map[common.Hash]*pool.Pair
}

// New returns an empty registry.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	clock := cfg.Now
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Registry{
		log:          logger,
		sink:         cfg.Sink,
		clock:        clock,
		address:      cfg.Address,
		admin:        cfg.Admin,
		feeRecipient: cfg.FeeRecipient,
		pairs:        make(map[common.Hash]*pool.Pair),
	}
}

// FeeRecipient implements pool.FeeBook for every pair in the registry.
func (r *Registry) FeeRecipient() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.feeRecipient
}

// SetFeeRecipient changes where settled protocol fees go. The zero
// address switches pairs to burning accrued shares.
func (r *Registry) SetFeeRecipient(caller, recipient common.Address) error {
	if caller != r.admin {
		return ErrForbidden
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.feeRecipient
	r.feeRecipient = recipient
	r.log.Info("fee recipient updated", "old", old, "new", recipient)
	return nil
}

// CreatePair instantiates a pair for the two assets under the given
// category. Creation is open to any caller; administration of the pair
// stays with the registry.
func (r *Registry) CreatePair(caller common.Address, a, b AssetRef, category Category) (common.Hash, *pool.Pair, error) {
	if a.Addr == b.Addr {
		return common.Hash{}, nil, ErrIdenticalAssets
	}
	if a.Addr == (common.Address{}) || b.Addr == (common.Address{}) {
		return common.Hash{}, nil, ErrZeroAsset
	}
	params, err := CategoryParams(category)
	if err != nil {
		return common.Hash{}, nil, err
	}
	if bytes.Compare(b.Addr.Bytes(), a.Addr.Bytes()) < 0 {
		a, b = b, a
	}
	id := PairID(a.Addr, b.Addr, category)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pairs[id]; ok {
		return id, nil, ErrPairExists
	}
	p, err := pool.NewPair(pool.PairConfig{
		Address:     PairAddress(id),
		Admin:       r.address,
		Asset0:      a.Asset,
		Asset1:      b.Asset,
		Asset0Addr:  a.Addr,
		Asset1Addr:  b.Addr,
		Params:      params,
		FeeBook:     r,
		ShareName:   fmt.Sprintf("Basin %s/%s %s LP", a.Symbol, b.Symbol, category),
		ShareSymbol: fmt.Sprintf("bLP-%s-%s", a.Symbol, b.Symbol),
		Logger:      r.log,
		Sink:        r.sink,
		Now:         r.clock,
	})
	if err != nil {
		return id, nil, err
	}
	r.pairs[id] = p
	r.log.Info("pair created",
		"id", id,
		"asset0", a.Addr, "asset1", b.Addr,
		"category", category.String(),
		"caller", caller)
	return id, p, nil
}

// Pair returns the pair registered under id.
func (r *Registry) Pair(id common.Hash) (*pool.Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pairs[id]
	if !ok {
		return nil, ErrPairNotFound
	}
	return p, nil
}

// PairByAssets looks a pair up by asset addresses, in either order.
func (r *Registry) PairByAssets(assetA, assetB common.Address, category Category) (*pool.Pair, error) {
	return r.Pair(PairID(assetA, assetB, category))
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pairs)
}

// IDs returns the keys of all registered pairs, in no particular order.
func (r *Registry) IDs() []common.Hash {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]common.Hash, 0, len(r.pairs))
	for id := range r.pairs {
		ids = append(ids, id)
	}
	return ids
}

// withPair authorizes caller, resolves id, and runs fn outside the
// registry lock. Pairs only accept the registry's own address, so all
// parameter changes funnel through here.
func (r *Registry) withPair(caller common.Address, id common.Hash, fn func(*pool.Pair) error) error {
	if caller != r.admin {
		return ErrForbidden
	}
	r.mu.RLock()
	p, ok := r.pairs[id]
	r.mu.RUnlock()
	if !ok {
		return ErrPairNotFound
	}
	return fn(p)
}

func (r *Registry) SetFeeBps(caller common.Address, id common.Hash, bps uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetFeeBps(r.address, bps) })
}

func (r *Registry) SetProtocolFeeMbps(caller common.Address, id common.Hash, mbps uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetProtocolFeeMbps(r.address, mbps) })
}

func (r *Registry) SetPriceFloorBps(caller common.Address, id common.Hash, bps uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetPriceFloorBps(r.address, bps) })
}

func (r *Registry) SetMovingAverageWindow(caller common.Address, id common.Hash, seconds uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetMovingAverageWindow(r.address, seconds) })
}

func (r *Registry) SetMaxVolatilityBps(caller common.Address, id common.Hash, bps uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetMaxVolatilityBps(r.address, bps) })
}

func (r *Registry) SetTimelockBounds(caller common.Address, id common.Hash, minSeconds, maxSeconds uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetTimelockBounds(r.address, minSeconds, maxSeconds) })
}

func (r *Registry) SetMaxSwappableReservoirLimitBps(caller common.Address, id common.Hash, bps uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetMaxSwappableReservoirLimitBps(r.address, bps) })
}

func (r *Registry) SetSwappableReservoirGrowthWindow(caller common.Address, id common.Hash, seconds uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetSwappableReservoirGrowthWindow(r.address, seconds) })
}

func (r *Registry) SetBasinBounds(caller common.Address, id common.Hash, minSeconds, maxSeconds uint64) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.SetBasinBounds(r.address, minSeconds, maxSeconds) })
}

func (r *Registry) Pause(caller common.Address, id common.Hash) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.Pause(r.address) })
}

func (r *Registry) Unpause(caller common.Address, id common.Hash) error {
	return r.withPair(caller, id, func(p *pool.Pair) error { return p.Unpause(r.address) })
}

// PauseAll suspends every registered pair. Burns remain available on
// paused pairs.
func (r *Registry) PauseAll(caller common.Address) error {
	if caller != r.admin {
		return ErrForbidden
	}
	for _, p := range r.snapshotPairs() {
		if err := p.Pause(r.address); err != nil {
			return err
		}
	}
	return nil
}

// UnpauseAll resumes every registered pair.
func (r *Registry) UnpauseAll(caller common.Address) error {
	if caller != r.admin {
		return ErrForbidden
	}
	for _, p := range r.snapshotPairs() {
		if err := p.Unpause(r.address); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) snapshotPairs() []*pool.Pair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pairs := make([]*pool.Pair, 0, len(r.pairs))
	for _, p := range r.pairs {
		pairs = append(pairs, p)
	}
	return pairs
}
