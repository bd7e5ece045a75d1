// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"math/big"

	"github.com/luxfi/basinswap/fixmath"
)

// ConstantProduct is the classic x*y = k curve. Prices span the full
// positive range; there is no floor.
type ConstantProduct struct{}

func (ConstantProduct) Price(poolA, poolB *big.Int) (*big.Int, error) {
	if poolB.Sign() == 0 {
		return nil, ErrZeroPool
	}
	return fixmath.EncodeUQ112(poolA, poolB), nil
}

func (ConstantProduct) Invariant(poolA, poolB *big.Int) (num, den *big.Int) {
	return new(big.Int).Mul(poolA, poolB), big.NewInt(1)
}

func (ConstantProduct) Liquidity(poolA, poolB *big.Int) *big.Int {
	return fixmath.Sqrt(new(big.Int).Mul(poolA, poolB))
}
