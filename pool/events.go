// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// EventKind discriminates settlement events.
type EventKind string

const (
	EventSwap               EventKind = "swap"
	EventMint               EventKind = "mint"
	EventMintWithReservoir  EventKind = "mintWithReservoir"
	EventBurn               EventKind = "burn"
	EventBurnFromReservoir  EventKind = "burnFromReservoir"
	EventFeeSettled         EventKind = "feeSettled"
	EventParamUpdated       EventKind = "paramUpdated"
	EventPaused             EventKind = "paused"
	EventUnpaused           EventKind = "unpaused"
)

// Event carries before/after quantities for one state-changing
// operation, sufficient to reconstruct the accounting off-line.
type Event struct {
	Kind      EventKind
	Caller    common.Address
	Recipient common.Address
	Timestamp uint64

	Amount0In  *big.Int
	Amount1In  *big.Int
	Amount0Out *big.Int
	Amount1Out *big.Int

	// SharesDelta is positive for mints, negative for burns.
	SharesDelta *big.Int

	Pool0Before *big.Int
	Pool1Before *big.Int
	Pool0After  *big.Int
	Pool1After  *big.Int

	// Param fields are set only for EventParamUpdated.
	Param    string
	OldValue uint64
	NewValue uint64
}

// Digest returns a content hash of the event.
func (e *Event) Digest() common.Hash {
	h := blake3.New()
	fmt.Fprintf(h, "%s|%x|%x|%d|", e.Kind, e.Caller, e.Recipient, e.Timestamp)
	for _, v := range []*big.Int{
		e.Amount0In, e.Amount1In, e.Amount0Out, e.Amount1Out,
		e.SharesDelta, e.Pool0Before, e.Pool1Before, e.Pool0After, e.Pool1After,
	} {
		if v != nil {
			fmt.Fprintf(h, "%x|", v)
		} else {
			fmt.Fprint(h, "|")
		}
	}
	fmt.Fprintf(h, "%s|%d|%d", e.Param, e.OldValue, e.NewValue)
	return common.Hash(h.Sum(nil)[:32])
}

// EventSink receives settlement events. Implementations must not call
// back into the pair; the reentrancy guard is held while emitting.
type EventSink interface {
	Emit(ev Event)
}

// sinkFunc adapts a function to EventSink.
type sinkFunc func(ev Event)

func (f sinkFunc) Emit(ev Event) { f(ev) }
