package domain

import "github.com/rishav/fillsim/pkg/quant"

// BookTopLevel is one depth level of a top-of-book snapshot.
type BookTopLevel struct {
	BidPrice quant.Price
	AskPrice quant.Price
	BidQty   quant.Qty
	AskQty   quant.Qty
}

// BookTop is a three-level top-of-book snapshot. Only TopLevel is guaranteed
// valid; SecondLevel/ThirdLevel are best-effort and may be sentinel-filled.
type BookTop struct {
	Ts          quant.Timestamp
	Seqno       uint64
	TopLevel    BookTopLevel
	SecondLevel BookTopLevel
	ThirdLevel  BookTopLevel
}

// Valid reports whether the top level satisfies the delivery invariant:
// 0 < bid < ask <= MaxReasonablePrice.
func (b BookTop) Valid() bool {
	bid, ask := b.TopLevel.BidPrice, b.TopLevel.AskPrice
	if bid <= 0 || ask <= 0 {
		return false
	}
	if bid >= ask {
		return false
	}
	if bid > quant.MaxReasonablePrice || ask > quant.MaxReasonablePrice {
		return false
	}
	return true
}

// Mid returns the integer-division midpoint of the top level.
func (b BookTop) Mid() quant.Price {
	return quant.Mid(b.TopLevel.BidPrice, b.TopLevel.AskPrice)
}

// PublicFill is an observed or synthesized public trade on the tape,
// distinct from a fill of one of the simulator's own orders. Most fields
// are opaque to the matcher except for timestamps and the resting side.
type PublicFill struct {
	Ts                   quant.Timestamp
	Seqno                uint64
	RestingOrderID       uint64
	WasHidden            bool
	TradePrice           quant.Price
	TradeQty             quant.Qty
	ExecutionID          uint64
	RestingOriginalQty   quant.Qty
	RestingRemainingQty  quant.Qty
	RestingLastUpdateTs  quant.Timestamp
	RestingSideIsBid     bool
	RestingSidePrice     quant.Price
	RestingSideQty       quant.Qty
	OpposingSidePrice    quant.Price
	OpposingSideQty      quant.Qty
	RestingSideNumOrders uint32
}
