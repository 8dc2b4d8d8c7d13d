package domain

import "github.com/rishav/fillsim/pkg/quant"

// ActionType is the tagged variant of an OrderAction.
type ActionType int

const (
	ActionAdd ActionType = iota + 1
	ActionCancel
	ActionReplace
)

func (t ActionType) String() string {
	switch t {
	case ActionAdd:
		return "ADD"
	case ActionCancel:
		return "CANCEL"
	case ActionReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// OrderAction is returned by a Strategy callback. Not every field is
// meaningful for every Type: CANCEL only needs OrderID.
type OrderAction struct {
	Type       ActionType
	OrderID    uint64
	SymbolID   uint64
	SentTs     quant.Timestamp
	MdTs       quant.Timestamp
	Price      quant.Price
	Quantity   quant.Qty
	IsBid      bool
	IsPostOnly bool
}

// OrderInfo tracks one of the simulator's own resting orders.
type OrderInfo struct {
	OrderID    uint64
	SymbolID   uint64
	SentTs     quant.Timestamp
	MdTs       quant.Timestamp
	Price      quant.Price
	Quantity   quant.Qty
	FilledQty  quant.Qty
	IsBid      bool
	IsPostOnly bool
}

// RemainingQty returns the quantity not yet filled.
func (o *OrderInfo) RemainingQty() quant.Qty {
	return o.Quantity - o.FilledQty
}

// FullyFilled reports whether the order has no remaining quantity.
func (o *OrderInfo) FullyFilled() bool {
	return o.FilledQty >= o.Quantity
}
