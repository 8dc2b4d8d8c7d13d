package domain

import "github.com/rishav/fillsim/pkg/quant"

// BookEventType tags a primitive book-event payload.
type BookEventType uint8

const (
	BookEventAdd               BookEventType = 1
	BookEventDelete            BookEventType = 2
	BookEventReplace           BookEventType = 3
	BookEventAmend             BookEventType = 4
	BookEventReduce            BookEventType = 5
	BookEventExecute           BookEventType = 6
	BookEventExecuteAtPrice    BookEventType = 7
	BookEventClear             BookEventType = 8
	BookEventSession           BookEventType = 9
	BookEventHiddenTrade       BookEventType = 10
)

// BookEventHeader precedes every book-event payload.
type BookEventHeader struct {
	Ts     quant.Timestamp
	SeqNo  uint64
	Type   BookEventType
}

// AddOrderPayload is the payload for BookEventAdd.
type AddOrderPayload struct {
	Price   quant.Price
	OrderID uint64
	Qty     quant.Qty
	IsBid   bool
}

// DeleteOrderPayload is the payload for BookEventDelete.
type DeleteOrderPayload struct {
	OrderID uint64
}

// ReplaceOrderPayload is the payload for BookEventReplace.
type ReplaceOrderPayload struct {
	Price  quant.Price
	OrigID uint64
	NewID  uint64
	Qty    quant.Qty
}

// AmendOrderPayload is the payload for BookEventAmend.
type AmendOrderPayload struct {
	OrderID uint64
	NewQty  quant.Qty
}

// ReduceOrderPayload is the payload for BookEventReduce.
type ReduceOrderPayload struct {
	OrderID  uint64
	CxledQty quant.Qty
}

// ExecuteOrderPayload is the payload for BookEventExecute.
type ExecuteOrderPayload struct {
	OrderID   uint64
	TradedQty quant.Qty
	ExecID    uint64
}

// ExecuteOrderAtPricePayload is the payload for BookEventExecuteAtPrice.
type ExecuteOrderAtPricePayload struct {
	OrderID   uint64
	TradedQty quant.Qty
	ExecID    uint64
	ExecPrice quant.Price
}

// SessionEventPayload is the payload for BookEventSession.
type SessionEventPayload struct {
	AllowCrossedBook bool
}

// HiddenTradePayload is the payload for BookEventHiddenTrade.
type HiddenTradePayload struct {
	FillPrice     quant.Price
	RestingID     uint64
	FillQty       quant.Qty
	RestingIsBid  bool
	ExecID        uint64
}

// BookEvent is a decoded book-event header plus its typed payload. Exactly
// one of the payload fields is non-nil, matching Header.Type. ClearBook
// carries no payload.
type BookEvent struct {
	Header  BookEventHeader
	Add     *AddOrderPayload
	Delete  *DeleteOrderPayload
	Replace *ReplaceOrderPayload
	Amend   *AmendOrderPayload
	Reduce  *ReduceOrderPayload
	Execute *ExecuteOrderPayload
	ExecAt  *ExecuteOrderAtPricePayload
	Session *SessionEventPayload
	Hidden  *HiddenTradePayload
}
