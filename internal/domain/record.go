package domain

import "github.com/rishav/fillsim/pkg/quant"

// EventType tags an OrderRecord's kind in the output stream.
type EventType uint8

const (
	EventAdd     EventType = 1
	EventCancel  EventType = 2
	EventFill    EventType = 3
	EventReplace EventType = 4
)

func (t EventType) String() string {
	switch t {
	case EventAdd:
		return "ADD"
	case EventCancel:
		return "CANCEL"
	case EventFill:
		return "FILL"
	case EventReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// OrderRecord is one lifecycle event of a simulated order, as appended to
// the output stream by the record writer (see internal/wire for the exact
// byte layout). OldPrice/OldQuantity are populated only for EventReplace.
type OrderRecord struct {
	Timestamp   quant.Timestamp
	EventType   EventType
	OrderID     uint64
	SymbolID    uint32
	Price       quant.Price
	OldPrice    quant.Price
	Quantity    quant.Qty
	OldQuantity quant.Qty
	IsBid       bool
}
