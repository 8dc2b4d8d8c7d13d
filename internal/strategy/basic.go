package strategy

import (
	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// Basic is a reference strategy: on every book top it alternates between
// resting a one-lot bid one tick inside the spread and a one-lot ask one
// tick inside the spread, never both at once. It never acts on public
// fills or its own fills.
//
// The buy/sell alternation flag was a process-level static in the source;
// here it is a field on Basic, so two Basic instances never share state.
type Basic struct {
	symbolIdx uint64
	nextID    uint64
	placeBuy  bool
}

// NewBasic creates a Basic strategy starting on the buy side.
func NewBasic() *Basic {
	return &Basic{placeBuy: true}
}

func (b *Basic) Name() string { return "basic" }

func (b *Basic) SetSymbolID(symbolIdx uint64) { b.symbolIdx = symbolIdx }

func (b *Basic) OnBookTopUpdate(top domain.BookTop) []domain.OrderAction {
	bid, ask := top.TopLevel.BidPrice, top.TopLevel.AskPrice
	if !top.Valid() || ask-bid < 2 {
		return nil
	}

	b.nextID++
	action := domain.OrderAction{
		Type:       domain.ActionAdd,
		OrderID:    b.nextID,
		SymbolID:   b.symbolIdx,
		Quantity:   1,
		IsPostOnly: true,
	}
	if b.placeBuy {
		action.IsBid = true
		action.Price = bid + 1
	} else {
		action.IsBid = false
		action.Price = ask - 1
	}
	b.placeBuy = !b.placeBuy

	return []domain.OrderAction{action}
}

func (b *Basic) OnPublicFill(fill domain.PublicFill) []domain.OrderAction {
	return nil
}

func (b *Basic) OnOrderFilled(orderID uint64, fillPrice quant.Price, fillQty quant.Qty, isBid bool) []domain.OrderAction {
	return nil
}
