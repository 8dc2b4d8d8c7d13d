package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// S5 from the testable-properties scenarios: add bid, add ask, execute
// against the bid, and check the synthesized top and fill.
func TestScenarioS5(t *testing.T) {
	r := NewReconstructor()

	fill, top := r.ApplyEvent(domain.BookEvent{
		Header: domain.BookEventHeader{Ts: 1, SeqNo: 1, Type: domain.BookEventAdd},
		Add:    &domain.AddOrderPayload{Price: 99, OrderID: 1, Qty: 5, IsBid: true},
	})
	assert.Nil(t, fill)
	require.NotNil(t, top) // the first bid is a new best, so the top changes; the ask side still holds its sentinel
	assert.Equal(t, quant.Price(99), top.TopLevel.BidPrice)
	assert.Equal(t, quant.NoAskPrice, top.TopLevel.AskPrice)

	fill, top = r.ApplyEvent(domain.BookEvent{
		Header: domain.BookEventHeader{Ts: 2, SeqNo: 2, Type: domain.BookEventAdd},
		Add:    &domain.AddOrderPayload{Price: 101, OrderID: 2, Qty: 5, IsBid: false},
	})
	assert.Nil(t, fill)
	require.NotNil(t, top)
	assert.Equal(t, quant.Price(99), top.TopLevel.BidPrice)
	assert.Equal(t, quant.Price(101), top.TopLevel.AskPrice)

	fill, top = r.ApplyEvent(domain.BookEvent{
		Header:  domain.BookEventHeader{Ts: 3, SeqNo: 3, Type: domain.BookEventExecute},
		Execute: &domain.ExecuteOrderPayload{OrderID: 1, TradedQty: 3, ExecID: 999},
	})
	require.NotNil(t, fill)
	assert.Equal(t, quant.Price(99), fill.TradePrice)
	assert.Equal(t, quant.Qty(3), fill.TradeQty)
	assert.True(t, fill.RestingSideIsBid)
	require.NotNil(t, top) // id=1 is still best bid at 99, but the drained quantity at the best level changes the top
	assert.Equal(t, quant.Price(99), top.TopLevel.BidPrice)
	assert.Equal(t, quant.Qty(2), top.TopLevel.BidQty)

	loc := r.orders[1]
	require.NotNil(t, loc)
	assert.Equal(t, quant.Qty(2), loc.entry.Qty)
}

// Open Question 1: REPLACE's side inference. If the original order is no
// longer present, infer side from sign of the new price (matching source
// behavior); if present, preserve its stored side regardless of new price.
func TestReplaceSideInference(t *testing.T) {
	r := NewReconstructor()
	r.AddOrder(100, 1, 10, true, 1) // bid at 100

	// Original present: side is preserved even though callers never pass a
	// sign that would contradict it in practice.
	r.ReplaceOrder(1, 2, 105, 10, 2)
	loc, ok := r.orders[2]
	require.True(t, ok)
	assert.True(t, loc.isBid)
	_, stillThere := r.orders[1]
	assert.False(t, stillThere)

	// Original absent: side inferred from price sign.
	r.ReplaceOrder(999, 3, 50, 5, 3)
	loc, ok = r.orders[3]
	require.True(t, ok)
	assert.True(t, loc.isBid)
}

func TestAmendPreservesQueuePosition(t *testing.T) {
	r := NewReconstructor()
	r.AddOrder(100, 1, 10, true, 1)
	r.AddOrder(100, 2, 10, true, 2)

	r.AmendOrder(1, 20, 3)

	level := r.bids.Get(100)
	require.NotNil(t, level)
	assert.Equal(t, uint64(1), level.Head().OrderID) // still first in queue
	assert.Equal(t, int64(30), level.TotalQty)
}

func TestReduceOrderRemovesEmptiedEntry(t *testing.T) {
	r := NewReconstructor()
	r.AddOrder(100, 1, 10, true, 1)

	ok := r.ReduceOrder(1, 10, 2)
	require.True(t, ok)
	_, stillThere := r.orders[1]
	assert.False(t, stillThere)
	assert.Nil(t, r.bids.Get(100))
}

func TestDeleteOrderNotFound(t *testing.T) {
	r := NewReconstructor()
	assert.False(t, r.DeleteOrder(42))
}

func TestClearBook(t *testing.T) {
	r := NewReconstructor()
	r.AddOrder(100, 1, 10, true, 1)
	r.AddOrder(101, 2, 10, false, 2)
	r.Clear()
	assert.Equal(t, 0, r.bids.Size())
	assert.Equal(t, 0, r.asks.Size())
	assert.Len(t, r.orders, 0)
}
