package book

import (
	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// orderLoc is the OrderMap entry: where a live order sits in the book.
type orderLoc struct {
	entry *queueEntry
	isBid bool
	price int64
}

// Reconstructor maintains a limit order book from a primitive book-event
// stream and synthesizes top-of-book snapshots and public fills on demand.
//
// Two rbTrees (bids descending, asks ascending) mirror the teacher's
// two-sided order book; an order-id map gives O(1) lookup for delete,
// amend, reduce, and execute, which only ever arrive keyed by order id.
type Reconstructor struct {
	bids   *rbTree
	asks   *rbTree
	orders map[uint64]*orderLoc
	nextSeq uint64
}

// NewReconstructor creates an empty book.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		bids:   newRBTree(true),
		asks:   newRBTree(false),
		orders: make(map[uint64]*orderLoc),
	}
}

func (r *Reconstructor) tree(isBid bool) *rbTree {
	if isBid {
		return r.bids
	}
	return r.asks
}

// bestLevel returns the best price and quantity on a side, or the sentinel
// (0 for bids, NoAskPrice for asks) with zero quantity if the side is empty.
func (r *Reconstructor) bestLevel(isBid bool) (quant.Price, quant.Qty) {
	level := r.tree(isBid).Min()
	if level == nil {
		if isBid {
			return 0, 0
		}
		return quant.NoAskPrice, 0
	}
	return quant.Price(level.Price), quant.Qty(level.TotalQty)
}

// topSignature captures the best bid/ask of both sides, used to detect
// whether an event changed the top of book.
type topSignature struct {
	bidPx, askPx quant.Price
	bidQty, askQty quant.Qty
}

func (r *Reconstructor) signature() topSignature {
	bidPx, bidQty := r.bestLevel(true)
	askPx, askQty := r.bestLevel(false)
	return topSignature{bidPx, askPx, bidQty, askQty}
}

// AddOrder inserts a new resting order.
func (r *Reconstructor) AddOrder(price quant.Price, id uint64, qty quant.Qty, isBid bool, ts quant.Timestamp) {
	tree := r.tree(isBid)
	level := tree.Get(int64(price))
	if level == nil {
		level = newPriceLevel(int64(price))
		tree.Insert(level)
	}
	e := &queueEntry{OrderID: id, Qty: qty, LastUpdateTs: ts}
	level.Append(e)
	r.orders[id] = &orderLoc{entry: e, isBid: isBid, price: int64(price)}
}

// DeleteOrder removes an order entirely. Returns false if the order was
// not found (the caller should treat this as a semantic warning).
func (r *Reconstructor) DeleteOrder(id uint64) bool {
	loc, ok := r.orders[id]
	if !ok {
		return false
	}
	r.removeEntry(loc)
	return true
}

func (r *Reconstructor) removeEntry(loc *orderLoc) {
	tree := r.tree(loc.isBid)
	level := tree.Get(loc.price)
	if level == nil {
		delete(r.orders, loc.entry.OrderID)
		return
	}
	level.Remove(loc.entry)
	if level.IsEmpty() {
		tree.Delete(loc.price)
	}
	delete(r.orders, loc.entry.OrderID)
}

// ReplaceOrder deletes origID (if present) and inserts newID at newPrice
// with the same side as the original. If the original was not found, the
// side is inferred from whether newPrice is positive, matching the
// behavior the original source exhibits when it reads the stale map entry
// after erasing it — see the side-inference regression test.
func (r *Reconstructor) ReplaceOrder(origID, newID uint64, newPrice quant.Price, newQty quant.Qty, ts quant.Timestamp) {
	isBid := newPrice > 0
	if loc, ok := r.orders[origID]; ok {
		isBid = loc.isBid
		r.removeEntry(loc)
	}
	r.AddOrder(newPrice, newID, newQty, isBid, ts)
}

// AmendOrder sets a resting entry's quantity in place. The queue position
// is preserved: amend is not a re-queue.
func (r *Reconstructor) AmendOrder(id uint64, newQty quant.Qty, ts quant.Timestamp) bool {
	loc, ok := r.orders[id]
	if !ok {
		return false
	}
	tree := r.tree(loc.isBid)
	level := tree.Get(loc.price)
	if level == nil {
		return false
	}
	level.SetQty(loc.entry, newQty)
	loc.entry.LastUpdateTs = ts
	return true
}

// ReduceOrder subtracts cxledQty from a resting entry. If the entry's
// remaining quantity reaches zero it (and an emptied level) is removed.
func (r *Reconstructor) ReduceOrder(id uint64, cxledQty quant.Qty, ts quant.Timestamp) bool {
	loc, ok := r.orders[id]
	if !ok {
		return false
	}
	tree := r.tree(loc.isBid)
	level := tree.Get(loc.price)
	if level == nil {
		return false
	}
	remaining := int64(loc.entry.Qty) - int64(cxledQty)
	if remaining <= 0 {
		r.removeEntry(loc)
		return true
	}
	level.SetQty(loc.entry, quant.Qty(remaining))
	loc.entry.LastUpdateTs = ts
	return true
}

// ExecuteOrder synthesizes a PublicFill against a resting order's stored
// price, then debits tradedQty from the entry (and removes it, plus an
// emptied level, if fully drained). Returns (fill, ok); ok is false if the
// order was not found.
func (r *Reconstructor) ExecuteOrder(id uint64, tradedQty quant.Qty, execID uint64, ts quant.Timestamp, seqNo uint64) (domain.PublicFill, bool) {
	loc, ok := r.orders[id]
	if !ok {
		return domain.PublicFill{}, false
	}
	return r.execute(loc, quant.Price(loc.price), tradedQty, execID, ts, seqNo), true
}

// ExecuteOrderAtPrice is the same as ExecuteOrder but the trade price is
// given explicitly rather than taken from the resting order.
func (r *Reconstructor) ExecuteOrderAtPrice(id uint64, tradedQty quant.Qty, execID uint64, execPrice quant.Price, ts quant.Timestamp, seqNo uint64) (domain.PublicFill, bool) {
	loc, ok := r.orders[id]
	if !ok {
		return domain.PublicFill{}, false
	}
	return r.execute(loc, execPrice, tradedQty, execID, ts, seqNo), true
}

func (r *Reconstructor) execute(loc *orderLoc, tradePrice quant.Price, tradedQty quant.Qty, execID uint64, ts quant.Timestamp, seqNo uint64) domain.PublicFill {
	originalQty := loc.entry.Qty
	opposingPx, opposingQty := r.bestLevel(!loc.isBid)

	fill := domain.PublicFill{
		Ts:                   ts,
		Seqno:                seqNo,
		RestingOrderID:       loc.entry.OrderID,
		TradePrice:           tradePrice,
		TradeQty:             tradedQty,
		ExecutionID:          execID,
		RestingOriginalQty:   originalQty,
		RestingSideIsBid:     loc.isBid,
		RestingSidePrice:     quant.Price(loc.price),
		RestingSideQty:       quant.Qty(0),
		OpposingSidePrice:    opposingPx,
		OpposingSideQty:      opposingQty,
		RestingLastUpdateTs:  loc.entry.LastUpdateTs,
	}

	tree := r.tree(loc.isBid)
	level := tree.Get(loc.price)
	if level != nil {
		fill.RestingSideQty = quant.Qty(level.TotalQty)
		remaining := int64(loc.entry.Qty) - int64(tradedQty)
		if remaining <= 0 {
			r.removeEntry(loc)
			fill.RestingRemainingQty = 0
		} else {
			level.SetQty(loc.entry, quant.Qty(remaining))
			loc.entry.LastUpdateTs = ts
			fill.RestingRemainingQty = quant.Qty(remaining)
		}
	}
	return fill
}

// Clear empties both sides and the order map.
func (r *Reconstructor) Clear() {
	r.bids = newRBTree(true)
	r.asks = newRBTree(false)
	r.orders = make(map[uint64]*orderLoc)
}

// BuildTop synthesizes a BookTop from the current book state, stamped with
// the triggering event's timestamp and sequence number. Any level a side
// cannot fill, the top level of an empty side included, gets the sentinel
// 0 (bid) or NoAskPrice (ask) with zero quantity.
func (r *Reconstructor) BuildTop(ts quant.Timestamp, seqNo uint64) domain.BookTop {
	levels := r.depthLevels(3)
	return domain.BookTop{
		Ts:          ts,
		Seqno:       seqNo,
		TopLevel:    levels[0],
		SecondLevel: levels[1],
		ThirdLevel:  levels[2],
	}
}

func (r *Reconstructor) depthLevels(n int) []domain.BookTopLevel {
	bidPx, bidQty := r.depthAt(r.bids, n)
	askPx, askQty := r.depthAt(r.asks, n)
	out := make([]domain.BookTopLevel, n)
	for i := 0; i < n; i++ {
		bp, bq := sentinelBid(), quant.Qty(0)
		if i < len(bidPx) {
			bp, bq = bidPx[i], bidQty[i]
		}
		ap, aq := quant.NoAskPrice, quant.Qty(0)
		if i < len(askPx) {
			ap, aq = askPx[i], askQty[i]
		}
		out[i] = domain.BookTopLevel{BidPrice: bp, AskPrice: ap, BidQty: bq, AskQty: aq}
	}
	return out
}

func sentinelBid() quant.Price { return 0 }

func (r *Reconstructor) depthAt(tree *rbTree, n int) ([]quant.Price, []quant.Qty) {
	prices := make([]quant.Price, 0, n)
	qtys := make([]quant.Qty, 0, n)
	tree.ForEach(func(l *priceLevel) bool {
		prices = append(prices, quant.Price(l.Price))
		qtys = append(qtys, quant.Qty(l.TotalQty))
		return len(prices) < n
	})
	return prices, qtys
}

// TopChanged compares a signature captured before an event to the book's
// current state, reporting whether the top of book changed.
func (r *Reconstructor) TopChanged(before topSignature) bool {
	return r.signature() != before
}

// Signature captures the current best bid/ask for later comparison via
// TopChanged.
func (r *Reconstructor) Signature() topSignature {
	return r.signature()
}
