// Package book implements the limit order book reconstructor: a pair of
// price-ordered sides, each holding per-price FIFO queues of resting book
// entries, plus an order-id index for O(1) lookup.
package book

import "github.com/rishav/fillsim/pkg/quant"

// queueEntry is one resting order inside a priceLevel's FIFO.
type queueEntry struct {
	OrderID      uint64
	Qty          quant.Qty
	LastUpdateTs quant.Timestamp

	prev  *queueEntry
	next  *queueEntry
	level *priceLevel
}

// priceLevel holds all resting entries at a single price, in arrival order.
// TotalQty is maintained incrementally so depth queries never walk the
// queue.
type priceLevel struct {
	Price    int64
	head     *queueEntry
	tail     *queueEntry
	count    int
	TotalQty int64
}

func newPriceLevel(price int64) *priceLevel {
	return &priceLevel{Price: price}
}

func (pl *priceLevel) IsEmpty() bool {
	return pl.count == 0
}

func (pl *priceLevel) Head() *queueEntry {
	return pl.head
}

// Append adds an entry to the tail of the queue (lowest priority at this
// price). O(1).
func (pl *priceLevel) Append(e *queueEntry) {
	e.level = pl
	if pl.tail == nil {
		pl.head = e
		pl.tail = e
	} else {
		e.prev = pl.tail
		pl.tail.next = e
		pl.tail = e
	}
	pl.count++
	pl.TotalQty += int64(e.Qty)
}

// Remove removes an entry from the queue. O(1).
func (pl *priceLevel) Remove(e *queueEntry) {
	if e == nil {
		return
	}
	pl.TotalQty -= int64(e.Qty)
	pl.count--

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		pl.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		pl.tail = e.prev
	}

	e.prev = nil
	e.next = nil
	e.level = nil
}

// SetQty adjusts an entry's quantity in place, preserving its queue
// position, and updates the level total by the signed delta.
func (pl *priceLevel) SetQty(e *queueEntry, newQty quant.Qty) {
	delta := int64(newQty) - int64(e.Qty)
	e.Qty = newQty
	pl.TotalQty += delta
}
