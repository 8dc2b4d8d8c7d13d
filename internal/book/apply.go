package book

import "github.com/rishav/fillsim/internal/domain"

// ApplyEvent applies one decoded book event to the book and reports what,
// if anything, the driver should dispatch downstream: a synthesized
// PublicFill (from execute/execute-at-price), and/or a synthesized BookTop
// if the top of book changed as a result.
//
// session_event and hidden_trade are read but never acted upon, matching
// the source system; a future extension may trigger public-fill dispatch
// for hidden_trade.
func (r *Reconstructor) ApplyEvent(ev domain.BookEvent) (fill *domain.PublicFill, top *domain.BookTop) {
	before := r.Signature()
	ts, seq := ev.Header.Ts, ev.Header.SeqNo

	switch ev.Header.Type {
	case domain.BookEventAdd:
		p := ev.Add
		r.AddOrder(p.Price, p.OrderID, p.Qty, p.IsBid, ts)
	case domain.BookEventDelete:
		r.DeleteOrder(ev.Delete.OrderID)
	case domain.BookEventReplace:
		p := ev.Replace
		r.ReplaceOrder(p.OrigID, p.NewID, p.Price, p.Qty, ts)
	case domain.BookEventAmend:
		p := ev.Amend
		r.AmendOrder(p.OrderID, p.NewQty, ts)
	case domain.BookEventReduce:
		p := ev.Reduce
		r.ReduceOrder(p.OrderID, p.CxledQty, ts)
	case domain.BookEventExecute:
		p := ev.Execute
		if f, ok := r.ExecuteOrder(p.OrderID, p.TradedQty, p.ExecID, ts, seq); ok {
			fill = &f
		}
	case domain.BookEventExecuteAtPrice:
		p := ev.ExecAt
		if f, ok := r.ExecuteOrderAtPrice(p.OrderID, p.TradedQty, p.ExecID, p.ExecPrice, ts, seq); ok {
			fill = &f
		}
	case domain.BookEventClear:
		r.Clear()
	case domain.BookEventSession, domain.BookEventHiddenTrade:
		// Consumed but inert, matching source behavior.
	}

	if r.TopChanged(before) {
		t := r.BuildTop(ts, seq)
		top = &t
	}
	return fill, top
}
