// Package matcher implements the order manager / matcher (C6): it tracks
// the simulator's own open orders, decides whether they fill against the
// reconstructed market, applies ADD/CANCEL/REPLACE, writes lifecycle
// records, and maintains the position and cash-flow accumulators.
//
// Matching is not a real exchange: it only ever checks the simulator's
// resting orders against the top of book, never against book depth, which
// mirrors the single-threaded LMAX-style determinism of the teacher's
// matching engine — one thread of execution, no locks, replayable from the
// event log.
package matcher

import (
	"log/slog"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/internal/latency"
	"github.com/rishav/fillsim/internal/market"
	"github.com/rishav/fillsim/internal/strategy"
	"github.com/rishav/fillsim/pkg/quant"
	"github.com/rishav/fillsim/pkg/safe"
)

// RecordWriter is the narrow interface C8 exposes to the matcher.
type RecordWriter interface {
	Write(rec domain.OrderRecord) error
}

// Matcher is the driver's C6: the active-order set plus the running P&L
// and lifecycle counters.
type Matcher struct {
	active map[uint64]*domain.OrderInfo

	market *market.State
	lat    *latency.Model
	strat  strategy.Strategy
	w      RecordWriter
	log    *slog.Logger

	Position  int64
	CashFlow  int64

	OrdersPlaced    uint64
	OrdersFilled    uint64
	TotalBuyVolume  uint64
	TotalSellVolume uint64
}

// New creates a Matcher wired to the given market state, latency model,
// strategy, and output record writer.
func New(mkt *market.State, lat *latency.Model, strat strategy.Strategy, w RecordWriter, log *slog.Logger) *Matcher {
	if log == nil {
		log = slog.Default()
	}
	return &Matcher{
		active: make(map[uint64]*domain.OrderInfo),
		market: mkt,
		lat:    lat,
		strat:  strat,
		w:      w,
		log:    log,
	}
}

// WouldFill reports whether an order at price/qty would immediately cross
// the market, per the matcher's top-of-book-only matching policy.
func (m *Matcher) WouldFill(isBid bool, price quant.Price, qty quant.Qty) bool {
	if price <= 0 || qty <= 0 {
		return false
	}
	if isBid {
		ask := m.market.BestAsk()
		return ask.Valid() && price >= ask
	}
	bid := m.market.BestBid()
	return bid.Valid() && price <= bid
}

func (m *Matcher) write(rec domain.OrderRecord) {
	if err := m.w.Write(rec); err != nil {
		m.log.Error("write order record failed", "err", err, "order_id", rec.OrderID)
	}
}

// ProcessAction applies one OrderAction (already latency-stamped) to the
// active-order set, writing the resulting lifecycle record(s) and running
// the would_fill / post-only check that ADD and REPLACE share.
func (m *Matcher) ProcessAction(action domain.OrderAction) {
	switch action.Type {
	case domain.ActionAdd:
		m.processAdd(action)
	case domain.ActionCancel:
		m.processCancel(action)
	case domain.ActionReplace:
		m.processReplace(action)
	}
}

func (m *Matcher) processAdd(action domain.OrderAction) {
	order := &domain.OrderInfo{
		OrderID:    action.OrderID,
		SymbolID:   action.SymbolID,
		SentTs:     action.SentTs,
		MdTs:       action.MdTs,
		Price:      action.Price,
		Quantity:   action.Quantity,
		IsBid:      action.IsBid,
		IsPostOnly: action.IsPostOnly,
	}
	m.active[order.OrderID] = order
	m.write(domain.OrderRecord{
		Timestamp: action.MdTs,
		EventType: domain.EventAdd,
		OrderID:   order.OrderID,
		SymbolID:  uint32(order.SymbolID),
		Price:     order.Price,
		Quantity:  order.Quantity,
		IsBid:     order.IsBid,
	})
	m.OrdersPlaced++

	m.tryImmediateFill(order, action.MdTs)
}

// tryImmediateFill runs the would_fill / post-only-cancel logic ADD and
// REPLACE both apply right after the order enters the active set.
func (m *Matcher) tryImmediateFill(order *domain.OrderInfo, mdTs quant.Timestamp) {
	if !m.WouldFill(order.IsBid, order.Price, order.RemainingQty()) {
		return
	}

	if order.IsPostOnly {
		delete(m.active, order.OrderID)
		m.write(domain.OrderRecord{
			Timestamp: mdTs,
			EventType: domain.EventCancel,
			OrderID:   order.OrderID,
			SymbolID:  uint32(order.SymbolID),
			Price:     order.Price,
			Quantity:  order.Quantity,
			IsBid:     order.IsBid,
		})
		return
	}

	fillPrice := m.opposingTopPrice(order.IsBid)
	fillNotificationTs := m.lat.FillNotificationTs(mdTs)
	m.processFill(order.OrderID, fillPrice, order.RemainingQty(), order.IsBid, fillNotificationTs)
}

// opposingTopPrice is the price a fill against the top of book executes
// at: the ask for a bid, the bid for an ask.
func (m *Matcher) opposingTopPrice(isBid bool) quant.Price {
	if isBid {
		return m.market.BestAsk()
	}
	return m.market.BestBid()
}

func (m *Matcher) processCancel(action domain.OrderAction) {
	order, ok := m.active[action.OrderID]
	if !ok {
		m.log.Warn("cancel of unknown order", "order_id", action.OrderID)
		return
	}
	delete(m.active, action.OrderID)
	m.write(domain.OrderRecord{
		Timestamp: action.MdTs,
		EventType: domain.EventCancel,
		OrderID:   order.OrderID,
		SymbolID:  uint32(order.SymbolID),
		Price:     order.Price,
		Quantity:  order.Quantity,
		IsBid:     order.IsBid,
	})
}

func (m *Matcher) processReplace(action domain.OrderAction) {
	order, ok := m.active[action.OrderID]
	if !ok {
		m.log.Warn("replace of unknown order", "order_id", action.OrderID)
		return
	}

	oldPrice, oldQty := order.Price, order.Quantity
	m.write(domain.OrderRecord{
		Timestamp:   action.MdTs,
		EventType:   domain.EventReplace,
		OrderID:     order.OrderID,
		SymbolID:    uint32(order.SymbolID),
		Price:       action.Price,
		OldPrice:    oldPrice,
		Quantity:    action.Quantity,
		OldQuantity: oldQty,
		IsBid:       order.IsBid,
	})

	order.Price = action.Price
	order.Quantity = action.Quantity
	if action.SentTs != 0 {
		order.SentTs = action.SentTs
	}
	if action.MdTs != 0 {
		order.MdTs = action.MdTs
	}

	m.tryImmediateFill(order, action.MdTs)
}

// processFill applies one fill to an active order: validates it, writes the
// lifecycle record, updates position/cash-flow, and invokes the strategy's
// on_order_filled callback, processing any actions it returns.
func (m *Matcher) processFill(orderID uint64, fillPrice quant.Price, fillQty quant.Qty, isBid bool, fillNotificationTs quant.Timestamp) {
	order, ok := m.active[orderID]
	if !ok {
		m.log.Warn("fill of unknown order", "order_id", orderID)
		return
	}
	if !fillPrice.Valid() || fillQty <= 0 {
		m.log.Warn("invalid fill", "order_id", orderID, "price", fillPrice, "qty", fillQty)
		return
	}
	if fillNotificationTs == 0 {
		fillNotificationTs = m.market.LastBookTop.Ts + m.lat.ExchLatencyNS
	}

	order.FilledQty += fillQty
	fullyFilled := order.FullyFilled()

	m.write(domain.OrderRecord{
		Timestamp: fillNotificationTs,
		EventType: domain.EventFill,
		OrderID:   orderID,
		SymbolID:  uint32(order.SymbolID),
		Price:     fillPrice,
		Quantity:  fillQty,
		IsBid:     isBid,
	})

	notional := quant.Notional(fillPrice, fillQty)
	if isBid {
		m.Position = safe.Add(m.Position, int64(fillQty))
		m.CashFlow = safe.Sub(m.CashFlow, notional)
		m.TotalBuyVolume += uint64(fillQty)
	} else {
		m.Position = safe.Sub(m.Position, int64(fillQty))
		m.CashFlow = safe.Add(m.CashFlow, notional)
		m.TotalSellVolume += uint64(fillQty)
	}
	m.OrdersFilled++

	if fullyFilled {
		delete(m.active, orderID)
	}

	actions := m.strat.OnOrderFilled(orderID, fillPrice, fillQty, isBid)
	for _, a := range actions {
		a.SentTs, a.MdTs = m.lat.StampAction(a.SentTs, fillNotificationTs)
		m.ProcessAction(a)
	}
}

// Reevaluate iterates every still-active order and fills whatever now
// crosses the market, after a book update has been dispatched and its
// returned actions processed. The candidate list is snapshotted up front so
// a fill's removal of its own order (or the orders it triggers downstream)
// never invalidates iteration — this does not rely on Go map-iteration
// order remaining stable across mutation, since iteration never resumes
// from a live map range once a mutation has happened.
func (m *Matcher) Reevaluate() {
	candidates := make([]uint64, 0, len(m.active))
	for id := range m.active {
		candidates = append(candidates, id)
	}

	for _, id := range candidates {
		order, ok := m.active[id]
		if !ok {
			continue // removed by an earlier fill in this same pass
		}
		remaining := order.RemainingQty()
		if !m.WouldFill(order.IsBid, order.Price, remaining) {
			continue
		}
		fillPrice := m.opposingTopPrice(order.IsBid)
		fillNotificationTs := m.lat.FillNotificationTs(order.MdTs)
		m.processFill(order.OrderID, fillPrice, remaining, order.IsBid, fillNotificationTs)
	}
}

// ActiveOrder exposes a read-only view of one active order, for tests and
// reporting.
func (m *Matcher) ActiveOrder(id uint64) (domain.OrderInfo, bool) {
	o, ok := m.active[id]
	if !ok {
		return domain.OrderInfo{}, false
	}
	return *o, true
}

// ActiveCount reports how many orders are currently resting.
func (m *Matcher) ActiveCount() int {
	return len(m.active)
}

// FinalPnL is the realized cash flow plus the mark-to-market value of the
// open position at the given final mid price, per the units note in §6:
// Σ ±(fill_price·fill_qty) plus position·final_mid at teardown.
func (m *Matcher) FinalPnL(finalMid quant.Price) int64 {
	return safe.Add(m.CashFlow, safe.Mul(m.Position, int64(finalMid)))
}
