package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/internal/latency"
	"github.com/rishav/fillsim/internal/market"
	"github.com/rishav/fillsim/pkg/quant"
)

// nullStrategy never returns follow-up actions; tests drive ProcessAction
// directly and only need OnOrderFilled to satisfy the strategy.Strategy
// interface.
type nullStrategy struct{}

func (nullStrategy) OnBookTopUpdate(domain.BookTop) []domain.OrderAction { return nil }
func (nullStrategy) OnPublicFill(domain.PublicFill) []domain.OrderAction { return nil }
func (nullStrategy) OnOrderFilled(uint64, quant.Price, quant.Qty, bool) []domain.OrderAction {
	return nil
}
func (nullStrategy) SetSymbolID(uint64) {}
func (nullStrategy) Name() string       { return "null" }

type recordingWriter struct {
	records []domain.OrderRecord
}

func (rw *recordingWriter) Write(rec domain.OrderRecord) error {
	rw.records = append(rw.records, rec)
	return nil
}

func setup(t *testing.T) (*Matcher, *market.State, *recordingWriter) {
	mkt := market.New()
	lat := latency.New(0, 0)
	w := &recordingWriter{}
	m := New(mkt, lat, nullStrategy{}, w, nil)
	return m, mkt, w
}

// S1: ADD at 100 with top 99/101 does not fill.
func TestScenarioS1NoFill(t *testing.T) {
	m, mkt, w := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1_000_000, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 101}}))

	m.ProcessAction(domain.OrderAction{
		Type: domain.ActionAdd, OrderID: 1, Price: 100, Quantity: 10, IsBid: true, MdTs: 1_000_000,
	})

	require.Len(t, w.records, 1)
	assert.Equal(t, domain.EventAdd, w.records[0].EventType)
	assert.Equal(t, quant.Timestamp(1_000_000), w.records[0].Timestamp)
	_, active := m.ActiveOrder(1)
	assert.True(t, active)
}

// S2: ADD at 101 (crossing, not post-only) fills immediately.
func TestScenarioS2ImmediateFill(t *testing.T) {
	m, mkt, w := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1_000_000, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 101}}))

	m.ProcessAction(domain.OrderAction{
		Type: domain.ActionAdd, OrderID: 1, Price: 101, Quantity: 10, IsBid: true, MdTs: 1_000_000,
	})

	require.Len(t, w.records, 2)
	assert.Equal(t, domain.EventAdd, w.records[0].EventType)
	assert.Equal(t, domain.EventFill, w.records[1].EventType)
	assert.Equal(t, quant.Price(101), w.records[1].Price)
	assert.Equal(t, quant.Qty(10), w.records[1].Quantity)
	assert.Equal(t, int64(10), m.Position)
	assert.Equal(t, int64(-101*10), m.CashFlow)
	_, active := m.ActiveOrder(1)
	assert.False(t, active)
}

// S3: same as S2 but post-only: auto-cancel, no fill, no position change.
func TestScenarioS3PostOnlyAutoCancel(t *testing.T) {
	m, mkt, w := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1_000_000, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 101}}))

	m.ProcessAction(domain.OrderAction{
		Type: domain.ActionAdd, OrderID: 1, Price: 101, Quantity: 10, IsBid: true, IsPostOnly: true, MdTs: 1_000_000,
	})

	require.Len(t, w.records, 2)
	assert.Equal(t, domain.EventAdd, w.records[0].EventType)
	assert.Equal(t, domain.EventCancel, w.records[1].EventType)
	assert.Equal(t, int64(0), m.Position)
	assert.Equal(t, uint64(0), m.OrdersFilled)
	_, active := m.ActiveOrder(1)
	assert.False(t, active)
}

// S6: two resting bids at px=100 both fill in the same dispatch when an
// ask of 100 arrives, via the re-evaluation pass.
func TestScenarioS6ReevaluationFillsBoth(t *testing.T) {
	m, mkt, w := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1, TopLevel: domain.BookTopLevel{BidPrice: 90, AskPrice: 200}}))

	m.ProcessAction(domain.OrderAction{Type: domain.ActionAdd, OrderID: 1, Price: 100, Quantity: 1, IsBid: true, MdTs: 1})
	m.ProcessAction(domain.OrderAction{Type: domain.ActionAdd, OrderID: 2, Price: 100, Quantity: 1, IsBid: true, MdTs: 1})
	w.records = nil // discard the two ADD records, only care about the fills below

	require.True(t, mkt.Accept(domain.BookTop{Ts: 200_000, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 100}}))
	m.Reevaluate()

	fillCount := 0
	for _, r := range w.records {
		if r.EventType == domain.EventFill {
			fillCount++
			assert.Equal(t, quant.Price(100), r.Price)
		}
	}
	assert.Equal(t, 2, fillCount)
	assert.Equal(t, int64(2), m.Position)
	assert.Equal(t, 0, m.ActiveCount())
}

func TestCancelUnknownOrderIsNonFatal(t *testing.T) {
	m, _, w := setup(t)
	m.ProcessAction(domain.OrderAction{Type: domain.ActionCancel, OrderID: 42})
	assert.Empty(t, w.records)
}

func TestReplaceWritesOldAndNewFields(t *testing.T) {
	m, mkt, w := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1, TopLevel: domain.BookTopLevel{BidPrice: 50, AskPrice: 200}}))
	m.ProcessAction(domain.OrderAction{Type: domain.ActionAdd, OrderID: 1, Price: 100, Quantity: 5, IsBid: true, MdTs: 1})
	w.records = nil

	m.ProcessAction(domain.OrderAction{Type: domain.ActionReplace, OrderID: 1, Price: 110, Quantity: 7, MdTs: 2})

	require.Len(t, w.records, 1)
	rec := w.records[0]
	assert.Equal(t, domain.EventReplace, rec.EventType)
	assert.Equal(t, quant.Price(100), rec.OldPrice)
	assert.Equal(t, quant.Price(110), rec.Price)
	assert.Equal(t, quant.Qty(5), rec.OldQuantity)
	assert.Equal(t, quant.Qty(7), rec.Quantity)
}

// Invariant 1 & 5: filled_qty never exceeds quantity, and a fully filled
// order leaves the active set.
func TestInvariantFilledQtyNeverExceedsQuantity(t *testing.T) {
	m, mkt, _ := setup(t)
	require.True(t, mkt.Accept(domain.BookTop{Ts: 1, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 100}}))
	m.ProcessAction(domain.OrderAction{Type: domain.ActionAdd, OrderID: 1, Price: 100, Quantity: 3, IsBid: true, MdTs: 1})
	_, active := m.ActiveOrder(1)
	assert.False(t, active) // fully filled immediately, so removed
	assert.Equal(t, uint64(1), m.OrdersFilled)
}
