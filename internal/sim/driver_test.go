package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/internal/latency"
	"github.com/rishav/fillsim/internal/wire"
	"github.com/rishav/fillsim/pkg/quant"
)

// oneShotStrategy returns a single ADD on the first book top it sees and
// nothing thereafter, used to exercise the S4 latency-shift scenario
// end-to-end through the driver.
type oneShotStrategy struct {
	fired bool
	price quant.Price
	qty   quant.Qty
	isBid bool
}

func (s *oneShotStrategy) OnBookTopUpdate(top domain.BookTop) []domain.OrderAction {
	if s.fired {
		return nil
	}
	s.fired = true
	return []domain.OrderAction{{Type: domain.ActionAdd, OrderID: 1, Price: s.price, Quantity: s.qty, IsBid: s.isBid}}
}
func (s *oneShotStrategy) OnPublicFill(domain.PublicFill) []domain.OrderAction { return nil }
func (s *oneShotStrategy) OnOrderFilled(uint64, quant.Price, quant.Qty, bool) []domain.OrderAction {
	return nil
}
func (s *oneShotStrategy) SetSymbolID(uint64) {}
func (s *oneShotStrategy) Name() string       { return "one-shot" }

type captureWriter struct {
	records []domain.OrderRecord
}

func (c *captureWriter) Write(rec domain.OrderRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func writeTopsFile(t *testing.T, tops []domain.BookTop) *bytes.Buffer {
	buf := &bytes.Buffer{}
	require.NoError(t, wire.WriteFileHeader(buf, wire.FileHeader{SymbolIdx: 7, Count: uint32(len(tops))}))
	for _, top := range tops {
		b := wire.EncodeBookTop(top)
		buf.Write(b[:])
	}
	return buf
}

func writeFillsFile(t *testing.T, fills []domain.PublicFill) *bytes.Buffer {
	buf := &bytes.Buffer{}
	require.NoError(t, wire.WriteFileHeader(buf, wire.FileHeader{SymbolIdx: 7, Count: uint32(len(fills))}))
	for _, f := range fills {
		b := wire.EncodeFill(f)
		buf.Write(b[:])
	}
	return buf
}

// S4: md_latency_ns=2000, exch_latency_ns=5000. A BookTop at ts=10_000_000
// with an ADD in response stamps the ADD record at 10_000_000+2000+5000.
func TestScenarioS4ThroughDriver(t *testing.T) {
	topsBuf := writeTopsFile(t, []domain.BookTop{
		{Ts: 10_000_000, TopLevel: domain.BookTopLevel{BidPrice: 99, AskPrice: 101}},
	})
	fillsBuf := writeFillsFile(t, nil)

	strat := &oneShotStrategy{price: 100, qty: 1, isBid: true}
	lat := latency.New(2000, 5000)
	w := &captureWriter{}
	d := New(ModeTopsFills, strat, lat, w, nil)

	tr, err := wire.NewTopsReader(topsBuf)
	require.NoError(t, err)
	fr, err := wire.NewFillsReader(fillsBuf)
	require.NoError(t, err)
	d.TopsReader = tr
	d.FillsReader = fr

	require.NoError(t, d.Run())

	require.Len(t, w.records, 1)
	assert.Equal(t, domain.EventAdd, w.records[0].EventType)
	assert.Equal(t, quant.Timestamp(10_007_000), w.records[0].Timestamp)
}

func writeEventsFile(t *testing.T, events []domain.BookEvent) *bytes.Buffer {
	buf := &bytes.Buffer{}
	require.NoError(t, wire.WriteFileHeader(buf, wire.FileHeader{SymbolIdx: 3, Count: uint32(len(events))}))
	for _, ev := range events {
		var hbuf [17]byte
		putU64 := func(b []byte, v uint64) {
			for i := 0; i < 8; i++ {
				b[i] = byte(v >> (8 * i))
			}
		}
		putU64(hbuf[0:8], uint64(ev.Header.Ts))
		putU64(hbuf[8:16], ev.Header.SeqNo)
		hbuf[16] = byte(ev.Header.Type)
		buf.Write(hbuf[:])

		switch ev.Header.Type {
		case domain.BookEventAdd:
			var pbuf [21]byte
			putU64(pbuf[0:8], uint64(ev.Add.Price))
			putU64(pbuf[8:16], ev.Add.OrderID)
			putU32(pbuf[16:20], uint32(ev.Add.Qty))
			if ev.Add.IsBid {
				pbuf[20] = 1
			}
			buf.Write(pbuf[:])
		case domain.BookEventExecute:
			var pbuf [20]byte
			putU64(pbuf[0:8], ev.Execute.OrderID)
			putU32(pbuf[8:12], uint32(ev.Execute.TradedQty))
			putU64(pbuf[12:20], ev.Execute.ExecID)
			buf.Write(pbuf[:])
		}
	}
	return buf
}

func putU32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// Exercises queue mode end-to-end on the S5 book-events sequence: the
// driver applies add/add/execute through C2 and dispatches the synthesized
// top and public fill, reaching the strategy via OnBookTopUpdate/OnPublicFill.
func TestQueueModeDispatchesSynthesizedEvents(t *testing.T) {
	events := []domain.BookEvent{
		{Header: domain.BookEventHeader{Ts: 1, SeqNo: 1, Type: domain.BookEventAdd}, Add: &domain.AddOrderPayload{Price: 99, OrderID: 1, Qty: 5, IsBid: true}},
		{Header: domain.BookEventHeader{Ts: 2, SeqNo: 2, Type: domain.BookEventAdd}, Add: &domain.AddOrderPayload{Price: 101, OrderID: 2, Qty: 5, IsBid: false}},
		{Header: domain.BookEventHeader{Ts: 3, SeqNo: 3, Type: domain.BookEventExecute}, Execute: &domain.ExecuteOrderPayload{OrderID: 1, TradedQty: 3, ExecID: 42}},
	}
	buf := writeEventsFile(t, events)

	var seenTops []domain.BookTop
	var seenFills []domain.PublicFill
	strat := &recordingStrategy{onTop: func(top domain.BookTop) { seenTops = append(seenTops, top) }, onFill: func(f domain.PublicFill) { seenFills = append(seenFills, f) }}

	lat := latency.New(0, 0)
	w := &captureWriter{}
	d := New(ModeQueue, strat, lat, w, nil)
	er, err := wire.NewEventsReader(buf)
	require.NoError(t, err)
	d.EventsReader = er

	require.NoError(t, d.Run())

	require.Len(t, seenTops, 1)
	assert.Equal(t, quant.Price(99), seenTops[0].TopLevel.BidPrice)
	assert.Equal(t, quant.Price(101), seenTops[0].TopLevel.AskPrice)

	require.Len(t, seenFills, 1)
	assert.Equal(t, quant.Price(99), seenFills[0].TradePrice)
	assert.Equal(t, quant.Qty(3), seenFills[0].TradeQty)
}

type recordingStrategy struct {
	onTop  func(domain.BookTop)
	onFill func(domain.PublicFill)
}

func (r *recordingStrategy) OnBookTopUpdate(top domain.BookTop) []domain.OrderAction {
	if r.onTop != nil {
		r.onTop(top)
	}
	return nil
}
func (r *recordingStrategy) OnPublicFill(f domain.PublicFill) []domain.OrderAction {
	if r.onFill != nil {
		r.onFill(f)
	}
	return nil
}
func (r *recordingStrategy) OnOrderFilled(uint64, quant.Price, quant.Qty, bool) []domain.OrderAction {
	return nil
}
func (r *recordingStrategy) SetSymbolID(uint64) {}
func (r *recordingStrategy) Name() string       { return "recording" }
