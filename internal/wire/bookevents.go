package wire

import (
	"encoding/binary"
	"io"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// BookEventHeaderSize is the on-wire size of a book_event_hdr_t record.
const BookEventHeaderSize = 17

// EventsReader streams book-event records: a 17-byte header followed by
// one of ten typed payloads, dispatched on the header's type tag. An
// unknown type tag is a fatal error: the file is malformed.
type EventsReader struct {
	r       io.Reader
	Header  FileHeader
	current domain.BookEvent
	err     error
	done    bool
}

// NewEventsReader reads the file header and returns a reader positioned at
// the first record.
func NewEventsReader(r io.Reader) (*EventsReader, error) {
	hdr, err := ReadFileHeader(r)
	if err != nil {
		return nil, err
	}
	return &EventsReader{r: r, Header: hdr}, nil
}

// Next reads the next book event, if any.
func (e *EventsReader) Next() bool {
	if e.done {
		return false
	}
	var hbuf [BookEventHeaderSize]byte
	n, err := io.ReadFull(e.r, hbuf[:])
	if err == io.EOF && n == 0 {
		e.done = true
		return false
	}
	if err != nil {
		e.done = true
		e.err = domain.NewFatalError("read book event header", err)
		return false
	}
	hdr := domain.BookEventHeader{
		Ts:    quant.Timestamp(binary.LittleEndian.Uint64(hbuf[0:8])),
		SeqNo: binary.LittleEndian.Uint64(hbuf[8:16]),
		Type:  domain.BookEventType(hbuf[16]),
	}

	ev := domain.BookEvent{Header: hdr}
	if err := e.readPayload(&ev); err != nil {
		e.done = true
		e.err = err
		return false
	}
	e.current = ev
	return true
}

// Record returns the most recently read BookEvent.
func (e *EventsReader) Record() domain.BookEvent { return e.current }

// Err returns the first fatal error encountered, if any.
func (e *EventsReader) Err() error { return e.err }

func (e *EventsReader) readPayload(ev *domain.BookEvent) error {
	switch ev.Header.Type {
	case domain.BookEventAdd:
		var b [21]byte
		if err := e.readFull(b[:], "add_order"); err != nil {
			return err
		}
		ev.Add = &domain.AddOrderPayload{
			Price:   quant.Price(int64(binary.LittleEndian.Uint64(b[0:8]))),
			OrderID: binary.LittleEndian.Uint64(b[8:16]),
			Qty:     quant.Qty(binary.LittleEndian.Uint32(b[16:20])),
			IsBid:   b[20] != 0,
		}
	case domain.BookEventDelete:
		var b [8]byte
		if err := e.readFull(b[:], "delete_order"); err != nil {
			return err
		}
		ev.Delete = &domain.DeleteOrderPayload{OrderID: binary.LittleEndian.Uint64(b[0:8])}
	case domain.BookEventReplace:
		var b [28]byte
		if err := e.readFull(b[:], "replace_order"); err != nil {
			return err
		}
		ev.Replace = &domain.ReplaceOrderPayload{
			Price:  quant.Price(int64(binary.LittleEndian.Uint64(b[0:8]))),
			OrigID: binary.LittleEndian.Uint64(b[8:16]),
			NewID:  binary.LittleEndian.Uint64(b[16:24]),
			Qty:    quant.Qty(binary.LittleEndian.Uint32(b[24:28])),
		}
	case domain.BookEventAmend:
		var b [12]byte
		if err := e.readFull(b[:], "amend_order"); err != nil {
			return err
		}
		ev.Amend = &domain.AmendOrderPayload{
			OrderID: binary.LittleEndian.Uint64(b[0:8]),
			NewQty:  quant.Qty(binary.LittleEndian.Uint32(b[8:12])),
		}
	case domain.BookEventReduce:
		var b [12]byte
		if err := e.readFull(b[:], "reduce_order"); err != nil {
			return err
		}
		ev.Reduce = &domain.ReduceOrderPayload{
			OrderID:  binary.LittleEndian.Uint64(b[0:8]),
			CxledQty: quant.Qty(binary.LittleEndian.Uint32(b[8:12])),
		}
	case domain.BookEventExecute:
		var b [20]byte
		if err := e.readFull(b[:], "execute_order"); err != nil {
			return err
		}
		ev.Execute = &domain.ExecuteOrderPayload{
			OrderID:   binary.LittleEndian.Uint64(b[0:8]),
			TradedQty: quant.Qty(binary.LittleEndian.Uint32(b[8:12])),
			ExecID:    binary.LittleEndian.Uint64(b[12:20]),
		}
	case domain.BookEventExecuteAtPrice:
		var b [28]byte
		if err := e.readFull(b[:], "execute_order_at_price"); err != nil {
			return err
		}
		ev.ExecAt = &domain.ExecuteOrderAtPricePayload{
			OrderID:   binary.LittleEndian.Uint64(b[0:8]),
			TradedQty: quant.Qty(binary.LittleEndian.Uint32(b[8:12])),
			ExecID:    binary.LittleEndian.Uint64(b[12:20]),
			ExecPrice: quant.Price(int64(binary.LittleEndian.Uint64(b[20:28]))),
		}
	case domain.BookEventClear:
		// No payload.
	case domain.BookEventSession:
		var b [1]byte
		if err := e.readFull(b[:], "session_event"); err != nil {
			return err
		}
		ev.Session = &domain.SessionEventPayload{AllowCrossedBook: b[0] != 0}
	case domain.BookEventHiddenTrade:
		var b [29]byte
		if err := e.readFull(b[:], "hidden_trade"); err != nil {
			return err
		}
		ev.Hidden = &domain.HiddenTradePayload{
			FillPrice:    quant.Price(int64(binary.LittleEndian.Uint64(b[0:8]))),
			RestingID:    binary.LittleEndian.Uint64(b[8:16]),
			FillQty:      quant.Qty(binary.LittleEndian.Uint32(b[16:20])),
			RestingIsBid: b[20] != 0,
			ExecID:       binary.LittleEndian.Uint64(b[21:29]),
		}
	default:
		return domain.NewFatalError("read book event payload", domain.ErrUnknownEventType)
	}
	return nil
}

func (e *EventsReader) readFull(buf []byte, op string) error {
	if _, err := io.ReadFull(e.r, buf); err != nil {
		return domain.NewFatalError("read "+op, err)
	}
	return nil
}
