package wire

import (
	"encoding/binary"
	"io"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// RecordSize is the on-wire size of an OrderRecord. The simulator commits
// to this one byte layout; Reader decodes only this layout and reports a
// trailing partial record as a fatal error.
//
//	offset  0  timestamp     u64
//	offset  8  event_type    u8   (1 add, 2 cancel, 3 fill, 4 replace)
//	offset  9  order_id      u64
//	offset 17  symbol_id     u32
//	offset 21  price         i64
//	offset 29  old_price     i64  (type=4 only, else 0)
//	offset 37  quantity      u32
//	offset 41  old_quantity  u32  (type=4 only, else 0)
//	offset 45  is_bid        u8
//	offset 46  reserved      4 bytes, zero-filled
const RecordSize = 50

// Writer appends fixed-layout OrderRecords to an underlying io.Writer.
// Writes are unbuffered at the record level: each call to Write issues
// exactly one io.Writer.Write with the full 50-byte record, so a partial
// write never leaves a half-written record on a properly behaved sink.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a record writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes and appends one OrderRecord.
func (rw *Writer) Write(rec domain.OrderRecord) error {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(rec.Timestamp))
	buf[8] = byte(rec.EventType)
	binary.LittleEndian.PutUint64(buf[9:17], rec.OrderID)
	binary.LittleEndian.PutUint32(buf[17:21], rec.SymbolID)
	binary.LittleEndian.PutUint64(buf[21:29], uint64(rec.Price))
	if rec.EventType == domain.EventReplace {
		binary.LittleEndian.PutUint64(buf[29:37], uint64(rec.OldPrice))
	}
	binary.LittleEndian.PutUint32(buf[37:41], uint32(rec.Quantity))
	if rec.EventType == domain.EventReplace {
		binary.LittleEndian.PutUint32(buf[41:45], uint32(rec.OldQuantity))
	}
	if rec.IsBid {
		buf[45] = 1
	}
	_, err := rw.w.Write(buf[:])
	return err
}

// Reader streams OrderRecords back out of a previously written stream.
// Exposed so tests can round-trip the writer's output.
type Reader struct {
	r       io.Reader
	current domain.OrderRecord
	err     error
	done    bool
}

// NewReader wraps r as a record reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads the next record, if any.
func (rr *Reader) Next() bool {
	if rr.done {
		return false
	}
	var buf [RecordSize]byte
	n, err := io.ReadFull(rr.r, buf[:])
	if err == io.EOF && n == 0 {
		rr.done = true
		return false
	}
	if err != nil {
		rr.done = true
		rr.err = domain.NewFatalError("read order record", err)
		return false
	}
	rr.current = decodeRecord(buf)
	return true
}

// Record returns the most recently read OrderRecord.
func (rr *Reader) Record() domain.OrderRecord { return rr.current }

// Err returns the first fatal error encountered, if any.
func (rr *Reader) Err() error { return rr.err }

func decodeRecord(buf [RecordSize]byte) domain.OrderRecord {
	rec := domain.OrderRecord{
		Timestamp: decodeTimestamp(buf[0:8]),
		EventType: domain.EventType(buf[8]),
		OrderID:   binary.LittleEndian.Uint64(buf[9:17]),
		SymbolID:  binary.LittleEndian.Uint32(buf[17:21]),
		Price:     decodePrice(buf[21:29]),
		Quantity:  decodeQty(buf[37:41]),
		IsBid:     buf[45] != 0,
	}
	if rec.EventType == domain.EventReplace {
		rec.OldPrice = decodePrice(buf[29:37])
		rec.OldQuantity = decodeQty(buf[41:45])
	}
	return rec
}

func decodeTimestamp(b []byte) quant.Timestamp {
	return quant.Timestamp(binary.LittleEndian.Uint64(b))
}

func decodePrice(b []byte) quant.Price {
	return quant.Price(int64(binary.LittleEndian.Uint64(b)))
}

func decodeQty(b []byte) quant.Qty {
	return quant.Qty(binary.LittleEndian.Uint32(b))
}
