package wire

import (
	"encoding/binary"
	"io"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// FillRecordSize is the on-wire size of a book_fill_snapshot_t record.
const FillRecordSize = 90

// FillsReader streams book_fill_snapshot_t records, decoded into
// domain.PublicFill. Same lazy Next/Record/Err shape as TopsReader.
type FillsReader struct {
	r       io.Reader
	Header  FileHeader
	current domain.PublicFill
	err     error
	done    bool
}

// NewFillsReader reads the file header and returns a reader positioned at
// the first record.
func NewFillsReader(r io.Reader) (*FillsReader, error) {
	hdr, err := ReadFileHeader(r)
	if err != nil {
		return nil, err
	}
	return &FillsReader{r: r, Header: hdr}, nil
}

// Next reads the next record, if any.
func (f *FillsReader) Next() bool {
	if f.done {
		return false
	}
	var buf [FillRecordSize]byte
	n, err := io.ReadFull(f.r, buf[:])
	if err == io.EOF && n == 0 {
		f.done = true
		return false
	}
	if err != nil {
		f.done = true
		f.err = domain.NewFatalError("read book_fill_snapshot", err)
		return false
	}
	f.current = decodeFill(buf)
	return true
}

// Record returns the most recently read PublicFill.
func (f *FillsReader) Record() domain.PublicFill { return f.current }

// Err returns the first fatal error encountered, if any.
func (f *FillsReader) Err() error { return f.err }

// Layout (90 bytes, little-endian, packed):
//
//	offset  0  ts                         u64
//	offset  8  seqno                      u64
//	offset 16  resting_order_id           u64
//	offset 24  trade_price                i64
//	offset 32  trade_qty                  u32
//	offset 36  execution_id               u64
//	offset 44  resting_original_qty       u32
//	offset 48  resting_remaining_qty      u32
//	offset 52  resting_last_update_ts     u64
//	offset 60  opposing_side_price        i64
//	offset 68  opposing_side_qty          u32
//	offset 72  resting_side_price         i64
//	offset 80  resting_side_qty           u32
//	offset 84  resting_side_number_orders u32
//	offset 88  resting_side_is_bid        u8
//	offset 89  was_hidden                 u8
func decodeFill(buf [FillRecordSize]byte) domain.PublicFill {
	return domain.PublicFill{
		Ts:                   quant.Timestamp(binary.LittleEndian.Uint64(buf[0:8])),
		Seqno:                binary.LittleEndian.Uint64(buf[8:16]),
		RestingOrderID:       binary.LittleEndian.Uint64(buf[16:24]),
		TradePrice:           quant.Price(int64(binary.LittleEndian.Uint64(buf[24:32]))),
		TradeQty:             quant.Qty(binary.LittleEndian.Uint32(buf[32:36])),
		ExecutionID:          binary.LittleEndian.Uint64(buf[36:44]),
		RestingOriginalQty:   quant.Qty(binary.LittleEndian.Uint32(buf[44:48])),
		RestingRemainingQty:  quant.Qty(binary.LittleEndian.Uint32(buf[48:52])),
		RestingLastUpdateTs:  quant.Timestamp(binary.LittleEndian.Uint64(buf[52:60])),
		OpposingSidePrice:    quant.Price(int64(binary.LittleEndian.Uint64(buf[60:68]))),
		OpposingSideQty:      quant.Qty(binary.LittleEndian.Uint32(buf[68:72])),
		RestingSidePrice:     quant.Price(int64(binary.LittleEndian.Uint64(buf[72:80]))),
		RestingSideQty:       quant.Qty(binary.LittleEndian.Uint32(buf[80:84])),
		RestingSideNumOrders: binary.LittleEndian.Uint32(buf[84:88]),
		RestingSideIsBid:     buf[88] != 0,
		WasHidden:            buf[89] != 0,
	}
}

// EncodeFill encodes a PublicFill into a 90-byte wire record. Exposed for
// tests that build synthetic input streams.
func EncodeFill(f domain.PublicFill) [FillRecordSize]byte {
	var buf [FillRecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(f.Ts))
	binary.LittleEndian.PutUint64(buf[8:16], f.Seqno)
	binary.LittleEndian.PutUint64(buf[16:24], f.RestingOrderID)
	binary.LittleEndian.PutUint64(buf[24:32], uint64(f.TradePrice))
	binary.LittleEndian.PutUint32(buf[32:36], uint32(f.TradeQty))
	binary.LittleEndian.PutUint64(buf[36:44], f.ExecutionID)
	binary.LittleEndian.PutUint32(buf[44:48], uint32(f.RestingOriginalQty))
	binary.LittleEndian.PutUint32(buf[48:52], uint32(f.RestingRemainingQty))
	binary.LittleEndian.PutUint64(buf[52:60], uint64(f.RestingLastUpdateTs))
	binary.LittleEndian.PutUint64(buf[60:68], uint64(f.OpposingSidePrice))
	binary.LittleEndian.PutUint32(buf[68:72], uint32(f.OpposingSideQty))
	binary.LittleEndian.PutUint64(buf[72:80], uint64(f.RestingSidePrice))
	binary.LittleEndian.PutUint32(buf[80:84], uint32(f.RestingSideQty))
	binary.LittleEndian.PutUint32(buf[84:88], f.RestingSideNumOrders)
	if f.RestingSideIsBid {
		buf[88] = 1
	}
	if f.WasHidden {
		buf[89] = 1
	}
	return buf
}
