package wire

import (
	"encoding/binary"
	"io"

	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// BookTopRecordSize is the on-wire size of a book_top_t record.
const BookTopRecordSize = 88

// TopsReader streams book_top_t records from an underlying io.Reader. It
// is lazy, finite, and non-restartable: once Next returns false the reader
// is exhausted.
type TopsReader struct {
	r       io.Reader
	Header  FileHeader
	current domain.BookTop
	err     error
	done    bool
}

// NewTopsReader reads the file header immediately and returns a reader
// positioned at the first record.
func NewTopsReader(r io.Reader) (*TopsReader, error) {
	hdr, err := ReadFileHeader(r)
	if err != nil {
		return nil, err
	}
	return &TopsReader{r: r, Header: hdr}, nil
}

// Next reads the next record, if any. It returns false both on clean EOF
// and on a fatal read error; callers must check Err after a false return to
// distinguish the two.
func (t *TopsReader) Next() bool {
	if t.done {
		return false
	}
	var buf [BookTopRecordSize]byte
	n, err := io.ReadFull(t.r, buf[:])
	if err == io.EOF && n == 0 {
		t.done = true
		return false
	}
	if err != nil {
		t.done = true
		t.err = domain.NewFatalError("read book_top", err)
		return false
	}
	t.current = decodeBookTop(buf)
	return true
}

// Record returns the most recently read BookTop.
func (t *TopsReader) Record() domain.BookTop { return t.current }

// Err returns the first fatal error encountered, if any.
func (t *TopsReader) Err() error { return t.err }

func decodeBookTop(buf [BookTopRecordSize]byte) domain.BookTop {
	var bt domain.BookTop
	bt.Ts = quant.Timestamp(binary.LittleEndian.Uint64(buf[0:8]))
	bt.Seqno = binary.LittleEndian.Uint64(buf[8:16])
	bt.TopLevel = decodeBookTopLevel(buf[16:40])
	bt.SecondLevel = decodeBookTopLevel(buf[40:64])
	bt.ThirdLevel = decodeBookTopLevel(buf[64:88])
	return bt
}

func decodeBookTopLevel(b []byte) domain.BookTopLevel {
	return domain.BookTopLevel{
		BidPrice: quant.Price(int64(binary.LittleEndian.Uint64(b[0:8]))),
		AskPrice: quant.Price(int64(binary.LittleEndian.Uint64(b[8:16]))),
		BidQty:   quant.Qty(binary.LittleEndian.Uint32(b[16:20])),
		AskQty:   quant.Qty(binary.LittleEndian.Uint32(b[20:24])),
	}
}

// EncodeBookTop encodes a BookTop into an 88-byte wire record. Exposed for
// tests that build synthetic input streams.
func EncodeBookTop(bt domain.BookTop) [BookTopRecordSize]byte {
	var buf [BookTopRecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(bt.Ts))
	binary.LittleEndian.PutUint64(buf[8:16], bt.Seqno)
	encodeBookTopLevel(buf[16:40], bt.TopLevel)
	encodeBookTopLevel(buf[40:64], bt.SecondLevel)
	encodeBookTopLevel(buf[64:88], bt.ThirdLevel)
	return buf
}

func encodeBookTopLevel(b []byte, l domain.BookTopLevel) {
	binary.LittleEndian.PutUint64(b[0:8], uint64(l.BidPrice))
	binary.LittleEndian.PutUint64(b[8:16], uint64(l.AskPrice))
	binary.LittleEndian.PutUint32(b[16:20], uint32(l.BidQty))
	binary.LittleEndian.PutUint32(b[20:24], uint32(l.AskQty))
}
