// Package wire implements the binary readers and writer for the
// simulator's input/output file formats: a 24-byte file header followed by
// a densely packed sequence of fixed-layout records. Every reader exposes
// a lazy, finite, non-restartable sequence in the conventional Go shape
// (Next/Record/Err), grounded in the same "typed record, read
// synchronously" idiom used throughout the matching engine's event types.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/rishav/fillsim/internal/domain"
)

// FileHeaderSize is the size in bytes of FileHeader on the wire.
const FileHeaderSize = 24

// FileHeader precedes every input stream.
type FileHeader struct {
	FeedID    uint64
	DateInt   uint32
	Count     uint32
	SymbolIdx uint64
}

// ReadFileHeader reads and decodes a 24-byte FileHeader from r.
func ReadFileHeader(r io.Reader) (FileHeader, error) {
	var buf [FileHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileHeader{}, domain.NewFatalError("read file header", err)
	}
	return FileHeader{
		FeedID:    binary.LittleEndian.Uint64(buf[0:8]),
		DateInt:   binary.LittleEndian.Uint32(buf[8:12]),
		Count:     binary.LittleEndian.Uint32(buf[12:16]),
		SymbolIdx: binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// WriteFileHeader encodes and writes a 24-byte FileHeader to w.
func WriteFileHeader(w io.Writer, h FileHeader) error {
	var buf [FileHeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.FeedID)
	binary.LittleEndian.PutUint32(buf[8:12], h.DateInt)
	binary.LittleEndian.PutUint32(buf[12:16], h.Count)
	binary.LittleEndian.PutUint64(buf[16:24], h.SymbolIdx)
	_, err := w.Write(buf[:])
	return err
}
