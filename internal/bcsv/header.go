package bcsv

import (
	"log/slog"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

// File layout:
//
// +-------------------------+ 0
// | Header (16 bytes)       |
// +-------------------------+ 16
// | Field[FieldCount]       | 12 bytes each
// +-------------------------+ EntryDataOff
// | rows                    | EntryCount * EntrySize
// +-------------------------+ StringPoolOffset
// | string pool             | NUL-terminated strings
// +-------------------------+
// | 0x40 padding            | up to a 32-byte boundary
// +-------------------------+
const (
	HeaderSize = 16
	FieldSize  = 12

	Alignment = 32
	PadByte   = 0x40
)

type Header struct {
	EntryCount   uint32
	FieldCount   uint32
	EntryDataOff uint32
	EntrySize    uint32
}

// StringPoolOffset is the absolute offset of the first pool string.
func (h Header) StringPoolOffset() int64 {
	return int64(h.EntryDataOff) + int64(h.EntryCount)*int64(h.EntrySize)
}

// DecodeHeader reads a header at the stream cursor.
func DecodeHeader(s *bx.Stream) (Header, error) {
	var h Header
	for _, dst := range []*uint32{&h.EntryCount, &h.FieldCount, &h.EntryDataOff, &h.EntrySize} {
		v, err := s.U32()
		if err != nil {
			return Header{}, truncated(err, "read header")
		}
		*dst = v
	}
	slog.Debug("bcsv: read header",
		"entries", h.EntryCount,
		"fields", h.FieldCount,
		"entryDataOff", h.EntryDataOff,
		"entrySize", h.EntrySize,
	)
	return h, nil
}

func (h Header) Encode(s *bx.Stream) {
	s.PutU32(h.EntryCount)
	s.PutU32(h.FieldCount)
	s.PutU32(h.EntryDataOff)
	s.PutU32(h.EntrySize)
}
