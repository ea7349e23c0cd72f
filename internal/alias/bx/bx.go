// stand for bytes helper
package bx

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

var (
	LE binary.ByteOrder = binary.LittleEndian
	BE binary.ByteOrder = binary.BigEndian
)

var (
	ErrShortRead   = errors.New("bx: read past end of stream")
	ErrBadSeek     = errors.New("bx: seek to negative position")
	ErrNoCString   = errors.New("bx: missing NUL terminator")
	ErrEmbeddedNUL = errors.New("bx: string contains NUL byte")
)

// Stream is an in-memory byte stream with a single read/write cursor.
// Writes past the end grow the buffer; seeking past the end is allowed and
// the gap is zero-filled by the next write.
type Stream struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func NewReader(data []byte, order binary.ByteOrder) *Stream {
	return &Stream{buf: data, order: order}
}

func NewWriter(order binary.ByteOrder) *Stream {
	return &Stream{order: order}
}

func (s *Stream) Order() binary.ByteOrder { return s.order }
func (s *Stream) Pos() int                { return s.pos }
func (s *Stream) Len() int                { return len(s.buf) }
func (s *Stream) Bytes() []byte           { return s.buf }

func (s *Stream) Seek(pos int) error {
	if pos < 0 {
		return errors.Wrapf(ErrBadSeek, "pos=%d", pos)
	}
	s.pos = pos
	return nil
}

// At runs fn with the cursor at pos and restores the previous cursor
// afterwards, whether or not fn fails.
func (s *Stream) At(pos int, fn func(*Stream) error) error {
	saved := s.pos
	defer func() { s.pos = saved }()
	if err := s.Seek(pos); err != nil {
		return err
	}
	return fn(s)
}

// ---- read ----

func (s *Stream) take(n int) ([]byte, error) {
	if s.pos+n > len(s.buf) {
		return nil, errors.Wrapf(ErrShortRead, "need %d bytes at %d, have %d", n, s.pos, len(s.buf))
	}
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *Stream) U8() (uint8, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Stream) U16() (uint16, error) {
	b, err := s.take(2)
	if err != nil {
		return 0, err
	}
	return s.order.Uint16(b), nil
}

func (s *Stream) U32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return s.order.Uint32(b), nil
}

func (s *Stream) F32() (float32, error) {
	v, err := s.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFull copies exactly len(dst) bytes.
func (s *Stream) ReadFull(dst []byte) error {
	b, err := s.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// CString reads bytes up to and including the next NUL and returns them
// without the terminator.
func (s *Stream) CString() ([]byte, error) {
	if s.pos > len(s.buf) {
		return nil, errors.Wrapf(ErrShortRead, "string at %d, have %d", s.pos, len(s.buf))
	}
	for i := s.pos; i < len(s.buf); i++ {
		if s.buf[i] == 0 {
			out := s.buf[s.pos:i]
			s.pos = i + 1
			return out, nil
		}
	}
	return nil, errors.Wrapf(ErrNoCString, "string at %d", s.pos)
}

// CStringAt reads a NUL-terminated string at pos without moving the cursor.
func (s *Stream) CStringAt(pos int) ([]byte, error) {
	var out []byte
	err := s.At(pos, func(s *Stream) error {
		var err error
		out, err = s.CString()
		return err
	})
	return out, err
}

// ---- write ----

func (s *Stream) grab(n int) []byte {
	end := s.pos + n
	if end > len(s.buf) {
		if end > cap(s.buf) {
			grown := make([]byte, end, max(end, 2*cap(s.buf)))
			copy(grown, s.buf)
			s.buf = grown
		} else {
			tail := s.buf[len(s.buf):end]
			for i := range tail {
				tail[i] = 0
			}
			s.buf = s.buf[:end]
		}
	}
	b := s.buf[s.pos:end]
	s.pos = end
	return b
}

func (s *Stream) PutU8(v uint8)   { s.grab(1)[0] = v }
func (s *Stream) PutU16(v uint16) { s.order.PutUint16(s.grab(2), v) }
func (s *Stream) PutU32(v uint32) { s.order.PutUint32(s.grab(4), v) }
func (s *Stream) PutF32(v float32) {
	s.PutU32(math.Float32bits(v))
}

func (s *Stream) Write(p []byte) (int, error) {
	copy(s.grab(len(p)), p)
	return len(p), nil
}

// PutCString writes b followed by a NUL byte.
func (s *Stream) PutCString(b []byte) error {
	for i, c := range b {
		if c == 0 {
			return errors.Wrapf(ErrEmbeddedNUL, "index %d", i)
		}
	}
	_, _ = s.Write(b)
	s.PutU8(0)
	return nil
}

// Truncate drops everything from the cursor on. A cursor past the end
// leaves the buffer as is.
func (s *Stream) Truncate() {
	if s.pos < len(s.buf) {
		s.buf = s.buf[:s.pos]
	}
}

// Pad writes fill until the cursor is a multiple of align.
func (s *Stream) Pad(align int, fill byte) {
	for s.pos%align != 0 {
		s.PutU8(fill)
	}
}

// AlignUp rounds n up to the next multiple of align.
func AlignUp(n, align int64) int64 {
	if r := n % align; r != 0 {
		return n + align - r
	}
	return n
}
