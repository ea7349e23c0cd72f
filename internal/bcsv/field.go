package bcsv

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

// Field describes one column. Hash identifies it; Mask and Shift select the
// bits of the DataOff slot that belong to it.
type Field struct {
	Hash    uint32
	Mask    uint32
	DataOff uint16
	Shift   uint8
	Type    FieldType
}

// NewField returns an unpacked field using the full mask of t.
func NewField(hash uint32, t FieldType) Field {
	return Field{Hash: hash, Mask: t.Mask(), Type: t}
}

// NewPackedField returns a field occupying only the mask bits of its slot.
func NewPackedField(hash uint32, t FieldType, mask uint32, shift uint8) Field {
	return Field{Hash: hash, Mask: mask, Shift: shift, Type: t}
}

// Packed reports whether the field shares its slot with other fields.
func (f Field) Packed() bool {
	return f.Type.isInteger() && f.Mask != f.Type.Mask()
}

// DecodeField reads a 12-byte field record. Unknown type tags degrade to
// TypeNull unless strict is set.
func DecodeField(s *bx.Stream, strict bool) (Field, error) {
	var (
		f   Field
		tag uint8
		err error
	)
	read := func(fn func() error) {
		if err == nil {
			err = fn()
		}
	}
	read(func() (e error) { f.Hash, e = s.U32(); return })
	read(func() (e error) { f.Mask, e = s.U32(); return })
	read(func() (e error) { f.DataOff, e = s.U16(); return })
	read(func() (e error) { f.Shift, e = s.U8(); return })
	read(func() (e error) { tag, e = s.U8(); return })
	if err != nil {
		return Field{}, truncated(err, "read field")
	}

	t, ok := FieldTypeFromTag(tag)
	if !ok {
		if strict {
			return Field{}, errors.Wrapf(ErrUnsupportedFieldType, "field 0x%X has tag %d", f.Hash, tag)
		}
		slog.Warn("bcsv: unknown field type, reading as Null",
			"hash", f.Hash,
			"tag", tag,
		)
	}
	f.Type = t
	return f, nil
}

func (f Field) Encode(s *bx.Stream) {
	s.PutU32(f.Hash)
	s.PutU32(f.Mask)
	s.PutU16(f.DataOff)
	s.PutU8(f.Shift)
	s.PutU8(uint8(f.Type))
}
