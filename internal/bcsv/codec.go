package bcsv

import (
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

// slot is one storage region of a row. Packed integer fields of one type
// that shared a DataOff keep sharing it; every other field gets its own.
type slot struct {
	typ     FieldType
	off     uint16
	origOff uint16
	used    uint32 // union of member masks
	shared  bool
	members []int // field indices
}

type layout struct {
	header  Header
	offsets []uint16 // DataOff per declared field
	slots   []slot   // ascending off
}

// layout computes the packed row layout without modifying the table.
// Fields are visited by (type order, declaration index).
func (t *Table) layout() (layout, error) {
	rows, err := t.rowCount()
	if err != nil {
		return layout{}, err
	}

	order := make([]int, len(t.fields))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.fields[order[a]].Type.Order() < t.fields[order[b]].Type.Order()
	})

	lay := layout{offsets: make([]uint16, len(t.fields))}
	cursor := 0
	for _, i := range order {
		f := t.fields[i]
		if j := joinable(lay.slots, f); j >= 0 {
			s := &lay.slots[j]
			s.used |= f.Mask
			s.members = append(s.members, i)
			lay.offsets[i] = s.off
			continue
		}
		if cursor > math.MaxUint16 {
			return layout{}, errors.Wrapf(ErrRowTooWide, "field 0x%X at byte %d", f.Hash, cursor)
		}
		lay.slots = append(lay.slots, slot{
			typ:     f.Type,
			off:     uint16(cursor),
			origOff: f.DataOff,
			used:    f.Mask,
			shared:  f.Packed(),
			members: []int{i},
		})
		lay.offsets[i] = uint16(cursor)
		cursor += f.Type.Size()
	}

	lay.header = Header{
		EntryCount:   uint32(rows),
		FieldCount:   uint32(len(t.fields)),
		EntryDataOff: uint32(HeaderSize + FieldSize*len(t.fields)),
		EntrySize:    uint32(cursor),
	}
	return lay, nil
}

func joinable(slots []slot, f Field) int {
	if !f.Packed() {
		return -1
	}
	for j, s := range slots {
		if s.shared && s.typ == f.Type && s.origOff == f.DataOff && s.used&f.Mask == 0 {
			return j
		}
	}
	return -1
}

// rowCount infers the row count when the header has none and checks every
// column against it.
func (t *Table) rowCount() (int, error) {
	n := t.Rows()
	for i, col := range t.cols {
		if len(col) != n {
			return 0, errors.Wrapf(ErrInconsistentRowCount,
				"field 0x%X has %d rows, want %d", t.fields[i].Hash, len(col), n)
		}
	}
	return n, nil
}

// apply commits a layout and the pool offsets of every StringOff cell.
func (t *Table) apply(lay layout, ptrs [][]uint32) {
	for i := range t.fields {
		t.fields[i].DataOff = lay.offsets[i]
	}
	t.Header = lay.header
	t.setPointers(ptrs)
	slog.Debug("bcsv: repack",
		"fields", lay.header.FieldCount,
		"slots", len(lay.slots),
		"entrySize", lay.header.EntrySize,
	)
}

// Decode parses a complete table from data.
func Decode(data []byte, opts Options) (*Table, error) {
	t := New(opts)
	if err := t.Read(bx.NewReader(data, opts.order())); err != nil {
		return nil, err
	}
	return t, nil
}

// Read replaces the table contents with the table stored in s. On error the
// table is left unchanged.
func (t *Table) Read(s *bx.Stream) error {
	h, err := DecodeHeader(s)
	if err != nil {
		return err
	}

	fieldsEnd := int64(HeaderSize) + int64(FieldSize)*int64(h.FieldCount)
	if fieldsEnd > int64(s.Len()) {
		return errors.Wrapf(ErrTruncatedInput, "%d fields need %d bytes, have %d", h.FieldCount, fieldsEnd, s.Len())
	}
	if h.StringPoolOffset() > int64(s.Len()) {
		return errors.Wrapf(ErrTruncatedInput, "%d rows of %d bytes at %d need %d bytes, have %d",
			h.EntryCount, h.EntrySize, h.EntryDataOff, h.StringPoolOffset(), s.Len())
	}
	if cells := uint64(h.EntryCount) * uint64(h.FieldCount); cells > maxCells {
		return errors.Wrapf(ErrTableTooLarge, "%d rows of %d fields", h.EntryCount, h.FieldCount)
	}

	fields := make([]Field, h.FieldCount)
	index := make(map[uint32]int, h.FieldCount)
	for i := range fields {
		f, err := DecodeField(s, t.opts.Strict)
		if err != nil {
			return errors.Wrapf(err, "field %d", i)
		}
		// Without rows no byte of the field is ever read.
		if size := f.Type.Size(); h.EntryCount > 0 && size > 0 && int(f.DataOff)+size > int(h.EntrySize) {
			return errors.Wrapf(ErrTruncatedInput, "field 0x%X ends at byte %d of a %d-byte row",
				f.Hash, int(f.DataOff)+size, h.EntrySize)
		}
		if _, dup := index[f.Hash]; dup {
			slog.Warn("bcsv: duplicate field hash", "hash", f.Hash, "index", i)
		} else {
			index[f.Hash] = i
		}
		fields[i] = f
	}

	// Read by ascending DataOff so fields sharing a slot read the same bytes.
	order := make([]int, len(fields))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fields[order[a]].DataOff < fields[order[b]].DataOff
	})

	cols := make([][]Value, len(fields))
	for i := range cols {
		cols[i] = make([]Value, 0, min(int(h.EntryCount), 1<<16))
	}
	pool := h.StringPoolOffset()
	for row := 0; len(fields) > 0 && row < int(h.EntryCount); row++ {
		rowStart := int64(h.EntryDataOff) + int64(row)*int64(h.EntrySize)
		for _, i := range order {
			f := fields[i]
			if err := s.Seek(int(rowStart) + int(f.DataOff)); err != nil {
				return err
			}
			v, err := readValue(s, f)
			if err != nil {
				return truncated(err, "row %d field 0x%X", row, f.Hash)
			}
			if so, ok := v.(StringOff); ok {
				if v, err = t.resolve(s, pool, so); err != nil {
					return errors.Wrapf(err, "row %d field 0x%X", row, f.Hash)
				}
			}
			cols[i] = append(cols[i], v)
		}
	}

	t.Header = h
	t.fields = fields
	t.cols = cols
	t.index = index
	slog.Debug("bcsv: read table", "rows", h.EntryCount, "fields", h.FieldCount)
	return nil
}

func (t *Table) resolve(s *bx.Stream, pool int64, so StringOff) (Value, error) {
	b, err := s.CStringAt(int(pool + int64(so.Offset)))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "pool offset %d", so.Offset), ErrStringResolution)
	}
	text, err := t.opts.decodeText(b)
	if err != nil {
		return nil, errors.Mark(err, ErrStringResolution)
	}
	so.Text = text
	return so, nil
}

func readValue(s *bx.Stream, f Field) (Value, error) {
	switch f.Type {
	case TypeLong:
		raw, err := s.U32()
		return Long(int32(unpack(raw, f))), err
	case TypeULong:
		raw, err := s.U32()
		return ULong(unpack(raw, f)), err
	case TypeShort:
		raw, err := s.U16()
		return Short(unpack(raw, f)), err
	case TypeChar:
		raw, err := s.U8()
		return Char(unpack(raw, f)), err
	case TypeFloat:
		v, err := s.F32()
		return Float(v), err
	case TypeString:
		var v String
		err := s.ReadFull(v[:])
		return v, err
	case TypeStringOff:
		raw, err := s.U32()
		return StringOff{Offset: unpack(raw, f)}, err
	default:
		return Null{}, nil
	}
}

// rawOf packs an integer cell into its slot bits.
func rawOf(v Value, f Field) uint32 {
	switch v := v.(type) {
	case Long:
		return pack(uint32(v), f)
	case ULong:
		return pack(uint32(v), f)
	case Short:
		return uint32(pack(uint16(v), f))
	case Char:
		return uint32(pack(uint8(v), f))
	case StringOff:
		return pack(v.Offset, f)
	default:
		return 0
	}
}

func (t *Table) writeSlot(s *bx.Stream, sl slot, row int, ptrs [][]uint32) error {
	first := t.fields[sl.members[0]]
	v := t.cols[sl.members[0]][row]
	if err := checkType(first, v); err != nil {
		return errors.Wrapf(err, "row %d", row)
	}
	switch sl.typ {
	case TypeFloat:
		s.PutF32(float32(v.(Float)))
		return nil
	case TypeString:
		str := v.(String)
		_, err := s.Write(str[:])
		return err
	case TypeNull:
		return nil
	}

	var raw uint32
	for _, i := range sl.members {
		v := t.cols[i][row]
		if err := checkType(t.fields[i], v); err != nil {
			return errors.Wrapf(err, "row %d", row)
		}
		if so, ok := v.(StringOff); ok {
			so.Offset = ptrs[i][row]
			v = so
		}
		raw |= rawOf(v, t.fields[i])
	}
	switch sl.typ.Size() {
	case 1:
		s.PutU8(uint8(raw))
	case 2:
		s.PutU16(uint16(raw))
	default:
		s.PutU32(raw)
	}
	return nil
}

// Write repacks the table and serializes it at the start of s, dropping
// whatever s held past the new end. The table keeps its old layout and
// pool offsets when Write fails.
func (t *Table) Write(s *bx.Stream) error {
	lay, err := t.layout()
	if err != nil {
		return err
	}
	// Offsets must all be assigned before the first StringOff cell is written.
	st := NewStringTable()
	ptrs, err := st.intern(t)
	if err != nil {
		return err
	}
	if err := s.Seek(0); err != nil {
		return err
	}

	lay.header.Encode(s)
	for i, f := range t.fields {
		f.DataOff = lay.offsets[i]
		f.Encode(s)
	}

	for row := 0; row < int(lay.header.EntryCount); row++ {
		for _, sl := range lay.slots {
			if err := t.writeSlot(s, sl, row, ptrs); err != nil {
				return err
			}
		}
	}

	if err := s.Seek(int(lay.header.StringPoolOffset())); err != nil {
		return err
	}
	if err := st.WriteTo(s); err != nil {
		return err
	}
	s.Pad(Alignment, PadByte)
	s.Truncate()

	t.apply(lay, ptrs)
	slog.Debug("bcsv: wrote table",
		"rows", t.Header.EntryCount,
		"strings", st.Len(),
		"poolSize", st.Size(),
		"size", s.Len(),
	)
	return nil
}

// Encode serializes the table into a new buffer.
func (t *Table) Encode() ([]byte, error) {
	s := bx.NewWriter(t.opts.order())
	if err := t.Write(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// WriteTo implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	b, err := t.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// TotalSize is the exact length Write would produce.
func (t *Table) TotalSize() (int64, error) {
	lay, err := t.layout()
	if err != nil {
		return 0, err
	}
	st := NewStringTable()
	if _, err := st.intern(t); err != nil {
		return 0, err
	}
	size := lay.header.StringPoolOffset() + st.Size()
	return bx.AlignUp(size, Alignment), nil
}
