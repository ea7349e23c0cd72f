package bcsv

import (
	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

// StringTable interns pool strings. Offsets are handed out in first-add
// order and never change once assigned.
type StringTable struct {
	offsets map[string]uint32
	order   []string
	cursor  uint32
}

func NewStringTable() *StringTable {
	return &StringTable{offsets: make(map[string]uint32)}
}

// Add returns the pool offset of content, assigning the next free one when
// content is new. content is the encoded byte form of the string.
func (st *StringTable) Add(content string) uint32 {
	if off, ok := st.offsets[content]; ok {
		return off
	}
	off := st.cursor
	st.offsets[content] = off
	st.order = append(st.order, content)
	st.cursor += uint32(len(content)) + 1
	return off
}

// Len is the number of distinct strings.
func (st *StringTable) Len() int { return len(st.order) }

// Size is the pool size in bytes, terminators included.
func (st *StringTable) Size() int64 { return int64(st.cursor) }

// WriteTo emits every string in insertion order, each followed by a NUL.
func (st *StringTable) WriteTo(s *bx.Stream) error {
	for _, str := range st.order {
		if err := s.PutCString([]byte(str)); err != nil {
			return err
		}
	}
	return nil
}

// RewritePointers interns every StringOff cell of t, columns in declaration
// order and rows in order within a column, and stores the assigned offset
// back into each cell.
func (st *StringTable) RewritePointers(t *Table) error {
	ptrs, err := st.intern(t)
	if err != nil {
		return err
	}
	t.setPointers(ptrs)
	return nil
}

// intern adds every StringOff cell of t without touching t. The result holds
// one offset per row for StringOff fields and nil for the others.
func (st *StringTable) intern(t *Table) ([][]uint32, error) {
	ptrs := make([][]uint32, len(t.fields))
	for i, f := range t.fields {
		if f.Type != TypeStringOff {
			continue
		}
		col := t.cols[i]
		ptrs[i] = make([]uint32, len(col))
		for row, v := range col {
			so, ok := v.(StringOff)
			if !ok {
				return nil, errors.Wrapf(ErrTypeMismatch, "field 0x%X row %d holds %T", f.Hash, row, v)
			}
			enc, err := t.opts.encodeText(so.Text)
			if err != nil {
				return nil, errors.Wrapf(err, "field 0x%X row %d", f.Hash, row)
			}
			ptrs[i][row] = st.Add(string(enc))
		}
	}
	return ptrs, nil
}

func (t *Table) setPointers(ptrs [][]uint32) {
	for i, offs := range ptrs {
		for row, off := range offs {
			so := t.cols[i][row].(StringOff)
			so.Offset = off
			t.cols[i][row] = so
		}
	}
}
