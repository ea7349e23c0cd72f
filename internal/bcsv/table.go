package bcsv

import (
	"github.com/cockroachdb/errors"
)

// Table holds a BCSV table column-major: fields[i] owns cols[i], and row r
// of every column belongs to the same logical row.
type Table struct {
	Header Header

	fields []Field
	cols   [][]Value
	index  map[uint32]int // hash -> first field with that hash
	opts   Options
}

func New(opts Options) *Table {
	return &Table{
		index: make(map[uint32]int),
		opts:  opts,
	}
}

func (t *Table) Options() Options { return t.opts }
func (t *Table) NumFields() int   { return len(t.fields) }

// Rows is the logical row count: Header.EntryCount when set, else the
// length of the first column.
func (t *Table) Rows() int {
	if t.Header.EntryCount != 0 || len(t.cols) == 0 {
		return int(t.Header.EntryCount)
	}
	return len(t.cols[0])
}

// Fields returns a copy of the fields in declaration order.
func (t *Table) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Field returns the i-th declared field.
func (t *Table) Field(i int) Field { return t.fields[i] }

func (t *Table) FieldIndex(hash uint32) int {
	if i, ok := t.index[hash]; ok {
		return i
	}
	return -1
}

func (t *Table) FieldByHash(hash uint32) (Field, bool) {
	i := t.FieldIndex(hash)
	if i < 0 {
		return Field{}, false
	}
	return t.fields[i], true
}

// AddField appends a field at the end of declaration order. A nil column is
// filled with zero values for every existing row; a supplied column is
// copied and its length is checked on the next write.
func (t *Table) AddField(f Field, column []Value) error {
	if _, dup := t.index[f.Hash]; dup {
		return errors.Wrapf(ErrDuplicateField, "0x%X", f.Hash)
	}
	var col []Value
	if column == nil {
		col = make([]Value, t.Rows())
		for i := range col {
			col[i] = Zero(f.Type)
		}
	} else {
		for row, v := range column {
			if err := checkType(f, v); err != nil {
				return errors.Wrapf(err, "row %d", row)
			}
		}
		col = make([]Value, len(column))
		copy(col, column)
	}
	t.index[f.Hash] = len(t.fields)
	t.fields = append(t.fields, f)
	t.cols = append(t.cols, col)
	return nil
}

// AppendRow adds one row; values are given in declaration order.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.fields) {
		return errors.Wrapf(ErrTypeMismatch, "row has %d values, table has %d fields", len(values), len(t.fields))
	}
	for i, v := range values {
		if err := checkType(t.fields[i], v); err != nil {
			return err
		}
	}
	n := t.Rows()
	for i, v := range values {
		t.cols[i] = append(t.cols[i], v)
	}
	t.Header.EntryCount = uint32(n + 1)
	return nil
}

func (t *Table) Value(hash uint32, row int) (Value, error) {
	i, err := t.lookup(hash)
	if err != nil {
		return nil, err
	}
	return t.ValueAt(i, row)
}

// ValueAt addresses a cell by declared field index.
func (t *Table) ValueAt(field, row int) (Value, error) {
	col := t.cols[field]
	if row < 0 || row >= len(col) {
		return nil, errors.Wrapf(ErrRowOutOfRange, "row %d of %d", row, len(col))
	}
	return col[row], nil
}

func (t *Table) SetValue(hash uint32, row int, v Value) error {
	i, err := t.lookup(hash)
	if err != nil {
		return err
	}
	col := t.cols[i]
	if row < 0 || row >= len(col) {
		return errors.Wrapf(ErrRowOutOfRange, "row %d of %d", row, len(col))
	}
	if err := checkType(t.fields[i], v); err != nil {
		return err
	}
	col[row] = v
	return nil
}

// Column returns a copy of the field's values in row order.
func (t *Table) Column(hash uint32) ([]Value, error) {
	i, err := t.lookup(hash)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.cols[i]))
	copy(out, t.cols[i])
	return out, nil
}

// Row returns one row in declaration order.
func (t *Table) Row(row int) ([]Value, error) {
	out := make([]Value, len(t.cols))
	for i := range t.cols {
		v, err := t.ValueAt(i, row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) lookup(hash uint32) (int, error) {
	i := t.FieldIndex(hash)
	if i < 0 {
		return -1, errors.Wrapf(ErrFieldNotFound, "0x%X", hash)
	}
	return i, nil
}

func checkType(f Field, v Value) error {
	if v == nil || v.Type() != f.Type {
		return errors.Wrapf(ErrTypeMismatch, "field 0x%X is %s, value is %T", f.Hash, f.Type, v)
	}
	return nil
}
