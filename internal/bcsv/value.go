package bcsv

import (
	"bytes"
	"strconv"
	"strings"
)

// Value is one cell. The set of implementations is closed and mirrors
// FieldType one to one.
type Value interface {
	Type() FieldType
	// Format renders the logical value. With signed set, unsigned integer
	// cells render as the two's complement of their storage width.
	Format(signed bool) string
	isValue()
}

type (
	Long  int32
	ULong uint32
	Short uint16
	Char  uint8
	Float float32

	// String is a fixed 32-byte inline text block.
	String [StringSize]byte

	// StringOff is a pool string. Offset is the last pool offset assigned
	// to the cell; Text is its content.
	StringOff struct {
		Offset uint32
		Text   string
	}

	Null struct{}
)

var (
	_ Value = Long(0)
	_ Value = ULong(0)
	_ Value = Short(0)
	_ Value = Char(0)
	_ Value = Float(0)
	_ Value = String{}
	_ Value = StringOff{}
	_ Value = Null{}
)

func (Long) Type() FieldType      { return TypeLong }
func (ULong) Type() FieldType     { return TypeULong }
func (Short) Type() FieldType     { return TypeShort }
func (Char) Type() FieldType      { return TypeChar }
func (Float) Type() FieldType     { return TypeFloat }
func (String) Type() FieldType    { return TypeString }
func (StringOff) Type() FieldType { return TypeStringOff }
func (Null) Type() FieldType      { return TypeNull }

func (Long) isValue()      {}
func (ULong) isValue()     {}
func (Short) isValue()     {}
func (Char) isValue()      {}
func (Float) isValue()     {}
func (String) isValue()    {}
func (StringOff) isValue() {}
func (Null) isValue()      {}

// Long is a signed type and ignores the signed flag.
func (v Long) Format(bool) string {
	return strconv.FormatInt(int64(v), 10)
}

func (v ULong) Format(signed bool) string {
	if signed {
		return strconv.FormatInt(int64(int32(v)), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

func (v Short) Format(signed bool) string {
	if signed {
		return strconv.FormatInt(int64(int16(v)), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

func (v Char) Format(signed bool) string {
	if signed {
		return strconv.FormatInt(int64(int8(v)), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

func (v Float) Format(bool) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Format shows the bytes before the first NUL.
func (v String) Format(bool) string {
	b := v[:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "�")
}

func (v StringOff) Format(bool) string { return v.Text }

func (Null) Format(bool) string { return "" }

// NewString copies s into a String block, truncating past 32 bytes.
func NewString(s string) String {
	var v String
	copy(v[:], s)
	return v
}

func NewStringOff(text string) StringOff {
	return StringOff{Text: text}
}

// Zero returns the zero value for t.
func Zero(t FieldType) Value {
	switch t {
	case TypeLong:
		return Long(0)
	case TypeString:
		return String{}
	case TypeFloat:
		return Float(0)
	case TypeULong:
		return ULong(0)
	case TypeShort:
		return Short(0)
	case TypeChar:
		return Char(0)
	case TypeStringOff:
		return StringOff{}
	default:
		return Null{}
	}
}
