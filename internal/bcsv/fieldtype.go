package bcsv

import "fmt"

// FieldType is the 1-byte column encoding tag.
type FieldType uint8

const (
	TypeLong FieldType = iota
	TypeString
	TypeFloat
	TypeULong
	TypeShort
	TypeChar
	TypeStringOff
	TypeNull
)

// StringSize is the width of an inline String cell.
const StringSize = 32

// FieldTypeFromTag maps a wire tag to a FieldType. Tags past TypeNull are
// reported as not ok and map to TypeNull.
func FieldTypeFromTag(tag uint8) (FieldType, bool) {
	if tag > uint8(TypeNull) {
		return TypeNull, false
	}
	return FieldType(tag), true
}

// Size is the number of row bytes a field of this type occupies.
func (t FieldType) Size() int {
	switch t {
	case TypeLong, TypeULong, TypeFloat, TypeStringOff:
		return 4
	case TypeShort:
		return 2
	case TypeChar:
		return 1
	case TypeString:
		return StringSize
	default:
		return 0
	}
}

// Mask is the full-width mask of the type. Float and String are never
// bit-packed and report 0.
func (t FieldType) Mask() uint32 {
	switch t {
	case TypeLong, TypeULong, TypeStringOff:
		return 0xFFFFFFFF
	case TypeShort:
		return 0xFFFF
	case TypeChar:
		return 0xFF
	default:
		return 0
	}
}

// Order is the sort key used when laying out a row. It is a fixed ordering
// of the format, not a width ordering.
func (t FieldType) Order() int {
	switch t {
	case TypeString:
		return 0
	case TypeFloat:
		return 1
	case TypeLong:
		return 2
	case TypeULong:
		return 3
	case TypeShort:
		return 4
	case TypeChar:
		return 5
	case TypeStringOff:
		return 6
	default:
		return -1
	}
}

func (t FieldType) isInteger() bool {
	return t.Mask() != 0
}

func (t FieldType) String() string {
	switch t {
	case TypeLong:
		return "Long"
	case TypeString:
		return "String"
	case TypeFloat:
		return "Float"
	case TypeULong:
		return "ULong"
	case TypeShort:
		return "Short"
	case TypeChar:
		return "Char"
	case TypeStringOff:
		return "StringOff"
	case TypeNull:
		return "Null"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// ParseFieldType is the inverse of String, case-sensitive.
func ParseFieldType(s string) (FieldType, bool) {
	for t := TypeLong; t <= TypeNull; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TypeNull, false
}
