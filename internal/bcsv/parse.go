package bcsv

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// ParseValue parses text into a value of type t. Integers accept either a
// signed or an unsigned literal of the type's width, in any base prefix
// strconv understands.
func ParseValue(t FieldType, text string) (Value, error) {
	switch t {
	case TypeLong:
		u, err := parseUnsigned[uint32](text, 32)
		if err != nil {
			return nil, err
		}
		return Long(int32(u)), nil
	case TypeULong:
		u, err := parseUnsigned[uint32](text, 32)
		if err != nil {
			return nil, err
		}
		return ULong(u), nil
	case TypeShort:
		u, err := parseUnsigned[uint16](text, 16)
		if err != nil {
			return nil, err
		}
		return Short(u), nil
	case TypeChar:
		u, err := parseUnsigned[uint8](text, 8)
		if err != nil {
			return nil, err
		}
		return Char(u), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q as float", text)
		}
		return Float(f), nil
	case TypeString:
		if len(text) > StringSize {
			return nil, errors.Wrapf(ErrInvalidValue, "%d bytes exceeds %d-byte string", len(text), StringSize)
		}
		return NewString(text), nil
	case TypeStringOff:
		return NewStringOff(text), nil
	default:
		if text != "" {
			return nil, errors.Wrapf(ErrInvalidValue, "%q for Null field", text)
		}
		return Null{}, nil
	}
}

func parseUnsigned[T constraints.Unsigned](text string, bits int) (T, error) {
	if u, err := strconv.ParseUint(text, 0, bits); err == nil {
		return T(u), nil
	}
	i, err := strconv.ParseInt(text, 0, bits)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidValue, "%q as %d-bit integer", text, bits)
	}
	return T(i), nil
}
