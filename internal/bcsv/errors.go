package bcsv

import "github.com/cockroachdb/errors"

var (
	ErrTruncatedInput       = errors.New("bcsv: truncated input")
	ErrInconsistentRowCount = errors.New("bcsv: columns have different row counts")
	ErrUnsupportedFieldType = errors.New("bcsv: unsupported field type")
	ErrStringResolution     = errors.New("bcsv: cannot resolve string pool entry")
	ErrTableTooLarge        = errors.New("bcsv: table exceeds cell limit")

	ErrFieldNotFound  = errors.New("bcsv: field not found")
	ErrDuplicateField = errors.New("bcsv: duplicate field hash")
	ErrRowOutOfRange  = errors.New("bcsv: row out of range")
	ErrTypeMismatch   = errors.New("bcsv: value type does not match field type")
	ErrRowTooWide     = errors.New("bcsv: packed row exceeds 16-bit data offsets")
	ErrInvalidValue   = errors.New("bcsv: invalid value text")
	ErrTextEncoding   = errors.New("bcsv: text encoding failed")
)

// maxCells bounds rows*fields on read. Zero-width fields take no row bytes,
// so the input length alone does not bound the number of cells.
const maxCells = 1 << 25

// truncated marks err as ErrTruncatedInput while keeping its cause chain.
func truncated(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrTruncatedInput)
}
