// Package bcsv is the top-level facade for the BCSV table codec.
package bcsv

import "github.com/tuannm99/bcsv/internal/bcsv"

type (
	Table     = bcsv.Table
	Header    = bcsv.Header
	Field     = bcsv.Field
	FieldType = bcsv.FieldType
	Options   = bcsv.Options
	Value     = bcsv.Value

	Long      = bcsv.Long
	ULong     = bcsv.ULong
	Short     = bcsv.Short
	Char      = bcsv.Char
	Float     = bcsv.Float
	String    = bcsv.String
	StringOff = bcsv.StringOff
	Null      = bcsv.Null
)

const (
	TypeLong      = bcsv.TypeLong
	TypeString    = bcsv.TypeString
	TypeFloat     = bcsv.TypeFloat
	TypeULong     = bcsv.TypeULong
	TypeShort     = bcsv.TypeShort
	TypeChar      = bcsv.TypeChar
	TypeStringOff = bcsv.TypeStringOff
	TypeNull      = bcsv.TypeNull
)

var (
	ErrTruncatedInput       = bcsv.ErrTruncatedInput
	ErrInconsistentRowCount = bcsv.ErrInconsistentRowCount
	ErrUnsupportedFieldType = bcsv.ErrUnsupportedFieldType
	ErrStringResolution     = bcsv.ErrStringResolution
	ErrTableTooLarge        = bcsv.ErrTableTooLarge
)

func New(opts Options) *Table                          { return bcsv.New(opts) }
func Decode(data []byte, opts Options) (*Table, error) { return bcsv.Decode(data, opts) }
func NewField(hash uint32, t FieldType) Field          { return bcsv.NewField(hash, t) }
func NewStringOff(text string) StringOff               { return bcsv.NewStringOff(text) }
func ParseValue(t FieldType, text string) (Value, error) {
	return bcsv.ParseValue(t, text)
}
