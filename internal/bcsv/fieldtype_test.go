package bcsv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldTypeAttributes(t *testing.T) {
	cases := []struct {
		typ   FieldType
		size  int
		mask  uint32
		order int
	}{
		{TypeString, 32, 0, 0},
		{TypeFloat, 4, 0, 1},
		{TypeLong, 4, 0xFFFFFFFF, 2},
		{TypeULong, 4, 0xFFFFFFFF, 3},
		{TypeShort, 2, 0xFFFF, 4},
		{TypeChar, 1, 0xFF, 5},
		{TypeStringOff, 4, 0xFFFFFFFF, 6},
		{TypeNull, 0, 0, -1},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			require.Equal(t, tc.size, tc.typ.Size())
			require.Equal(t, tc.mask, tc.typ.Mask())
			require.Equal(t, tc.order, tc.typ.Order())

			parsed, ok := ParseFieldType(tc.typ.String())
			require.True(t, ok)
			require.Equal(t, tc.typ, parsed)
		})
	}
}

func TestFieldTypeFromTag(t *testing.T) {
	for tag := uint8(0); tag <= 7; tag++ {
		typ, ok := FieldTypeFromTag(tag)
		require.True(t, ok)
		require.Equal(t, FieldType(tag), typ)
	}

	typ, ok := FieldTypeFromTag(8)
	require.False(t, ok)
	require.Equal(t, TypeNull, typ)

	typ, ok = FieldTypeFromTag(0xFF)
	require.False(t, ok)
	require.Equal(t, TypeNull, typ)

	_, ok = ParseFieldType("long")
	require.False(t, ok)
}
