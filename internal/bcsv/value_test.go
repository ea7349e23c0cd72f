package bcsv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueFormat(t *testing.T) {
	cases := []struct {
		name     string
		v        Value
		unsigned string
		signed   string
	}{
		{"long", Long(-5), "-5", "-5"},
		{"ulong max", ULong(0xFFFFFFFF), "4294967295", "-1"},
		{"short max", Short(0xFFFF), "65535", "-1"},
		{"short positive", Short(300), "300", "300"},
		{"char max", Char(0xFF), "255", "-1"},
		{"char 0x80", Char(0x80), "128", "-128"},
		{"float", Float(1.25), "1.25", "1.25"},
		{"string", NewString("abc"), "abc", "abc"},
		{"string off", StringOff{Offset: 9, Text: "pool"}, "pool", "pool"},
		{"null", Null{}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.unsigned, tc.v.Format(false))
			require.Equal(t, tc.signed, tc.v.Format(true))
		})
	}
}

func TestStringValue(t *testing.T) {
	t.Run("embedded NUL truncates display only", func(t *testing.T) {
		var v String
		copy(v[:], "ab\x00cd")
		require.Equal(t, "ab", v.Format(false))
		require.Equal(t, byte('c'), v[3])
	})

	t.Run("full width", func(t *testing.T) {
		long := "0123456789abcdef0123456789abcdefXYZ"
		v := NewString(long)
		require.Equal(t, long[:32], v.Format(false))
	})
}

func TestZeroMatchesType(t *testing.T) {
	for typ := TypeLong; typ <= TypeNull; typ++ {
		require.Equal(t, typ, Zero(typ).Type())
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		typ  FieldType
		text string
		want Value
	}{
		{TypeLong, "-2", Long(-2)},
		{TypeLong, "0x10", Long(16)},
		{TypeLong, "4294967295", Long(-1)},
		{TypeULong, "4294967295", ULong(0xFFFFFFFF)},
		{TypeULong, "-1", ULong(0xFFFFFFFF)},
		{TypeShort, "-1", Short(0xFFFF)},
		{TypeShort, "65535", Short(0xFFFF)},
		{TypeChar, "-1", Char(0xFF)},
		{TypeChar, "200", Char(200)},
		{TypeFloat, "2.5", Float(2.5)},
		{TypeString, "name", NewString("name")},
		{TypeStringOff, "pool text", NewStringOff("pool text")},
		{TypeNull, "", Null{}},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String()+"/"+tc.text, func(t *testing.T) {
			got, err := ParseValue(tc.typ, tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	bad := []struct {
		typ  FieldType
		text string
	}{
		{TypeChar, "256"},
		{TypeChar, "-129"},
		{TypeShort, "70000"},
		{TypeLong, "abc"},
		{TypeFloat, "x"},
		{TypeString, "0123456789abcdef0123456789abcdefX"},
		{TypeNull, "1"},
	}
	for _, tc := range bad {
		_, err := ParseValue(tc.typ, tc.text)
		require.ErrorIs(t, err, ErrInvalidValue, "%s %q", tc.typ, tc.text)
	}
}
