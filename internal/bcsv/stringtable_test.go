package bcsv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

func TestStringTableAdd(t *testing.T) {
	st := NewStringTable()
	require.Equal(t, uint32(0), st.Add("abc"))
	require.Equal(t, uint32(4), st.Add("de"))
	require.Equal(t, uint32(0), st.Add("abc"))
	require.Equal(t, uint32(7), st.Add(""))
	require.Equal(t, uint32(8), st.Add("f"))

	require.Equal(t, 4, st.Len())
	require.Equal(t, int64(10), st.Size())

	require.Equal(t, uint32(4), st.Add("de"))
	require.Equal(t, 4, st.Len())

	s := bx.NewWriter(bx.BE)
	require.NoError(t, st.WriteTo(s))
	require.Equal(t, []byte("abc\x00de\x00\x00f\x00"), s.Bytes())
}

func TestRewritePointersOrder(t *testing.T) {
	tbl := New(Options{})
	require.NoError(t, tbl.AddField(NewField(1, TypeStringOff), nil))
	require.NoError(t, tbl.AddField(NewField(2, TypeLong), nil))
	require.NoError(t, tbl.AddField(NewField(3, TypeStringOff), nil))

	require.NoError(t, tbl.AppendRow(NewStringOff("b"), Long(1), NewStringOff("a")))
	require.NoError(t, tbl.AppendRow(NewStringOff("c"), Long(2), NewStringOff("b")))

	st := NewStringTable()
	require.NoError(t, st.RewritePointers(tbl))

	// column 1 first (b, c), then column 3 (a, b)
	col1, err := tbl.Column(1)
	require.NoError(t, err)
	require.Equal(t, []Value{StringOff{0, "b"}, StringOff{2, "c"}}, col1)

	col3, err := tbl.Column(3)
	require.NoError(t, err)
	require.Equal(t, []Value{StringOff{4, "a"}, StringOff{0, "b"}}, col3)

	require.Equal(t, 3, st.Len())
	require.Equal(t, int64(6), st.Size())
}

func TestRewritePointersRejectsNUL(t *testing.T) {
	tbl := New(Options{})
	require.NoError(t, tbl.AddField(NewField(1, TypeStringOff), nil))
	require.NoError(t, tbl.AppendRow(NewStringOff("a\x00b")))

	err := NewStringTable().RewritePointers(tbl)
	require.ErrorIs(t, err, ErrTextEncoding)
}
