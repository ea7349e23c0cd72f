package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBigEndianReadWrite verifies fixed-width writes and reads round-trip
// using big-endian encoding.
func TestBigEndianReadWrite(t *testing.T) {
	s := NewWriter(BE)
	s.PutU8(0xAB)
	s.PutU16(0x1234)
	s.PutU32(0x01020304)
	s.PutF32(1.5)

	// BE: most-significant byte goes first
	assert.Equal(t, []byte{
		0xAB,
		0x12, 0x34,
		0x01, 0x02, 0x03, 0x04,
		0x3F, 0xC0, 0x00, 0x00,
	}, s.Bytes())

	r := NewReader(s.Bytes(), BE)
	u8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	f, err := r.F32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)
	assert.Equal(t, r.Len(), r.Pos())
}

// TestLittleEndianReadWrite checks the byte order is taken from the stream.
func TestLittleEndianReadWrite(t *testing.T) {
	s := NewWriter(LE)
	s.PutU16(0x1234)
	s.PutU32(0x01020304)
	assert.Equal(t, []byte{0x34, 0x12, 0x04, 0x03, 0x02, 0x01}, s.Bytes())

	r := NewReader(s.Bytes(), LE)
	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
}

func TestShortRead(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03}, BE)
	_, err := r.U32()
	require.ErrorIs(t, err, ErrShortRead)
	// failed read does not consume
	assert.Equal(t, 0, r.Pos())

	require.NoError(t, r.Seek(10))
	_, err = r.U8()
	require.ErrorIs(t, err, ErrShortRead)

	require.ErrorIs(t, r.Seek(-1), ErrBadSeek)
}

func TestCString(t *testing.T) {
	data := []byte("abc\x00de\x00fg")

	t.Run("sequential", func(t *testing.T) {
		r := NewReader(data, BE)
		b, err := r.CString()
		require.NoError(t, err)
		assert.Equal(t, "abc", string(b))
		b, err = r.CString()
		require.NoError(t, err)
		assert.Equal(t, "de", string(b))

		_, err = r.CString()
		require.ErrorIs(t, err, ErrNoCString)
	})

	t.Run("at keeps cursor", func(t *testing.T) {
		r := NewReader(data, BE)
		require.NoError(t, r.Seek(1))

		b, err := r.CStringAt(4)
		require.NoError(t, err)
		assert.Equal(t, "de", string(b))
		assert.Equal(t, 1, r.Pos())

		_, err = r.CStringAt(8)
		require.ErrorIs(t, err, ErrNoCString)
		assert.Equal(t, 1, r.Pos())

		_, err = r.CStringAt(100)
		require.ErrorIs(t, err, ErrShortRead)
		assert.Equal(t, 1, r.Pos())
	})
}

func TestWriteGapAndPad(t *testing.T) {
	s := NewWriter(BE)
	s.PutU8(1)
	require.NoError(t, s.Seek(4))
	s.PutU8(2)
	assert.Equal(t, []byte{1, 0, 0, 0, 2}, s.Bytes())

	s.Pad(8, 0x40)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0x40, 0x40, 0x40}, s.Bytes())

	// already aligned: nothing written
	s.Pad(8, 0x40)
	assert.Equal(t, 8, s.Len())

	// overwrite in the middle keeps length
	require.NoError(t, s.Seek(1))
	s.PutU16(0xFFFF)
	assert.Equal(t, []byte{1, 0xFF, 0xFF, 0, 2, 0x40, 0x40, 0x40}, s.Bytes())
}

func TestTruncate(t *testing.T) {
	s := NewWriter(BE)
	s.PutU32(0x01020304)
	require.NoError(t, s.Seek(1))
	s.PutU8(0xFF)
	s.Truncate()
	assert.Equal(t, []byte{0x01, 0xFF}, s.Bytes())

	// beyond the end nothing changes
	require.NoError(t, s.Seek(10))
	s.Truncate()
	assert.Equal(t, 2, s.Len())
}

func TestPutCString(t *testing.T) {
	s := NewWriter(BE)
	require.NoError(t, s.PutCString([]byte("hi")))
	require.NoError(t, s.PutCString(nil))
	assert.Equal(t, []byte{'h', 'i', 0, 0}, s.Bytes())

	require.ErrorIs(t, s.PutCString([]byte{'a', 0}), ErrEmbeddedNUL)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, int64(0), AlignUp(0, 32))
	assert.Equal(t, int64(32), AlignUp(1, 32))
	assert.Equal(t, int64(32), AlignUp(32, 32))
	assert.Equal(t, int64(64), AlignUp(33, 32))
}
