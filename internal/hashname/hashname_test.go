package hashname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVariants(t *testing.T) {
	cases := []struct {
		name string
		x3   uint32
		x31  uint32
	}{
		{"", 0, 0},
		{"a", 0x61, 0x61},
		{"ab", 0x185, 0xC21},
		{"abc", 0x4F2, 0x17862},
		{"ScenarioNo", 0xFF69, 0xED08B591},
		{"ObjectName", 0xC2D6, 0xB665B68A},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.x3, X3_16(tc.name))
			assert.Equal(t, tc.x31, X31_32(tc.name))
		})
	}
}

func TestByName(t *testing.T) {
	h, err := ByName("x3-16")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x185), h("ab"))

	h, err = ByName("x31-32")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xC21), h("ab"))

	// empty selects the default
	h, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x185), h("ab"))

	_, err = ByName("crc32")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestTableLoad(t *testing.T) {
	input := strings.Join([]string{
		"# comment line",
		"ab",
		"",
		"ObjectName\r",
		"b_", // same x3-16 hash as "ab"
		"ab",
	}, "\n")

	tbl := NewTable(X3_16)
	require.NoError(t, tbl.Load(strings.NewReader(input)))
	assert.Equal(t, 2, tbl.Len())

	name, ok := tbl.Lookup(0x185)
	require.True(t, ok)
	assert.Equal(t, "ab", name)

	assert.Equal(t, "ObjectName", tbl.Display(0xC2D6))
	assert.Equal(t, "0xBEEF", tbl.Display(0xBEEF))

	_, ok = tbl.Lookup(X3_16("# comment line"))
	assert.False(t, ok)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, "0x1F", tbl.Display(0x1F))
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Lookup(1)
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tbl := NewTable(X31_32)
	assert.Equal(t, uint32(0xC21), tbl.Resolve("ab"))
	assert.Equal(t, uint32(0xDEADBEEF), tbl.Resolve("0xDEADBEEF"))
	assert.Equal(t, uint32(0x10), tbl.Resolve("0X10"))
	// not valid hex: hashed as a name
	assert.Equal(t, X31_32("0xZZ"), tbl.Resolve("0xZZ"))
}
