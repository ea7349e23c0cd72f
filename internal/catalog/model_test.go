package catalog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/hashname"
)

func TestDescribe(t *testing.T) {
	names := hashname.NewTable(hashname.X3_16)
	hp := names.Add("hp")

	tbl := bcsv.New(bcsv.Options{})
	require.NoError(t, tbl.AddField(bcsv.NewField(hp, bcsv.TypeChar), nil))
	require.NoError(t, tbl.AddField(bcsv.NewPackedField(0x77, bcsv.TypeShort, 0x0F00, 8), nil))
	require.NoError(t, tbl.AppendRow(bcsv.Char(1), bcsv.Short(2)))

	data, err := tbl.Encode()
	require.NoError(t, err)
	back, err := bcsv.Decode(data, bcsv.Options{})
	require.NoError(t, err)

	meta, err := Describe("sample", back, int64(len(data)), names)
	require.NoError(t, err)
	require.Equal(t, uint32(1), meta.EntryCount)
	require.Equal(t, uint32(40), meta.EntryDataOff)
	require.Equal(t, uint32(3), meta.EntrySize)
	require.Equal(t, int64(43), meta.PoolOffset)
	require.Equal(t, int64(64), meta.FileSize)
	require.Equal(t, meta.FileSize, meta.TotalSize)

	require.Len(t, meta.Fields, 2)
	require.Equal(t, FieldMeta{Index: 0, Hash: hp, Name: "hp", Type: "Char", Mask: 0xFF, DataOff: 2}, meta.Fields[0])
	require.Equal(t, FieldMeta{Index: 1, Hash: 0x77, Type: "Short", Mask: 0x0F00, Shift: 8, Packed: true}, meta.Fields[1])

	var buf bytes.Buffer
	require.NoError(t, meta.WriteJSON(&buf))
	require.Contains(t, buf.String(), `"string_pool_offset": 43`)

	var again TableMeta
	require.NoError(t, json.Unmarshal(buf.Bytes(), &again))
	require.Equal(t, *meta, again)
}

func TestWriteText(t *testing.T) {
	meta := &TableMeta{
		Name:       "t.bcsv",
		EntryCount: 2, FieldCount: 1, EntryDataOff: 28, EntrySize: 4,
		PoolOffset: 36, FileSize: 64, TotalSize: 64,
		Fields: []FieldMeta{{Index: 0, Hash: 0xAB, Type: "Long", Mask: 0xFFFFFFFF}},
	}
	var buf bytes.Buffer
	require.NoError(t, meta.WriteText(&buf))
	require.Equal(t,
		"t.bcsv: 2 rows, 1 fields, entry size 4, data at 28, pool at 36, 64 bytes (rewrite 64)\n"+
			"  [0] 0xAB                     Long      off=0    mask=0xFFFFFFFF shift=0\n",
		buf.String())
}
