package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/hashname"
)

type FieldMeta struct {
	Index   int    `json:"index"`
	Hash    uint32 `json:"hash"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Mask    uint32 `json:"mask"`
	Shift   uint8  `json:"shift"`
	DataOff uint16 `json:"data_off"`
	Packed  bool   `json:"packed"`
}

type TableMeta struct {
	Name         string      `json:"name"`
	EntryCount   uint32      `json:"entry_count"`
	FieldCount   uint32      `json:"field_count"`
	EntryDataOff uint32      `json:"entry_data_off"`
	EntrySize    uint32      `json:"entry_size"`
	PoolOffset   int64       `json:"string_pool_offset"`
	FileSize     int64       `json:"file_size"`
	TotalSize    int64       `json:"total_size"`
	Fields       []FieldMeta `json:"fields"`
}

// Describe snapshots the header and fields of t as stored in its file.
// fileSize is the length of the file the table was read from; TotalSize is
// what writing the table now would produce.
func Describe(name string, t *bcsv.Table, fileSize int64, names *hashname.Table) (*TableMeta, error) {
	total, err := t.TotalSize()
	if err != nil {
		return nil, err
	}
	meta := &TableMeta{
		Name:         name,
		EntryCount:   t.Header.EntryCount,
		FieldCount:   t.Header.FieldCount,
		EntryDataOff: t.Header.EntryDataOff,
		EntrySize:    t.Header.EntrySize,
		PoolOffset:   t.Header.StringPoolOffset(),
		FileSize:     fileSize,
		TotalSize:    total,
	}
	for i, f := range t.Fields() {
		fm := FieldMeta{
			Index:   i,
			Hash:    f.Hash,
			Type:    f.Type.String(),
			Mask:    f.Mask,
			Shift:   f.Shift,
			DataOff: f.DataOff,
			Packed:  f.Packed(),
		}
		if n, ok := names.Lookup(f.Hash); ok {
			fm.Name = n
		}
		meta.Fields = append(meta.Fields, fm)
	}
	return meta, nil
}

func (m *TableMeta) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteText prints the header summary followed by one line per field.
func (m *TableMeta) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"%s: %d rows, %d fields, entry size %d, data at %d, pool at %d, %d bytes (rewrite %d)\n",
		m.Name, m.EntryCount, m.FieldCount, m.EntrySize, m.EntryDataOff, m.PoolOffset, m.FileSize, m.TotalSize)
	if err != nil {
		return err
	}
	for _, f := range m.Fields {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("0x%X", f.Hash)
		}
		_, err := fmt.Fprintf(w, "  [%d] %-24s %-9s off=%-4d mask=0x%08X shift=%d\n",
			f.Index, name, f.Type, f.DataOff, f.Mask, f.Shift)
		if err != nil {
			return err
		}
	}
	return nil
}
