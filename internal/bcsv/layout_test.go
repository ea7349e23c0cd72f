package bcsv

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// TestLayout drives testdata/layout. Each input line declares one field as
// "<Type> [mask=N] [shift=N] [off=N]"; hashes are assigned 1, 2, ...
func TestLayout(t *testing.T) {
	datadriven.RunTest(t, "testdata/layout", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "layout":
			tbl := New(Options{})
			for i, line := range strings.Split(td.Input, "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				f, err := parseFieldSpec(uint32(i+1), line)
				require.NoError(t, err)
				require.NoError(t, tbl.AddField(f, nil))
			}
			lay, err := tbl.layout()
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			var b strings.Builder
			for i, f := range tbl.Fields() {
				fmt.Fprintf(&b, "field %d %s @%d\n", i, f.Type, lay.offsets[i])
			}
			fmt.Fprintf(&b, "entry-size=%d\n", lay.header.EntrySize)
			return b.String()
		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

func parseFieldSpec(hash uint32, line string) (Field, error) {
	parts := strings.Fields(line)
	typ, ok := ParseFieldType(parts[0])
	if !ok {
		return Field{}, errors.Newf("unknown type %q", parts[0])
	}
	f := NewField(hash, typ)
	for _, kv := range parts[1:] {
		k, v, _ := strings.Cut(kv, "=")
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return Field{}, err
		}
		switch k {
		case "mask":
			f.Mask = uint32(n)
		case "shift":
			f.Shift = uint8(n)
		case "off":
			f.DataOff = uint16(n)
		default:
			return Field{}, errors.Newf("unknown key %q", k)
		}
	}
	return f, nil
}
