// Package render formats tables as text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/hashname"
)

type Options struct {
	Delimiter string // "," when empty
	Names     *hashname.Table
	Signed    bool
}

func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return ","
	}
	return o.Delimiter
}

// Header returns "name:Type" for every field, falling back to 0xHASH when
// the name is unknown.
func Header(t *bcsv.Table, names *hashname.Table) []string {
	fields := t.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = names.Display(f.Hash) + ":" + f.Type.String()
	}
	return out
}

// Cells formats one row.
func Cells(t *bcsv.Table, row int, signed bool) ([]string, error) {
	values, err := t.Row(row)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Format(signed)
	}
	return out, nil
}

// CSV writes a header line and one line per row. Values are not quoted.
func CSV(w io.Writer, t *bcsv.Table, opts Options) error {
	if t.NumFields() == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	delim := opts.delimiter()

	bw.WriteString(strings.Join(Header(t, opts.Names), delim))
	bw.WriteByte('\n')
	for row := 0; row < t.Rows(); row++ {
		cells, err := Cells(t, row, opts.Signed)
		if err != nil {
			return err
		}
		bw.WriteString(strings.Join(cells, delim))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Grid writes rows [from, from+count) as an aligned table with a leading
// row-number column. A negative count means every remaining row.
func Grid(w io.Writer, t *bcsv.Table, from, count int, opts Options) error {
	total := t.Rows()
	from = max(0, min(from, total))
	end := total
	if count >= 0 {
		end = min(total, from+count)
	}

	cols := append([]string{"#"}, Header(t, opts.Names)...)
	rows := make([][]string, 0, end-from)
	for row := from; row < end; row++ {
		cells, err := Cells(t, row, opts.Signed)
		if err != nil {
			return err
		}
		rows = append(rows, append([]string{fmt.Sprint(row)}, cells...))
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = width(c)
	}
	for _, row := range rows {
		for i, s := range row {
			widths[i] = max(widths[i], width(s))
		}
	}

	bw := bufio.NewWriter(w)
	printRow := func(values []string) {
		for i, v := range values {
			if i > 0 {
				bw.WriteString(" | ")
			}
			if i == len(values)-1 {
				bw.WriteString(v)
			} else {
				bw.WriteString(padRight(v, widths[i]))
			}
		}
		bw.WriteByte('\n')
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			bw.WriteString("-+-")
		}
		bw.WriteString(strings.Repeat("-", widths[i]))
	}
	bw.WriteByte('\n')
	for _, row := range rows {
		printRow(row)
	}
	fmt.Fprintf(bw, "(%d of %d rows)\n", len(rows), total)
	return bw.Flush()
}

func width(s string) int { return utf8.RuneCountInString(s) }

func padRight(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
