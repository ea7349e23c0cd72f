// Package shell interprets interactive commands against one loaded table.
package shell

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/catalog"
	"github.com/tuannm99/bcsv/internal/engine"
	"github.com/tuannm99/bcsv/internal/render"
	"github.com/tuannm99/bcsv/internal/storage"
)

var (
	ErrQuit           = errors.New("shell: quit")
	ErrUsage          = errors.New("shell: usage")
	ErrUnknownCommand = errors.New("shell: unknown command")
)

const defaultShowCount = 20

const helpText = `commands:
  fields                         list fields
  show [from] [count]            print rows as a grid
  get <field> <row>              print one value
  set <field> <row> <value>      change one value
  addrow                         append a row of zero values
  addfield <name> <type>         append a field (Long, String, Float, ULong,
                                 Short, Char, StringOff, Null)
  info                           header and layout summary
  save [path]                    write the table (to path, or where it came from)
meta:
  \history                       print history
  \help                          show help
  \q | quit | exit               quit

a field is a name from the name table, any name to hash, or 0xHASH`

// Session owns one table and the file it was loaded from.
type Session struct {
	eng     *engine.Engine
	path    string
	size    int64
	table   *bcsv.Table
	history *History
	out     io.Writer
	dirty   bool
}

// Open loads path and starts a session writing to out.
func Open(eng *engine.Engine, path string, history *History, out io.Writer) (*Session, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := bcsv.Decode(data, eng.Options())
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return NewSession(eng, path, int64(len(data)), t, history, out), nil
}

func NewSession(eng *engine.Engine, path string, size int64, t *bcsv.Table, history *History, out io.Writer) *Session {
	if history == nil {
		history = NewHistory("")
	}
	return &Session{eng: eng, path: path, size: size, table: t, history: history, out: out}
}

func (s *Session) Table() *bcsv.Table { return s.table }
func (s *Session) Path() string       { return s.path }
func (s *Session) Dirty() bool        { return s.dirty }

// Exec runs one command line. It returns ErrQuit when the session should
// end; any other error is reported to the user and the session goes on.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, `\`) {
		_ = s.history.Append(line)
	}

	cmd, rest := cut(line)
	switch cmd {
	case `\q`, "quit", "exit":
		if s.dirty {
			fmt.Fprintln(s.out, "discarding unsaved changes")
		}
		return ErrQuit
	case `\help`:
		fmt.Fprintln(s.out, helpText)
		return nil
	case `\history`:
		s.history.Print(s.out, 50)
		return nil
	case "fields":
		return s.fields()
	case "show":
		return s.show(rest)
	case "get":
		return s.get(rest)
	case "set":
		return s.set(rest)
	case "addrow":
		return s.addRow()
	case "addfield":
		return s.addField(rest)
	case "info":
		return s.info()
	case "save":
		return s.save(rest)
	default:
		return errors.Wrapf(ErrUnknownCommand, "%q (try \\help)", cmd)
	}
}

func (s *Session) fields() error {
	names := s.eng.Names()
	for i, f := range s.table.Fields() {
		fmt.Fprintf(s.out, "%3d  %-24s %-9s off=%-4d mask=0x%08X shift=%d\n",
			i, names.Display(f.Hash), f.Type, f.DataOff, f.Mask, f.Shift)
	}
	return nil
}

func (s *Session) show(args string) error {
	from, count := 0, defaultShowCount
	parts := strings.Fields(args)
	if len(parts) > 2 {
		return errors.Wrap(ErrUsage, "show [from] [count]")
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return errors.Wrapf(ErrUsage, "show: %q is not a row count", p)
		}
		if i == 0 {
			from = n
		} else {
			count = n
		}
	}
	return render.Grid(s.out, s.table, from, count, s.eng.RenderOptions())
}

// cell parses "<field> <row>" and returns the field hash, row and the rest
// of the line.
func (s *Session) cell(args, usage string) (uint32, int, string, error) {
	fieldArg, rest := cut(args)
	rowArg, rest := cut(rest)
	if fieldArg == "" || rowArg == "" {
		return 0, 0, "", errors.Wrap(ErrUsage, usage)
	}
	row, err := strconv.Atoi(rowArg)
	if err != nil {
		return 0, 0, "", errors.Wrapf(ErrUsage, "%s: row %q", usage, rowArg)
	}
	return s.eng.Names().Resolve(fieldArg), row, rest, nil
}

func (s *Session) get(args string) error {
	hash, row, _, err := s.cell(args, "get <field> <row>")
	if err != nil {
		return err
	}
	v, err := s.table.Value(hash, row)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v.Format(s.eng.RenderOptions().Signed))
	return nil
}

func (s *Session) set(args string) error {
	hash, row, text, err := s.cell(args, "set <field> <row> <value>")
	if err != nil {
		return err
	}
	f, ok := s.table.FieldByHash(hash)
	if !ok {
		return errors.Wrapf(bcsv.ErrFieldNotFound, "0x%X", hash)
	}
	v, err := bcsv.ParseValue(f.Type, text)
	if err != nil {
		return err
	}
	if err := s.table.SetValue(hash, row, v); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Session) addRow() error {
	fields := s.table.Fields()
	values := make([]bcsv.Value, len(fields))
	for i, f := range fields {
		values[i] = bcsv.Zero(f.Type)
	}
	if err := s.table.AppendRow(values...); err != nil {
		return err
	}
	s.dirty = true
	fmt.Fprintf(s.out, "row %d added\n", s.table.Rows()-1)
	return nil
}

func (s *Session) addField(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.Wrap(ErrUsage, "addfield <name> <type>")
	}
	typ, ok := bcsv.ParseFieldType(parts[1])
	if !ok {
		return errors.Wrapf(ErrUsage, "addfield: unknown type %q", parts[1])
	}
	names := s.eng.Names()
	hash := names.Resolve(parts[0])
	if !strings.HasPrefix(strings.ToLower(parts[0]), "0x") {
		names.Add(parts[0])
	}
	if err := s.table.AddField(bcsv.NewField(hash, typ), nil); err != nil {
		return err
	}
	s.dirty = true
	fmt.Fprintf(s.out, "field %s added as 0x%X\n", parts[0], hash)
	return nil
}

func (s *Session) info() error {
	meta, err := catalog.Describe(s.path, s.table, s.size, s.eng.Names())
	if err != nil {
		return err
	}
	return meta.WriteText(s.out)
}

func (s *Session) save(args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		path = s.path
	}
	if err := s.eng.Save(path, s.table); err != nil {
		return err
	}
	size, err := s.table.TotalSize()
	if err != nil {
		return err
	}
	s.path, s.size, s.dirty = path, size, false
	slog.Info("saved table", "path", path, "bytes", size)
	fmt.Fprintf(s.out, "saved %s (%d bytes)\n", path, size)
	return nil
}

// cut splits off the first whitespace-separated word.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
