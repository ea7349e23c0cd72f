// Package hashname computes field-name hashes and maps hashes back to names
// for display.
package hashname

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	VariantX3_16  = "x3-16"
	VariantX31_32 = "x31-32"
)

var ErrUnknownVariant = errors.New("hashname: unknown hash variant")

// Func hashes a field name. 16-bit variants are zero-extended.
type Func func(name string) uint32

// X3_16 accumulates hash = hash*3 + b over a 16-bit register.
func X3_16(name string) uint32 {
	var h uint16
	for i := 0; i < len(name); i++ {
		h = h*3 + uint16(name[i])
	}
	return uint32(h)
}

// X31_32 accumulates hash = hash*31 + b over a 32-bit register.
func X31_32(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*31 + uint32(name[i])
	}
	return h
}

// ByName resolves a configured variant name.
func ByName(variant string) (Func, error) {
	switch variant {
	case VariantX3_16, "":
		return X3_16, nil
	case VariantX31_32:
		return X31_32, nil
	default:
		return nil, errors.Wrapf(ErrUnknownVariant, "%q", variant)
	}
}

// Table maps hashes back to the names that produced them. The zero Table is
// not usable; a nil *Table answers every lookup with the hex form.
type Table struct {
	hash  Func
	names map[uint32]string
}

func NewTable(hash Func) *Table {
	return &Table{hash: hash, names: make(map[uint32]string)}
}

// Add hashes name and records it unless the hash is already taken.
func (t *Table) Add(name string) uint32 {
	h := t.hash(name)
	if prev, ok := t.names[h]; ok {
		if prev != name {
			slog.Warn("hashname: hash collision, keeping first name",
				"hash", h,
				"kept", prev,
				"dropped", name,
			)
		}
		return h
	}
	t.names[h] = name
	return h
}

// Load reads one name per line. Blank lines and lines starting with '#'
// are skipped.
func (t *Table) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t.Add(line)
		n++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "hashname: read names")
	}
	slog.Debug("hashname: loaded names", "lines", n, "distinct", len(t.names))
	return nil
}

func (t *Table) Lookup(hash uint32) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[hash]
	return name, ok
}

// Display is the known name of hash, or 0x followed by upper-case hex.
func (t *Table) Display(hash uint32) string {
	if name, ok := t.Lookup(hash); ok {
		return name
	}
	return fmt.Sprintf("0x%X", hash)
}

// Resolve turns user input into a hash. A 0x-prefixed hex literal is taken
// as is; anything else is hashed as a name.
func (t *Table) Resolve(s string) uint32 {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		if h, err := strconv.ParseUint(s[2:], 16, 32); err == nil {
			return uint32(h)
		}
	}
	return t.hash(s)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
