package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/alias/util"
	"github.com/tuannm99/bcsv/internal/storage"
)

// History is the command history kept in its own file, one command per
// line.
type History struct {
	path  string
	lines []string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) Lines() []string { return h.lines }

// Load reads at most max trailing lines; max <= 0 keeps everything. A
// missing file is an empty history.
func (h *History) Load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "open history")
	}
	defer util.CloseFileFunc(f)

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := compactOneLine(sc.Text()); s != "" {
			lines = append(lines, s)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "read history %s", h.path)
	}
	if max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	h.lines = append(h.lines, lines...)
	return nil
}

// Append records cmd in memory and, when a path is set, in the file.
func (h *History) Append(cmd string) error {
	cmd = compactOneLine(cmd)
	if cmd == "" {
		return nil
	}
	h.lines = append(h.lines, cmd)
	if h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), storage.FileMode0755); err != nil {
		return errors.Wrap(err, "create history dir")
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, storage.FileMode0644)
	if err != nil {
		return errors.Wrap(err, "open history")
	}
	defer util.CloseFileFunc(f)

	if _, err := fmt.Fprintln(f, cmd); err != nil {
		return errors.Wrapf(err, "append history %s", h.path)
	}
	return nil
}

// Print writes the last n entries, numbered from the start of history.
func (h *History) Print(w io.Writer, last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	for i := len(h.lines) - last; i < len(h.lines); i++ {
		fmt.Fprintf(w, "%5d  %s\n", i+1, h.lines[i])
	}
}

// compactOneLine collapses runs of whitespace into single spaces.
func compactOneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".bcsvsh_history"
	}
	return filepath.Join(home, ".bcsvsh_history")
}
