package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal/alias/util"
)

// ReadFile reads a whole table file into memory.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer util.CloseFileFunc(f)

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(ErrNotRegular, "%s", path)
	}

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrStorageIO)
	}
	return buf, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// over path, so readers never observe a partial table.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, FileMode0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				slog.Error("storage: remove temp file", "path", tmpName, "err", rmErr)
			}
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Mark(errors.Wrapf(err, "write %s", tmpName), ErrStorageIO)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Mark(errors.Wrapf(err, "sync %s", tmpName), ErrStorageIO)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, FileMode0644); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return err
	}
	slog.Debug("storage: wrote file", "path", path, "bytes", len(data))
	return nil
}

// ListFiles returns the regular files in dir whose names end in suffix,
// sorted by name. An empty suffix matches every file. A missing dir yields
// no files.
func ListFiles(dir, suffix string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	paths := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// OutputPath maps src into dir with its extension replaced by ext.
func OutputPath(dir, src, ext string) string {
	base := filepath.Base(src)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}
