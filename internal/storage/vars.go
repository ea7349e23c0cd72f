package storage

import "github.com/cockroachdb/errors"

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

// DefaultSuffix selects table files when a directory is listed.
const DefaultSuffix = ".bcsv"

var (
	ErrNotRegular = errors.New("storage: not a regular file")
	ErrStorageIO  = errors.New("storage: I/O error")
)
