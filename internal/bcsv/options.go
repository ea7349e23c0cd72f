package bcsv

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"

	"github.com/tuannm99/bcsv/internal/alias/bx"
)

// Options configure how a table maps to bytes.
type Options struct {
	// ByteOrder of every fixed-width integer and float. Nil means big endian.
	ByteOrder binary.ByteOrder
	// Strict rejects unknown field type tags instead of reading them as Null.
	Strict bool
	// TextEncoding of pool strings. Nil means the bytes are UTF-8.
	TextEncoding encoding.Encoding
}

func (o Options) order() binary.ByteOrder {
	if o.ByteOrder == nil {
		return bx.BE
	}
	return o.ByteOrder
}

func (o Options) decodeText(b []byte) (string, error) {
	if o.TextEncoding == nil {
		return string(b), nil
	}
	out, err := o.TextEncoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode pool string"), ErrTextEncoding)
	}
	return string(out), nil
}

func (o Options) encodeText(s string) ([]byte, error) {
	out := []byte(s)
	if o.TextEncoding != nil {
		var err error
		if out, err = o.TextEncoding.NewEncoder().Bytes(out); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "encode pool string %q", s), ErrTextEncoding)
		}
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return nil, errors.Wrapf(ErrTextEncoding, "pool string %q contains NUL", s)
	}
	return out, nil
}
