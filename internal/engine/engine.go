package engine

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/tuannm99/bcsv/internal"
	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/catalog"
	"github.com/tuannm99/bcsv/internal/hashname"
	"github.com/tuannm99/bcsv/internal/render"
	"github.com/tuannm99/bcsv/internal/storage"
)

// Engine binds a configuration to file operations on tables.
type Engine struct {
	cfg   *internal.BcsvConfig
	opts  bcsv.Options
	names *hashname.Table
}

func New(cfg *internal.BcsvConfig) (*Engine, error) {
	opts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}
	hash, err := cfg.HashFunc()
	if err != nil {
		return nil, err
	}

	names := hashname.NewTable(hash)
	if path := cfg.Names.LookupFile; path != "" {
		data, err := storage.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "load name table")
		}
		if err := names.Load(bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}

	return &Engine{cfg: cfg, opts: opts, names: names}, nil
}

func (e *Engine) Options() bcsv.Options        { return e.opts }
func (e *Engine) Names() *hashname.Table       { return e.names }
func (e *Engine) Config() *internal.BcsvConfig { return e.cfg }

func (e *Engine) RenderOptions() render.Options {
	return render.Options{
		Delimiter: e.cfg.Render.Delimiter,
		Names:     e.names,
		Signed:    e.cfg.Render.Signed,
	}
}

// NewTable returns an empty table using the configured codec options.
func (e *Engine) NewTable() *bcsv.Table { return bcsv.New(e.opts) }

func (e *Engine) Load(path string) (*bcsv.Table, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := bcsv.Decode(data, e.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	slog.Debug("engine: loaded table", "path", path, "rows", t.Rows(), "fields", t.NumFields())
	return t, nil
}

func (e *Engine) Save(path string, t *bcsv.Table) error {
	data, err := t.Encode()
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return storage.WriteFileAtomic(path, data)
}

// Describe loads path and reports its header and field layout.
func (e *Engine) Describe(path string) (*catalog.TableMeta, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := bcsv.Decode(data, e.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return catalog.Describe(path, t, int64(len(data)), e.names)
}

// Dump renders one file as CSV.
func (e *Engine) Dump(w io.Writer, path string) error {
	t, err := e.Load(path)
	if err != nil {
		return err
	}
	return render.CSV(w, t, e.RenderOptions())
}

// DumpAll converts paths concurrently. With an outDir every table goes to
// <outDir>/<name>.csv; otherwise the CSVs are written to w in input order.
// The first failure cancels the remaining work.
func (e *Engine) DumpAll(ctx context.Context, w io.Writer, paths []string, outDir string) error {
	bufs := make([]bytes.Buffer, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.Dump(&bufs[i], path); err != nil {
				return err
			}
			if outDir == "" {
				return nil
			}
			out := storage.OutputPath(outDir, path, ".csv")
			if err := storage.WriteFileAtomic(out, bufs[i].Bytes()); err != nil {
				return err
			}
			slog.Info("dumped table", "src", path, "dst", out)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if outDir != "" {
		return nil
	}
	for i := range bufs {
		if _, err := bufs[i].WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

type VerifyResult struct {
	Path      string
	Size      int64
	NewSize   int64
	Digest    uint64
	NewDigest uint64
	// Diff is a unified diff of the two hex dumps, empty on a match.
	Diff string
}

func (r VerifyResult) Match() bool {
	return r.Size == r.NewSize && r.Digest == r.NewDigest
}

// Verify decodes path, encodes it again and compares the bytes.
func (e *Engine) Verify(path string) (VerifyResult, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return VerifyResult{}, err
	}
	t, err := bcsv.Decode(data, e.opts)
	if err != nil {
		return VerifyResult{}, errors.Wrapf(err, "decode %s", path)
	}
	again, err := t.Encode()
	if err != nil {
		return VerifyResult{}, errors.Wrapf(err, "encode %s", path)
	}
	return compare(path, data, again)
}

func compare(path string, before, after []byte) (VerifyResult, error) {
	res := VerifyResult{
		Path:      path,
		Size:      int64(len(before)),
		NewSize:   int64(len(after)),
		Digest:    xxh3.Hash(before),
		NewDigest: xxh3.Hash(after),
	}
	if res.Match() {
		return res, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(hex.Dump(before)),
		B:        difflib.SplitLines(hex.Dump(after)),
		FromFile: path,
		ToFile:   path + " (rewritten)",
		Context:  2,
	})
	if err != nil {
		return res, err
	}
	res.Diff = diff
	slog.Warn("verify: round trip differs", "path", path, "size", res.Size, "newSize", res.NewSize)
	return res, nil
}

// VerifyAll runs Verify over paths concurrently. Results keep input order.
func (e *Engine) VerifyAll(ctx context.Context, paths []string) ([]VerifyResult, error) {
	results := make([]VerifyResult, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Verify(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
