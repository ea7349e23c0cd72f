package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tuannm99/bcsv/internal"
	"github.com/tuannm99/bcsv/internal/engine"
	"github.com/tuannm99/bcsv/internal/hashname"
	"github.com/tuannm99/bcsv/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runWithArgs(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

const usage = `Usage: bcsv [-config file] [-v] <command> [arguments]

Commands:
  dump [-o dir] files...   convert tables to CSV (directories expand to *.bcsv)
  info [-json] file        print header and field layout
  rewrite [-o out] file    decode and re-encode a table
  verify files...          check that decode+encode reproduces each file
  hash [-variant v] names  print field-name hashes
`

func runWithArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	setupLogging(cfg, *verbose, stderr)

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "dump":
		return runDump(ctx, eng, rest, stdout, stderr)
	case "info":
		return runInfo(eng, rest, stdout, stderr)
	case "rewrite":
		return runRewrite(eng, rest, stdout, stderr)
	case "verify":
		return runVerify(ctx, eng, rest, stdout, stderr)
	case "hash":
		return runHash(cfg, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

func setupLogging(cfg *internal.BcsvConfig, verbose bool, stderr io.Writer) {
	lvl, err := cfg.LogLevel()
	if err != nil || verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})))
}

// expand replaces directory arguments with the table files inside them.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := storage.ListFiles(arg, storage.DefaultSuffix)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func runDump(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.String("o", "", "write <name>.csv files into this directory instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: dump needs at least one file")
		return 2
	}

	paths, err := expand(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := eng.DumpAll(ctx, stdout, paths, *outDir); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runInfo(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: info needs exactly one file")
		return 2
	}

	meta, err := eng.Describe(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *asJSON {
		err = meta.WriteJSON(stdout)
	} else {
		err = meta.WriteText(stdout)
	}
	if err != nil {
		return 1
	}
	return 0
}

func runRewrite(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "output path (default: overwrite the input)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: rewrite needs exactly one file")
		return 2
	}

	src := fs.Arg(0)
	dst := *out
	if dst == "" {
		dst = src
	}
	t, err := eng.Load(src)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := eng.Save(dst, t); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	size, _ := t.TotalSize()
	fmt.Fprintf(stdout, "wrote %s (%d bytes)\n", dst, size)
	return 0
}

func runVerify(ctx context.Context, eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "error: verify needs at least one file")
		return 2
	}
	paths, err := expand(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	results, err := eng.VerifyAll(ctx, paths)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	code := 0
	for _, r := range results {
		if r.Match() {
			fmt.Fprintf(stdout, "ok    %s (%016x)\n", r.Path, r.Digest)
			continue
		}
		code = 1
		fmt.Fprintf(stdout, "FAIL  %s (%d -> %d bytes)\n%s", r.Path, r.Size, r.NewSize, r.Diff)
	}
	return code
}

func runHash(cfg *internal.BcsvConfig, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variant := fs.String("variant", cfg.Names.Hash, "hash variant: x3-16 or x31-32")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	h, err := hashname.ByName(*variant)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	for _, name := range fs.Args() {
		fmt.Fprintf(stdout, "0x%08X  %s\n", h(name), name)
	}
	return 0
}
