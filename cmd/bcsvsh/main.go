package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/cockroachdb/errors"

	"github.com/tuannm99/bcsv/internal"
	"github.com/tuannm99/bcsv/internal/engine"
	"github.com/tuannm99/bcsv/internal/shell"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		histPath   = flag.String("history", shell.DefaultHistoryPath(), "history file path")
		histMax    = flag.Int("history-max", 2000, "max history lines loaded into memory")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bcsvsh [-config file] [-history file] <table.bcsv>")
		os.Exit(2)
	}

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	lvl, _ := cfg.LogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}

	h := shell.NewHistory(*histPath)
	_ = h.Load(*histMax)

	sess, err := shell.Open(eng, flag.Arg(0), h, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}

	prompt := filepath.Base(sess.Path()) + "> "
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	// preload history so the arrow keys work immediately
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	t := sess.Table()
	fmt.Printf("%s: %d rows, %d fields\n", sess.Path(), t.Rows(), t.NumFields())
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		err = sess.Exec(line)
		if errors.Is(err, shell.ErrQuit) {
			return
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		rl.SetPrompt(filepath.Base(sess.Path()) + "> ")
	}
}
