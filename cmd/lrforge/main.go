/*
Lrforge builds a canonical LR(k) automaton from a TOML grammar file and
either dumps its table or drives it interactively against typed input.

Usage:

	lrforge [flags]

The flags are:

	-g, --grammar FILE
		TOML grammar definition to build (see internal/grammarsrc.File).
		Required.

	-k, --lookahead N
		Lookahead size, 0 or 1. Overrides the file's own "k" key if given.

	-t, --table
		Print the built table and exit instead of starting the REPL.

	-c, --cache FILE
		Load a cached table.Snapshot from FILE if present (skipping the
		build), or write one there after a fresh build.

	-v, --version
		Print the version and exit.

Once the REPL starts, each line of input is lexed with the default
whitespace/number/operator classifier (internal/lex.Split) and fed token by
token to the driver; "quit" or EOF ends the session.
*/
package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rezi"
	"github.com/spf13/pflag"

	"github.com/dekarrin/lrforge/internal/grammarsrc"
	"github.com/dekarrin/lrforge/internal/lex"
	"github.com/dekarrin/lrforge/internal/lr/automaton"
	"github.com/dekarrin/lrforge/internal/lr/driver"
	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
	"github.com/dekarrin/lrforge/internal/lr/table"
)

const version = "0.1.0"

const (
	ExitSuccess = iota
	ExitUsageError
	ExitBuildError
	ExitParseError
)

var (
	returnCode    = ExitSuccess
	flagVersion   = pflag.BoolP("version", "v", false, "Print the version and exit")
	grammarFile   = pflag.StringP("grammar", "g", "", "TOML grammar definition file (required)")
	lookaheadFlag = pflag.IntP("lookahead", "k", -1, "Lookahead size (0 or 1); overrides the grammar file's own k")
	dumpTable     = pflag.BoolP("table", "t", false, "Print the built table and exit")
	cacheFile     = pflag.StringP("cache", "c", "", "Load/save a cached table.Snapshot at this path")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println(version)
		return
	}

	if *grammarFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --grammar is required")
		os.Exit(ExitUsageError)
	}

	tbl, err := buildOrLoadTable(*grammarFile, *cacheFile, *lookaheadFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitBuildError)
	}

	if *dumpTable {
		fmt.Println(tbl.String())
		return
	}

	if err := repl(tbl); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
	os.Exit(returnCode)
}

func buildOrLoadTable(grammarPath, cachePath string, kOverride int) (table.Table, error) {
	if cachePath != "" {
		if raw, err := os.ReadFile(cachePath); err == nil {
			var snap table.Snapshot
			if _, err := rezi.DecBinary(raw, &snap); err != nil {
				return table.Table{}, fmt.Errorf("decode cached table: %w", err)
			}
			return table.FromSnapshot(snap), nil
		}
	}

	raw, err := os.ReadFile(grammarPath)
	if err != nil {
		return table.Table{}, fmt.Errorf("read grammar file: %w", err)
	}

	src := grammarsrc.NewSource()
	var g grammar.Grammar
	k, err := src.LoadFile(&g, raw)
	if err != nil {
		return table.Table{}, err
	}
	if kOverride >= 0 {
		k = kOverride
	}

	aug, err := g.Augment(nil, nil)
	if err != nil {
		return table.Table{}, fmt.Errorf("augment grammar: %w", err)
	}

	a, err := automaton.NewBuilder(k, nil).Build(aug)
	if err != nil {
		return table.Table{}, fmt.Errorf("build automaton: %w", err)
	}
	if a.ConflictLog != "" {
		fmt.Fprintln(os.Stderr, "conflicts resolved during build:")
		fmt.Fprint(os.Stderr, a.ConflictLog)
	}

	if cachePath != "" {
		snap, err := a.Table.Snapshot()
		if err != nil {
			return table.Table{}, fmt.Errorf("snapshot table: %w", err)
		}
		if err := os.WriteFile(cachePath, rezi.EncBinary(&snap), 0o644); err != nil {
			return table.Table{}, fmt.Errorf("write table cache: %w", err)
		}
	}

	return a.Table, nil
}

func repl(tbl table.Table) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "lrforge> "})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	lx := lex.Split()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		toks, err := lx.Lex(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lex error: %s\n", err.Error())
			continue
		}

		d := driver.New(tbl)
		d.RegisterTraceListener(func(s string) { fmt.Println("  " + s) })

		parseErr := feedAll(d, toks)
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "parse error: %s\n", parseErr.Error())
			continue
		}

		root, ok := d.ParseTree()
		if !ok {
			fmt.Fprintln(os.Stderr, "parse error: input did not reach accept")
			continue
		}
		fmt.Println(root.String())
	}
}

func feedAll(d *driver.Driver, toks []lrtypes.ParseUnit) error {
	for _, tok := range toks {
		if err := d.Feed(tok); err != nil {
			return err
		}
	}
	return d.Finish()
}
