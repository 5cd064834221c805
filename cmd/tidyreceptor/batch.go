package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yutanagano/tidyreceptor"
	"github.com/yutanagano/tidyreceptor/internal/batch"
	"github.com/yutanagano/tidyreceptor/internal/store"
)

func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)

	var (
		mode        string
		species     string
		family      string
		locus       string
		corrections bool
		reconstruct bool
		workers     int
		dbPath      string
		outputFile  string
	)

	fs.StringVar(&mode, "mode", "symbol", "Input kind: symbol or junction")
	fs.StringVar(&species, "species", configSpecies(), "Species: homosapiens or musmusculus")
	fs.StringVar(&family, "family", "TR", "Gene family for symbol mode: TR, IG or MH")
	fs.StringVar(&locus, "locus", "", "Chain locus for junction mode")
	fs.BoolVar(&corrections, "fix-ends", false, "Junction mode: allow substitution of misread boundary residues")
	fs.BoolVar(&reconstruct, "reconstruct", false, "Junction mode: allow reconstruction of more than one missing residue per side")
	fs.IntVar(&workers, "workers", configWorkers(), "Worker goroutines (0 = one per CPU)")
	fs.StringVar(&dbPath, "db", "", "Persist results to a DuckDB database at this path")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Standardize a file of symbols or junction sequences in parallel.

Input is one entry per line; blank lines and lines starting with '#' are
skipped. Output is TSV: input, standardized value, failure reason.

Usage:
  tidyreceptor batch [options] <input-file>

Arguments:
  <input-file>  Input file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tidyreceptor batch symbols.txt
  tidyreceptor batch --mode junction --locus TRB junctions.txt
  tidyreceptor batch --db results.duckdb symbols.txt
  cat symbols.txt | tidyreceptor batch -
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	inputs, err := readInputs(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	var db *store.Store
	if dbPath != "" {
		db, err = store.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening result store: %v\n", err)
			return ExitError
		}
		defer db.Close()
	}

	switch mode {
	case "symbol":
		return batchSymbols(inputs, species, family, workers, out, db)
	case "junction":
		if locus == "" {
			fmt.Fprintf(os.Stderr, "Error: --locus is required in junction mode\n")
			return ExitUsage
		}
		opts := tidyreceptor.JunctionOptions{
			Locus:                locus,
			Species:              species,
			AllowCCorrection:     corrections,
			AllowFWCorrection:    corrections,
			AllowVReconstruction: reconstruct,
			AllowJReconstruction: reconstruct,
		}
		return batchJunctions(inputs, opts, workers, out, db)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		return ExitUsage
	}
}

// readInputs loads one entry per line, skipping blanks and '#' comments.
func readInputs(path string) ([]string, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var inputs []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return inputs, nil
}

func makeItems(inputs []string) <-chan batch.Item {
	ch := make(chan batch.Item, len(inputs))
	for i, in := range inputs {
		ch <- batch.Item{Seq: i, Input: in}
	}
	close(ch)
	return ch
}

func batchSymbols(inputs []string, species, family string, workers int, out *os.File, db *store.Store) int {
	opts := tidyreceptor.StandardizeOptions{Species: species, Family: family}

	// Validate the options once up front; per-item calls cannot then error.
	if _, err := tidyreceptor.Standardize("", opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	results := batch.Run(makeItems(inputs), workers, func(s string) tidyreceptor.StandardizationResult {
		result, _ := tidyreceptor.Standardize(s, opts)
		return result
	})

	w := bufio.NewWriter(out)
	var records []store.SymbolRecord
	failures := 0
	err := batch.OrderedCollect(results, func(r batch.Outcome[tidyreceptor.StandardizationResult]) error {
		if r.Result.Failed() {
			failures++
		}
		if db != nil {
			records = append(records, store.NewSymbolRecord(family, r.Result))
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Input, r.Result.HighestPrecision(), r.Result.Reason())
		return err
	})
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	if db != nil {
		if err := db.WriteSymbolResults(records); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting results: %v\n", err)
			return ExitError
		}
	}

	fmt.Fprintf(os.Stderr, "Standardized %d symbols (%d failures)\n", len(inputs), failures)
	return ExitSuccess
}

func batchJunctions(inputs []string, opts tidyreceptor.JunctionOptions, workers int, out *os.File, db *store.Store) int {
	if _, err := tidyreceptor.StandardizeJunction("", opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	results := batch.Run(makeItems(inputs), workers, func(s string) tidyreceptor.JunctionResult {
		result, _ := tidyreceptor.StandardizeJunction(s, opts)
		return result
	})

	w := bufio.NewWriter(out)
	var records []store.JunctionRecord
	failures := 0
	err := batch.OrderedCollect(results, func(r batch.Outcome[tidyreceptor.JunctionResult]) error {
		if r.Result.Failed() {
			failures++
		}
		if db != nil {
			records = append(records, store.NewJunctionRecord(opts.Species, opts.Locus, r.Result))
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Input, r.Result.Junction(), r.Result.Reason())
		return err
	})
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	if db != nil {
		if err := db.WriteJunctionResults(records); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting results: %v\n", err)
			return ExitError
		}
	}

	fmt.Fprintf(os.Stderr, "Standardized %d junctions (%d failures)\n", len(inputs), failures)
	return ExitSuccess
}
