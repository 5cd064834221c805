// Package main provides the tidyreceptor command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/yutanagano/tidyreceptor"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("tidyreceptor version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "standardize":
		return runStandardize(args[1:])
	case "junction":
		return runJunction(args[1:])
	case "query":
		return runQuery(args[1:])
	case "seq":
		return runSeq(args[1:])
	case "batch":
		return runBatch(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `tidyreceptor - Immune receptor symbol and junction standardizer

Usage:
  tidyreceptor [options] <command> [arguments]

Commands:
  standardize  Standardize receptor gene/allele symbols
  junction     Standardize CDR3/junction amino acid sequences
  query        List catalog symbols for a species and gene family
  seq          Show the recorded amino acid regions of an allele
  batch        Standardize a file of symbols or junctions in parallel
  config       Manage tidyreceptor configuration
  help         Show this help message

Global Options:
  --version    Show version information

Examples:
  # Fix a legacy T cell receptor symbol
  tidyreceptor standardize TCRAV32S1

  # Correct a junction sequence against the beta locus
  tidyreceptor junction --locus TRB CASSESYEQY

  # List all functional human TRBJ genes
  tidyreceptor query --functionality F --pattern '^TRBJ'

  # Standardize a whole file, persisting results to DuckDB
  tidyreceptor batch --db results.duckdb symbols.txt

For more information on a command, use:
  tidyreceptor <command> --help
`)
}

// installLogger switches the shared engines to a human-readable stderr
// logger so standardization failures are reported.
func installLogger() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	return tidyreceptor.SetLogger(logger)
}

func runStandardize(args []string) int {
	fs := flag.NewFlagSet("standardize", flag.ExitOnError)

	var (
		species           string
		family            string
		precision         string
		enforceFunctional bool
		allowSubgroup     bool
		logFailures       bool
	)

	fs.StringVar(&species, "species", configSpecies(), "Species: homosapiens or musmusculus")
	fs.StringVar(&family, "family", "TR", "Gene family: TR, IG or MH")
	fs.StringVar(&precision, "precision", "", "Output precision: subgroup, gene, protein or allele (default: most precise available)")
	fs.BoolVar(&enforceFunctional, "enforce-functional", false, "Reject symbols without a functional allele")
	fs.BoolVar(&allowSubgroup, "allow-subgroup", false, "Accept symbols that only name a subgroup")
	fs.BoolVar(&logFailures, "log-failures", false, "Report standardization failures on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Standardize receptor gene/allele symbols to IMGT nomenclature.

Usage:
  tidyreceptor standardize [options] <symbol> [<symbol> ...]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tidyreceptor standardize TCRAV32S1
  tidyreceptor standardize --family MH 'HLA-B*5701'
  tidyreceptor standardize --species musmusculus TCRBV22S1A2N1T
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one symbol argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if logFailures {
		if err := installLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	opts := tidyreceptor.StandardizeOptions{
		Species:           species,
		Family:            family,
		EnforceFunctional: enforceFunctional,
		AllowSubgroup:     allowSubgroup,
		Precision:         tidyreceptor.Precision(precision),
	}

	failures := 0
	for _, sym := range fs.Args() {
		result, err := tidyreceptor.Standardize(sym, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		standardized := result.HighestPrecision()
		if precision != "" {
			standardized = result.At(opts.Precision)
		}
		if result.Failed() {
			failures++
			fmt.Printf("%s\t\t%s\n", sym, result.Reason())
			continue
		}
		fmt.Printf("%s\t%s\t\n", sym, standardized)
	}
	if failures > 0 {
		return ExitError
	}
	return ExitSuccess
}

func runJunction(args []string) int {
	fs := flag.NewFlagSet("junction", flag.ExitOnError)

	var (
		locus          string
		species        string
		vSymbol        string
		jSymbol        string
		corrections    bool
		reconstruct    bool
		nonfunctionalV bool
		functionalJ    bool
		logFailures    bool
	)

	fs.StringVar(&locus, "locus", "", "Chain locus: TRA, TRB, TRG, TRD, IGH, IGK, IGL (or TR/IG if unknown)")
	fs.StringVar(&species, "species", configSpecies(), "Species: homosapiens or musmusculus")
	fs.StringVar(&vSymbol, "v", "", "V symbol used to correct the start of the junction")
	fs.StringVar(&jSymbol, "j", "", "J symbol used to correct the end of the junction")
	fs.BoolVar(&corrections, "fix-ends", false, "Allow substitution of misread boundary residues")
	fs.BoolVar(&reconstruct, "reconstruct", false, "Allow reconstruction of more than one missing residue per side")
	fs.BoolVar(&nonfunctionalV, "include-nonfunctional-v", false, "Align against ORF and pseudogene V alleles too")
	fs.BoolVar(&functionalJ, "enforce-functional-j", false, "Align against functional J alleles only")
	fs.BoolVar(&logFailures, "log-failures", false, "Report standardization failures on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Standardize CDR3/junction amino acid sequences by alignment to V and J genes.

Usage:
  tidyreceptor junction --locus <locus> [options] <sequence> [<sequence> ...]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tidyreceptor junction --locus TRB CASSESYEQY
  tidyreceptor junction --locus TRA --j TRAJ38 camrkli
  tidyreceptor junction --locus TRA --reconstruct --v TRAV14/DV4 --j TRAJ12 MRESENMDSS
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if locus == "" {
		fmt.Fprintf(os.Stderr, "Error: --locus is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one sequence argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if logFailures {
		if err := installLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	opts := tidyreceptor.JunctionOptions{
		Locus:                 locus,
		Species:               species,
		VSymbol:               vSymbol,
		JSymbol:               jSymbol,
		IncludeNonFunctionalV: nonfunctionalV,
		EnforceFunctionalJ:    functionalJ,
		AllowCCorrection:      corrections,
		AllowFWCorrection:     corrections,
		AllowVReconstruction:  reconstruct,
		AllowJReconstruction:  reconstruct,
	}

	failures := 0
	for _, seq := range fs.Args() {
		result, err := tidyreceptor.StandardizeJunction(seq, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		if result.Failed() {
			failures++
			fmt.Printf("%s\t\t%s\n", seq, result.Reason())
			continue
		}
		fmt.Printf("%s\t%s\t\n", seq, result.Junction())
	}
	if failures > 0 {
		return ExitError
	}
	return ExitSuccess
}

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)

	var (
		species       string
		family        string
		precision     string
		functionality string
		pattern       string
	)

	fs.StringVar(&species, "species", configSpecies(), "Species: homosapiens or musmusculus")
	fs.StringVar(&family, "family", "TR", "Gene family: TR, IG or MH")
	fs.StringVar(&precision, "precision", "gene", "Listing precision: subgroup, gene, protein or allele")
	fs.StringVar(&functionality, "functionality", "any", "Functionality filter: any, F, NF, ORF or P")
	fs.StringVar(&pattern, "pattern", "", "Regular expression restricting the listed symbols")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `List catalog symbols for a species and gene family.

Usage:
  tidyreceptor query [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tidyreceptor query --pattern '^TRAJ'
  tidyreceptor query --family MH --precision allele
  tidyreceptor query --functionality F --precision allele
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	results, err := tidyreceptor.Query(tidyreceptor.QueryOptions{
		Species:       species,
		Family:        family,
		Precision:     tidyreceptor.Precision(precision),
		Functionality: tidyreceptor.Functionality(functionality),
		Pattern:       pattern,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	for _, s := range results {
		fmt.Println(s)
	}
	return ExitSuccess
}

func runSeq(args []string) int {
	fs := flag.NewFlagSet("seq", flag.ExitOnError)

	var (
		species string
		family  string
	)

	fs.StringVar(&species, "species", configSpecies(), "Species: homosapiens or musmusculus")
	fs.StringVar(&family, "family", "TR", "Gene family: TR or IG")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Show the recorded amino acid regions of a precise allele symbol.

Usage:
  tidyreceptor seq [options] <allele-symbol>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tidyreceptor seq 'TRBJ2-7*01'
  tidyreceptor seq --family IG 'IGHJ6*01'
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one allele symbol argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	regions, err := tidyreceptor.GetAaSequence(fs.Arg(0), species, family)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s\t%s\n", name, regions[name])
	}
	return ExitSuccess
}
