// Package tidyreceptor standardizes immune-receptor gene and allele symbols
// and CDR3/junction amino-acid sequences to IMGT-style nomenclature.
//
// The package-level functions share one lazily-initialized set of reference
// catalogs covering homosapiens TR/IG/MH and musmusculus TR/MH. Domain-level
// failures (unrecognized symbols, unalignable sequences, unsupported species)
// are reported inside the returned Result values; errors are reserved for
// malformed arguments.
package tidyreceptor

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
	"github.com/yutanagano/tidyreceptor/internal/junction"
	"github.com/yutanagano/tidyreceptor/internal/query"
	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

// Supported species keys.
const (
	SpeciesHomoSapiens = catalog.SpeciesHomoSapiens
	SpeciesMusMusculus = catalog.SpeciesMusMusculus
)

// Supported gene families.
const (
	FamilyTR = catalog.FamilyTR
	FamilyIG = catalog.FamilyIG
	FamilyMH = catalog.FamilyMH
)

// StandardizationResult is the outcome of one symbol standardization call.
type StandardizationResult = symbol.Result

// JunctionResult is the outcome of one junction standardization call.
type JunctionResult = junction.Result

// Precision selects how specifically a standardized symbol is rendered.
type Precision = symbol.Precision

const (
	PrecisionSubgroup = symbol.PrecisionSubgroup
	PrecisionGene     = symbol.PrecisionGene
	PrecisionProtein  = symbol.PrecisionProtein
	PrecisionAllele   = symbol.PrecisionAllele
)

// Functionality filters catalog queries by allele functionality label.
type Functionality = query.Functionality

const (
	FuncAny           = query.FuncAny
	FuncFunctional    = query.FuncFunctional
	FuncNonFunctional = query.FuncNonFunctional
	FuncORF           = query.FuncORF
	FuncPseudogene    = query.FuncPseudogene
)

// StandardizeOptions controls symbol standardization.
type StandardizeOptions struct {
	// Species defaults to homosapiens.
	Species string
	// Family defaults to TR.
	Family string
	// EnforceFunctional rejects symbols without a functional allele.
	EnforceFunctional bool
	// AllowSubgroup accepts symbols that only specify a subgroup.
	AllowSubgroup bool
	// Precision selects the rendering returned by Result.At; all precision
	// levels are populated on the Result regardless.
	Precision Precision
}

// JunctionOptions controls junction standardization.
type JunctionOptions = junction.Options

// QueryOptions controls catalog queries.
type QueryOptions = query.Options

var (
	initOnce sync.Once
	initErr  error

	refContext     *catalog.Context
	symbolEngine   *symbol.Engine
	junctionEngine *junction.Engine
	queryEngine    *query.Engine
)

func ensureEngines() error {
	initOnce.Do(func() {
		ctx, err := catalog.Default()
		if err != nil {
			initErr = fmt.Errorf("load reference catalogs: %w", err)
			return
		}
		refContext = ctx
		symbolEngine = symbol.NewEngine(ctx)
		junctionEngine = junction.NewEngine(ctx)
		queryEngine = query.NewEngine(ctx)
	})
	return initErr
}

// SetLogger installs a logger on the shared engines. Standardization
// failures are reported at warn level; the default is a no-op logger.
func SetLogger(l *zap.Logger) error {
	if err := ensureEngines(); err != nil {
		return err
	}
	symbolEngine.SetLogger(l)
	junctionEngine.SetLogger(l)
	queryEngine.SetLogger(l)
	return nil
}

// Standardize normalizes one receptor gene or allele symbol. Unrecognized
// symbols and unsupported species are domain failures captured in the
// Result; only malformed options produce an error.
func Standardize(sym string, opts StandardizeOptions) (StandardizationResult, error) {
	if err := ensureEngines(); err != nil {
		return StandardizationResult{}, err
	}
	family := opts.Family
	if family == "" {
		family = FamilyTR
	}
	switch family {
	case FamilyTR, FamilyIG, FamilyMH:
	default:
		return StandardizationResult{}, fmt.Errorf("unknown gene family %q", opts.Family)
	}
	if opts.Precision != "" && !symbol.ValidPrecision(opts.Precision) {
		return StandardizationResult{}, fmt.Errorf("unknown precision %q", opts.Precision)
	}
	return symbolEngine.Standardize(sym, symbol.Options{
		Species:           opts.Species,
		Family:            family,
		EnforceFunctional: opts.EnforceFunctional,
		AllowSubgroup:     opts.AllowSubgroup,
	}), nil
}

// StandardizeJunction verifies, trims or reconstructs one CDR3/junction
// sequence by aligning it against V and J reference sequences.
func StandardizeJunction(seq string, opts JunctionOptions) (JunctionResult, error) {
	if err := ensureEngines(); err != nil {
		return JunctionResult{}, err
	}
	switch opts.Locus {
	case FamilyTR, "TRA", "TRB", "TRG", "TRD", FamilyIG, "IGH", "IGK", "IGL":
	default:
		return JunctionResult{}, fmt.Errorf("unsupported locus %q", opts.Locus)
	}
	return junctionEngine.Standardize(seq, opts), nil
}

// StandardizeJunctionSimple ensures a sequence merely looks like a junction:
// a valid amino-acid string starting with a cysteine and ending with a
// phenylalanine or tryptophan. In non-strict mode the boundary residues are
// added when missing. No reference alignment is performed.
func StandardizeJunctionSimple(seq string, strict bool) JunctionResult {
	return junction.SimpleStandardize(seq, strict)
}

// GetAaSequence returns the named amino-acid regions recorded for a precise
// allele symbol (e.g. "TRBJ2-7*01" → J-REGION, J-MOTIF, ...).
func GetAaSequence(sym, species, family string) (map[string]string, error) {
	if err := ensureEngines(); err != nil {
		return nil, err
	}
	if species == "" {
		species = SpeciesHomoSapiens
	}
	if family == "" {
		family = FamilyTR
	}
	data := refContext.Family(species, family)
	if data == nil {
		return nil, fmt.Errorf("no %s catalog for species %q", family, species)
	}
	return data.AaSequence(sym)
}

// Query returns the sorted set of catalog symbols matching the options.
func Query(opts QueryOptions) ([]string, error) {
	if err := ensureEngines(); err != nil {
		return nil, err
	}
	return queryEngine.Query(opts)
}

// MH classification by symbol prefix. Only homosapiens MH (HLA and B2M) is
// recognized.
var (
	mhClass1RE = regexp.MustCompile(`^(HLA-[ABCEFG]|B2M)`)
	mhClass2RE = regexp.MustCompile(`^HLA-D[PQR][AB]`)
	mhAlphaRE  = regexp.MustCompile(`^HLA-([ABCEFG]|D[PQR]A)`)
	mhBetaRE   = regexp.MustCompile(`^(HLA-D[PQR]B|B2M)`)
)

// GetMhClass reports whether a standardized MH symbol names a class I (1) or
// class II (2) molecule. The second return is false when the symbol is not a
// recognized homosapiens MH gene or its class is unknown.
func GetMhClass(sym string) (int, bool) {
	gene, ok := mhGene(sym)
	if !ok {
		return 0, false
	}
	if mhClass1RE.MatchString(gene) {
		return 1, true
	}
	if mhClass2RE.MatchString(gene) {
		return 2, true
	}
	return 0, false
}

// GetMhChain reports whether a standardized MH symbol codes for an alpha
// chain, a beta chain, or beta-2 microglobulin (reported as beta). The
// second return is false when the symbol is not a recognized homosapiens MH
// gene or its chain is unknown.
func GetMhChain(sym string) (string, bool) {
	gene, ok := mhGene(sym)
	if !ok {
		return "", false
	}
	if mhAlphaRE.MatchString(gene) {
		return "alpha", true
	}
	if mhBetaRE.MatchString(gene) {
		return "beta", true
	}
	return "", false
}

func mhGene(sym string) (string, bool) {
	if err := ensureEngines(); err != nil {
		return "", false
	}
	gene, _, _ := strings.Cut(sym, "*")
	data := refContext.Family(SpeciesHomoSapiens, FamilyMH)
	if data == nil || !data.HasGene(gene) {
		return "", false
	}
	return gene, true
}
