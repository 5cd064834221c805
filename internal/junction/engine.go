package junction

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

// Options controls one junction standardization call. Zero values select the
// documented defaults.
type Options struct {
	// Species defaults to homosapiens.
	Species string
	// Locus is the chain locus the junction belongs to: TRA, TRB, TRG, TRD,
	// IGH, IGK or IGL.
	Locus string
	// VSymbol and JSymbol optionally restrict alignment to the sequences of
	// one known gene or allele; free-form symbols are standardized first.
	VSymbol string
	JSymbol string

	// IncludeNonFunctionalV admits ORF and pseudogene alleles into the V
	// candidate set. By default only functional alleles are aligned against.
	IncludeNonFunctionalV bool
	// EnforceFunctionalJ excludes non-functional alleles from the J
	// candidate set.
	EnforceFunctionalJ bool

	// AllowCCorrection substitutes the conserved cysteine for a mismatched
	// 5' residue when the substituted sequence aligns strictly better.
	AllowCCorrection bool
	// AllowFWCorrection substitutes a canonical anchor residue for a
	// mismatched 3' residue when the substituted sequence aligns strictly
	// better.
	AllowFWCorrection bool
	// AllowVReconstruction / AllowJReconstruction permit rebuilding more
	// than one missing boundary residue from the reference region.
	AllowVReconstruction bool
	AllowJReconstruction bool

	// MismatchPenalty is subtracted per aligned mismatch (default 1.5).
	MismatchPenalty float64
	// MaxJMismatches / MaxVMismatches invalidate an alignment once exceeded
	// (default 1).
	MaxJMismatches int
	MaxVMismatches int
	// MinJScore / MinVScore are the minimum retained alignment scores
	// (defaults 3 and 2).
	MinJScore float64
	MinVScore float64
	// MinLength rejects corrected junctions shorter than this (default 4).
	MinLength int
}

func (o Options) withDefaults() Options {
	if o.Species == "" {
		o.Species = catalog.SpeciesHomoSapiens
	}
	if o.MismatchPenalty == 0 {
		o.MismatchPenalty = 1.5
	}
	if o.MaxJMismatches == 0 {
		o.MaxJMismatches = 1
	}
	if o.MaxVMismatches == 0 {
		o.MaxVMismatches = 1
	}
	if o.MinJScore == 0 {
		o.MinJScore = 3
	}
	if o.MinVScore == 0 {
		o.MinVScore = 2
	}
	if o.MinLength == 0 {
		o.MinLength = 4
	}
	return o
}

// Engine standardizes junction sequences against the reference catalogs.
// Safe for concurrent use: all shared state is read-only.
type Engine struct {
	ctx     *catalog.Context
	symbols *symbol.Engine
	logger  *zap.Logger
}

// NewEngine creates a junction standardization engine over the given
// catalogs.
func NewEngine(ctx *catalog.Context) *Engine {
	return &Engine{ctx: ctx, symbols: symbol.NewEngine(ctx), logger: zap.NewNop()}
}

// SetLogger sets the logger used to report standardization failures.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Standardize verifies, trims or reconstructs one junction sequence. All
// domain-level failures are captured in the Result; reasons from both sides
// are concatenated.
func (e *Engine) Standardize(seq string, opts Options) Result {
	opts = opts.withDefaults()
	input := seq

	current := strings.ToUpper(strings.Join(strings.Fields(seq), ""))
	if current == "" || catalog.ValidateAaSequence(current) != 0 {
		e.logger.Warn("invalid amino acid sequence", zap.String("sequence", input))
		return Result{input: input, reason: ReasonInvalidAaSequence, seq: input}
	}

	family := familyForLocus(opts.Locus)
	if family == "" {
		return Result{input: input, reason: ReasonUnsupportedLocus, seq: current}
	}
	data := e.ctx.Family(opts.Species, family)
	if data == nil {
		e.logger.Warn("no catalog for species, passing sequence through",
			zap.String("sequence", input),
			zap.String("species", opts.Species))
		return Result{input: input, reason: ReasonUnsupportedSpecies, seq: current}
	}

	var reasons []string

	jRefs, jReason := e.selectReferences(data, opts.Locus, sideJ, opts.JSymbol, opts.EnforceFunctionalJ, opts.Species)
	switch {
	case jReason != "":
		reasons = append(reasons, jReason)
	default:
		p := scoreParams{
			penalty:       opts.MismatchPenalty,
			maxMismatches: opts.MaxJMismatches,
			minScore:      opts.MinJScore,
		}
		aligns := bestAlignments(current, jRefs, p)
		if opts.AllowFWCorrection && fwCorrectable(current) {
			// A substituted anchor residue replaces the sequence's own tail
			// only when it aligns strictly better.
			for _, sub := range []string{"F", "W"} {
				variant := current[:len(current)-1] + sub
				va := bestAlignments(variant, jRefs, p)
				if alignmentScore(va) > alignmentScore(aligns) {
					current, aligns = variant, va
				}
			}
		}
		if len(aligns) == 0 {
			reasons = append(reasons, ReasonJAlignmentFailed)
		} else if corrected, reason := correctJ(current, aligns, p, opts.AllowJReconstruction, opts.JSymbol != ""); reason != "" {
			reasons = append(reasons, reason)
		} else {
			current = corrected
		}
	}

	vRefs, vReason := e.selectReferences(data, opts.Locus, sideV, opts.VSymbol, !opts.IncludeNonFunctionalV, opts.Species)
	switch {
	case vReason != "":
		reasons = append(reasons, vReason)
	default:
		p := scoreParams{
			penalty:       opts.MismatchPenalty,
			maxMismatches: opts.MaxVMismatches,
			minScore:      opts.MinVScore,
		}
		mirrored := mirrorRefs(vRefs)
		rev := reverseString(current)
		aligns := bestAlignments(rev, mirrored, p)
		if opts.AllowCCorrection && cCorrectable(current) {
			variant := reverseString("C" + current[1:])
			va := bestAlignments(variant, mirrored, p)
			if alignmentScore(va) > alignmentScore(aligns) {
				rev, aligns = variant, va
				current = "C" + current[1:]
			}
		}
		if len(aligns) == 0 {
			reasons = append(reasons, ReasonVAlignmentFailed)
		} else if corrected, reason := correctV(rev, aligns, p, opts.AllowVReconstruction); reason != "" {
			reasons = append(reasons, reason)
		} else {
			current = corrected
		}
	}

	if len(current) < opts.MinLength {
		reasons = append(reasons, ReasonTooShort)
	}

	if len(reasons) > 0 {
		reason := strings.Join(reasons, "; ")
		e.logger.Warn("failed to standardize junction",
			zap.String("sequence", input),
			zap.String("locus", opts.Locus),
			zap.String("species", opts.Species),
			zap.String("reason", reason))
		return Result{input: input, reason: reason, seq: current}
	}
	return Result{input: input, seq: current}
}

// cysteineNeighbours and anchorNeighbours list the residues one nucleotide
// substitution away from a cysteine codon and from a phenylalanine or
// tryptophan codon. Terminal corrections are restricted to these: anything
// further cannot be a single sequencing error.
const (
	cysteineNeighbours = "WSRGYF"
	anchorNeighbours   = "ILVYSCGR"
)

func cCorrectable(seq string) bool {
	return len(seq) > 1 && strings.IndexByte(cysteineNeighbours, seq[0]) >= 0
}

func fwCorrectable(seq string) bool {
	return len(seq) > 1 && strings.IndexByte(anchorNeighbours, seq[len(seq)-1]) >= 0
}

// alignmentScore is the shared score of a tied alignment set, or negative
// infinity when the set is empty.
func alignmentScore(aligns []alignment) float64 {
	if len(aligns) == 0 {
		return math.Inf(-1)
	}
	return aligns[0].score
}

// mirrorRefs reverses every reference region so tail-anchored J-side logic
// applies to the V side unchanged.
func mirrorRefs(refs []*reference) []*reference {
	mirrored := make([]*reference, len(refs))
	for i, r := range refs {
		mirrored[i] = &reference{
			symbol: r.symbol,
			region: reverseString(r.region),
			anchor: len(r.region) - 1 - r.anchor,
		}
	}
	return mirrored
}
