package symbol

import (
	"go.uber.org/zap"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

// Options controls one standardization call.
type Options struct {
	// Species defaults to homosapiens.
	Species string
	// Family defaults to TR.
	Family string
	// EnforceFunctional rejects genes with no functional allele and alleles
	// not labelled functional.
	EnforceFunctional bool
	// AllowSubgroup accepts symbols that resolve only to a subgroup.
	AllowSubgroup bool
}

// Engine resolves gene and allele symbols against a reference catalog
// context. Safe for concurrent use: all shared state is read-only.
type Engine struct {
	ctx    *catalog.Context
	logger *zap.Logger
}

// NewEngine creates a standardization engine over the given catalogs.
func NewEngine(ctx *catalog.Context) *Engine {
	return &Engine{ctx: ctx, logger: zap.NewNop()}
}

// SetLogger sets the logger used to report resolution failures.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Standardize parses, resolves and validates one symbol. Domain-level
// failures are captured in the Result, never returned as an error.
func (e *Engine) Standardize(raw string, opts Options) Result {
	species := opts.Species
	if species == "" {
		species = catalog.SpeciesHomoSapiens
	}
	family := opts.Family
	if family == "" {
		family = catalog.FamilyTR
	}

	data := e.ctx.Family(species, family)
	cfg := configFor(species, family)
	if data == nil || cfg == nil {
		e.logger.Warn("no catalog for species, passing input through",
			zap.String("symbol", raw),
			zap.String("species", species),
			zap.String("family", family))
		return Result{
			input:        raw,
			species:      species,
			reason:       ReasonUnsupportedSpecies,
			attemptedFix: raw,
		}
	}

	env := &resolveEnv{cfg: cfg, data: data, mayExpandDashOne: true}
	p := cfg.parse(Clean(raw))
	p, resolved := resolve(env, p)

	reason := e.finalReason(env, p, resolved, opts)
	result := Result{input: raw, species: species, reason: reason}
	switch {
	case reason == "":
		if resolved {
			result.subgroup = cfg.subgroupOf(p.Gene)
			result.gene = p.Gene
			if len(p.Fields) >= 2 {
				result.protein = compileSymbol(cfg, p, PrecisionProtein)
			}
			if len(p.Fields) > 0 {
				result.allele = compileSymbol(cfg, p, PrecisionAllele)
			}
		} else {
			// subgroup-only resolution
			result.subgroup = p.Gene
		}
	default:
		result.attemptedFix = compileSymbol(cfg, p, PrecisionAllele)
		e.logger.Warn("failed to standardize symbol",
			zap.String("symbol", raw),
			zap.String("species", species),
			zap.String("family", family),
			zap.String("reason", reason),
			zap.String("attempted_fix", result.attemptedFix))
	}
	return result
}

// finalReason computes the definitive validity verdict once the cascade has
// run: "" for success, a failure reason otherwise.
func (e *Engine) finalReason(env *resolveEnv, p Parsed, resolved bool, opts Options) string {
	if !resolved {
		// MH acceptance walks the full designation, so a known gene can
		// still arrive here with bad fields.
		if env.data.HasGene(p.Gene) || env.cfg.bypass[p.Gene] {
			return designationReason(env, p, opts.EnforceFunctional)
		}
		if env.cfg.family != catalog.FamilyMH && env.data.Subgroups[p.Gene] {
			if opts.AllowSubgroup {
				return ""
			}
			return ReasonIsSubgroup
		}
		return ReasonUnrecognizedGene
	}
	return designationReason(env, p, opts.EnforceFunctional)
}
