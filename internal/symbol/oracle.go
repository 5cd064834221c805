package symbol

import (
	"strings"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

// Failure reasons reported by symbol standardization.
const (
	ReasonUnsupportedSpecies  = "unsupported species"
	ReasonUnrecognizedGene    = "unrecognized gene name"
	ReasonNonexistentAllele   = "nonexistent allele for recognized gene"
	ReasonNonfunctionalAllele = "nonfunctional allele"
	ReasonNoFunctionalAlleles = "gene has no functional alleles"
	ReasonIsSubgroup          = "is subgroup"
	ReasonTooManyFields       = "too many allele designators"
	ReasonNonNumericalFields  = "non-numerical allele designators"
	ReasonNonTwoDigitFields   = "non-2-digit allele designators"
)

// designationReason validates the allele-designation fields of a resolved
// gene and, when requested, its functionality. Returns "" when the symbol is
// fully valid.
func designationReason(env *resolveEnv, p Parsed, enforceFunctional bool) string {
	if env.cfg.bypass[p.Gene] {
		if len(p.Fields) > 0 {
			return ReasonNonexistentAllele
		}
		return ""
	}
	if len(p.Fields) > env.cfg.maxFields {
		return ReasonTooManyFields
	}
	if env.cfg.numericFields {
		for _, f := range p.Fields {
			if !isNumeric(f) {
				return ReasonNonNumericalFields
			}
			if len(f) != 2 {
				return ReasonNonTwoDigitFields
			}
		}
	}
	if len(p.Fields) == 0 {
		if enforceFunctional && !env.data.HasFunctionalAllele(p.Gene) {
			return ReasonNoFunctionalAlleles
		}
		return ""
	}
	node, ok := env.data.Genes.Walk(append([]string{p.Gene}, p.Fields...)...)
	if !ok {
		return ReasonNonexistentAllele
	}
	if enforceFunctional && !functionalAllele(env, p, node) {
		return ReasonNonfunctionalAllele
	}
	return ""
}

// functionalAllele decides whether a resolved designation counts as
// functional. MH group designators (non-numeric trailing G/P tags) are
// groupings, not alleles, and are exempt; mouse MH catalogs carry no
// functionality information, so enforcement is a no-op there.
func functionalAllele(env *resolveEnv, p Parsed, node *catalog.Node) bool {
	if env.cfg.family == catalog.FamilyMH {
		if env.data.Species == catalog.SpeciesMusMusculus {
			return true
		}
		last := p.Fields[len(p.Fields)-1]
		if strings.HasSuffix(last, "G") || strings.HasSuffix(last, "P") {
			return true
		}
	}
	if node.IsLeaf() {
		return node.Label == catalog.Functional
	}
	for _, label := range node.Leaves() {
		if label == catalog.Functional {
			return true
		}
	}
	return false
}
