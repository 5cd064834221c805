package symbol

import "strings"

// Precision selects how specifically a resolved symbol is rendered.
type Precision string

const (
	PrecisionSubgroup Precision = "subgroup"
	PrecisionGene     Precision = "gene"
	PrecisionProtein  Precision = "protein"
	PrecisionAllele   Precision = "allele"
)

// ValidPrecision reports whether p is a recognized precision level.
func ValidPrecision(p Precision) bool {
	switch p {
	case PrecisionSubgroup, PrecisionGene, PrecisionProtein, PrecisionAllele:
		return true
	}
	return false
}

// compileSymbol renders a parsed symbol at the requested precision. Compiling
// is total: it always returns a string, even for invalid symbols, which is
// what makes it usable for the best attempted fix.
func compileSymbol(cfg *familyConfig, p Parsed, precision Precision) string {
	switch precision {
	case PrecisionSubgroup:
		return cfg.subgroupOf(p.Gene)
	case PrecisionGene:
		return p.Gene
	case PrecisionProtein:
		fields := p.Fields
		if len(fields) > 2 {
			fields = fields[:2]
		}
		return joinSymbol(cfg, p.Gene, fields)
	default:
		return joinSymbol(cfg, p.Gene, p.Fields)
	}
}

func joinSymbol(cfg *familyConfig, gene string, fields []string) string {
	if len(fields) == 0 {
		return gene
	}
	return gene + "*" + strings.Join(fields, cfg.fieldSep)
}
