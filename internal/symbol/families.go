package symbol

import (
	"regexp"
	"strings"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

// familyConfig is one entry of the dispatch table: everything that varies
// between gene families lives here rather than in type hierarchies.
type familyConfig struct {
	family string

	// prefix is prepended (separator included) by the prefix-insertion
	// strategy, e.g. "TR", "IG", "HLA-".
	prefix string

	// legacyPrefix is an alternate chain-name prefix rewritten to prefix,
	// e.g. "TCR" for T cell receptor genes.
	legacyPrefix string

	// dashSpellings are alternate spellings of the dash separator rewritten
	// inside gene names, e.g. TRBV6S4 and TRBV6.4 for TRBV6-4.
	dashSpellings []string

	// expressionSuffix strips a trailing expression-status letter from the
	// allele designation, as in HLA-B*57:01N.
	expressionSuffix bool

	// fieldSep joins allele-designation fields when compiling; families
	// with a single designation field leave it empty.
	fieldSep string

	maxFields int

	// numericFields requires every designation field to be a 2-digit
	// numeral, as for TR and IG allele numbers.
	numericFields bool

	// bypass genes are valid without a catalog tree walk.
	bypass map[string]bool

	strategies []strategy

	// accepts decides when the resolution cascade may halt.
	accepts func(env *resolveEnv, p Parsed) bool
}

// symbolRE splits a cleaned symbol into a gene-name capture and an optional
// allele-designation capture after the asterisk.
var symbolRE = regexp.MustCompile(`^([A-Z0-9\-\./()]+?)(?:\*([0-9A-Z:.]+))?$`)

// expressionSuffixRE matches a designation carrying one of the expression
// status letters (null, low, secreted, cytoplasm-only, aberrant,
// questionable) after the numeric fields.
var expressionSuffixRE = regexp.MustCompile(`^[0-9:]+G?P?[LSCAQN]$`)

// parse tokenizes a cleaned symbol. Parsing never fails: when the expression
// does not match, the whole input is taken as the gene name and the absence
// of designation fields is itself meaningful to the cascade.
func (cfg *familyConfig) parse(s string) Parsed {
	m := symbolRE.FindStringSubmatch(s)
	if m == nil {
		return Parsed{Gene: s}
	}
	return Parsed{Gene: m[1], Fields: cfg.splitFields(m[2])}
}

// splitFields breaks a designation capture into ordered fields and
// normalizes purely numeric fields to two-digit zero-padded form. Non-numeric
// fields (G/P group tags, letter-qualified fields) pass through unchanged.
func (cfg *familyConfig) splitFields(designation string) []string {
	if designation == "" {
		return nil
	}
	designation = strings.ReplaceAll(designation, ".", ":")
	if cfg.expressionSuffix && expressionSuffixRE.MatchString(designation) {
		designation = designation[:len(designation)-1]
	}
	var parts []string
	if cfg.fieldSep != "" {
		parts = strings.Split(designation, cfg.fieldSep)
	} else {
		parts = []string{designation}
	}
	for i, f := range parts {
		parts[i] = normalizeField(f)
	}
	return parts
}

func normalizeField(f string) string {
	if !isNumeric(f) {
		return f
	}
	for len(f) < 2 {
		f = "0" + f
	}
	return f
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// subgroupOf truncates a gene name at its subgroup boundary: everything
// before the trailing locus-number suffix. MH gene names have no finer
// subgroup level, so they truncate to themselves.
func (cfg *familyConfig) subgroupOf(gene string) string {
	if cfg.family == catalog.FamilyMH {
		return gene
	}
	if i := strings.Index(gene, "-"); i > 0 {
		return gene[:i]
	}
	return gene
}

// geneAccepted halts the cascade as soon as the gene name is known; allele
// level problems are reported by the final validity check instead.
func geneAccepted(env *resolveEnv, p Parsed) bool {
	return env.cfg.bypass[p.Gene] || env.data.HasGene(p.Gene)
}

// symbolAccepted halts the cascade only when the full designation walks the
// catalog tree, which is what the MH zero-width search needs to detect.
func symbolAccepted(env *resolveEnv, p Parsed) bool {
	if env.cfg.bypass[p.Gene] {
		return len(p.Fields) == 0
	}
	if !env.data.HasGene(p.Gene) {
		return false
	}
	if len(p.Fields) == 0 {
		return true
	}
	_, ok := env.data.Genes.Walk(append([]string{p.Gene}, p.Fields...)...)
	return ok
}

var (
	trConfig = &familyConfig{
		family:        catalog.FamilyTR,
		prefix:        "TR",
		legacyPrefix:  "TCR",
		dashSpellings: []string{"S", "."},
		maxFields:     1,
		numericFields: true,
		accepts:       geneAccepted,
		strategies: []strategy{
			{name: "chain prefix", apply: rewriteLegacyPrefix},
			{name: "separator respelling", apply: rewriteSeparatorLetters},
			{name: "slash repair", apply: insertLocusSlashes},
			{name: "leading zeros", apply: stripGeneLeadingZeros},
			{name: "family prefix", exploratory: true, apply: insertFamilyPrefix},
			{name: "dual nomenclature", exploratory: true, apply: resolveDualNomenclature},
			{name: "dash one", exploratory: true, apply: expandDashOneVariants},
		},
	}

	igConfig = &familyConfig{
		family:        catalog.FamilyIG,
		prefix:        "IG",
		dashSpellings: []string{"."},
		maxFields:     1,
		numericFields: true,
		accepts:       geneAccepted,
		strategies: []strategy{
			{name: "separator respelling", apply: rewriteSeparatorLetters},
			{name: "slash repair", apply: insertLocusSlashes},
			{name: "leading zeros", apply: stripGeneLeadingZeros},
			{name: "family prefix", exploratory: true, apply: insertFamilyPrefix},
			{name: "dash one", exploratory: true, apply: stripDashOneVariants},
		},
	}

	hsMhConfig = &familyConfig{
		family:           catalog.FamilyMH,
		prefix:           "HLA-",
		fieldSep:         ":",
		maxFields:        4,
		expressionSuffix: true,
		bypass:           map[string]bool{"B2M": true},
		accepts:          symbolAccepted,
		strategies: []strategy{
			{name: "serology W", apply: rewriteCwGene},
			{name: "asterisk repair", apply: splitForgottenAsterisk},
			{name: "colon repair", apply: splitForgottenColons},
			{name: "family prefix", exploratory: true, apply: insertFamilyPrefix},
			{name: "zero widths", exploratory: true, apply: searchDesignationZeros},
		},
	}

	mmMhConfig = &familyConfig{
		family:    catalog.FamilyMH,
		prefix:    "H2-",
		fieldSep:  ":",
		maxFields: 4,
		bypass:    map[string]bool{"B2M": true},
		accepts:   symbolAccepted,
		strategies: []strategy{
			{name: "asterisk repair", apply: splitForgottenAsterisk},
			{name: "colon repair", apply: splitForgottenColons},
			{name: "family prefix", exploratory: true, apply: insertFamilyPrefix},
			{name: "zero widths", exploratory: true, apply: searchDesignationZeros},
		},
	}
)

// configFor returns the dispatch-table entry for a (species, family) pair,
// or nil when the pair has no configuration.
func configFor(species, family string) *familyConfig {
	switch family {
	case catalog.FamilyTR:
		return trConfig
	case catalog.FamilyIG:
		if species == catalog.SpeciesHomoSapiens {
			return igConfig
		}
	case catalog.FamilyMH:
		if species == catalog.SpeciesMusMusculus {
			return mmMhConfig
		}
		return hsMhConfig
	}
	return nil
}
