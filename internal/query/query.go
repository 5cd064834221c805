// Package query enumerates reference-catalog contents: gene or allele
// symbols for one (species, family) pair, optionally filtered by
// functionality and a search pattern.
package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

// Functionality filters catalog entries by their leaf label.
type Functionality string

const (
	FuncAny           Functionality = "any"
	FuncFunctional    Functionality = "F"
	FuncNonFunctional Functionality = "NF"
	FuncORF           Functionality = "ORF"
	FuncPseudogene    Functionality = "P"
)

// Options controls one catalog query.
type Options struct {
	// Species defaults to homosapiens.
	Species string
	// Family defaults to TR.
	Family string
	// Precision defaults to gene. Protein precision is only meaningful for
	// MH catalogs; subgroup precision enumerates the derived subgroups.
	Precision symbol.Precision
	// Functionality defaults to any. A gene matches when any of its alleles
	// matches.
	Functionality Functionality
	// Pattern optionally restricts results to symbols matching a regular
	// expression.
	Pattern string
}

// Engine enumerates catalog contents. Safe for concurrent use.
type Engine struct {
	ctx    *catalog.Context
	logger *zap.Logger
}

// NewEngine creates a query engine over the given catalogs.
func NewEngine(ctx *catalog.Context) *Engine {
	return &Engine{ctx: ctx, logger: zap.NewNop()}
}

// SetLogger sets the engine's logger.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Query returns the sorted set of symbols matching the options. Malformed
// arguments (unknown species, precision or functionality, bad pattern) are
// programming errors reported as an error, not a Result.
func (e *Engine) Query(opts Options) ([]string, error) {
	species := opts.Species
	if species == "" {
		species = catalog.SpeciesHomoSapiens
	}
	family := opts.Family
	if family == "" {
		family = catalog.FamilyTR
	}
	precision := opts.Precision
	if precision == "" {
		precision = symbol.PrecisionGene
	}
	functionality := opts.Functionality
	if functionality == "" {
		functionality = FuncAny
	}

	data := e.ctx.Family(species, family)
	if data == nil {
		return nil, fmt.Errorf("no %s catalog for species %q", family, species)
	}
	if !symbol.ValidPrecision(precision) {
		return nil, fmt.Errorf("unknown precision %q", precision)
	}
	switch functionality {
	case FuncAny, FuncFunctional, FuncNonFunctional, FuncORF, FuncPseudogene:
	default:
		return nil, fmt.Errorf("unknown functionality filter %q", functionality)
	}
	if precision == symbol.PrecisionProtein && family != catalog.FamilyMH {
		return nil, fmt.Errorf("protein precision is only defined for MH catalogs")
	}

	var pattern *regexp.Regexp
	if opts.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bad search pattern: %w", err)
		}
	}

	set := make(map[string]bool)
	switch precision {
	case symbol.PrecisionSubgroup:
		for subgroup := range data.Subgroups {
			set[subgroup] = true
		}
	default:
		for gene, node := range data.Genes {
			e.collect(set, family, gene, nil, node, precision, functionality)
		}
	}

	results := make([]string, 0, len(set))
	for s := range set {
		if pattern != nil && !pattern.MatchString(s) {
			continue
		}
		results = append(results, s)
	}
	sort.Strings(results)
	return results, nil
}

// collect walks one gene's designation tree and adds every matching symbol
// at the requested precision.
func (e *Engine) collect(set map[string]bool, family, gene string, fields []string, node *catalog.Node, precision symbol.Precision, functionality Functionality) {
	if node.IsLeaf() {
		if !labelMatches(node.Label, functionality) {
			return
		}
		switch precision {
		case symbol.PrecisionGene:
			set[gene] = true
		case symbol.PrecisionProtein:
			if len(fields) >= 2 && !groupDesignation(family, fields) {
				set[gene+"*"+strings.Join(fields[:2], ":")] = true
			}
		case symbol.PrecisionAllele:
			if len(fields) > 0 && !groupDesignation(family, fields) {
				sep := ":"
				if family != catalog.FamilyMH {
					sep = ""
				}
				set[gene+"*"+strings.Join(fields, sep)] = true
			}
		}
		return
	}
	for field, child := range node.Children {
		e.collect(set, family, gene, append(fields, field), child, precision, functionality)
	}
}

// groupDesignation reports whether an MH designation path names a G or P
// group rather than an allele.
func groupDesignation(family string, fields []string) bool {
	if family != catalog.FamilyMH || len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	return !isNumeric(last) && (strings.HasSuffix(last, "G") || strings.HasSuffix(last, "P"))
}

func labelMatches(label string, functionality Functionality) bool {
	switch functionality {
	case FuncAny:
		return true
	case FuncFunctional:
		return label == catalog.Functional
	case FuncNonFunctional:
		return label != catalog.Functional
	default:
		return label == string(functionality)
	}
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
