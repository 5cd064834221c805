package junction

import (
	"sort"
	"strings"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

// reference is one alignment candidate: a region string and the index of its
// conserved anchor residue (the junction-terminal phenylalanine/tryptophan
// for J regions, the framework-3 cysteine for V regions).
type reference struct {
	symbol string
	region string
	anchor int
}

func (r *reference) conserved() byte { return r.region[r.anchor] }

type side int

const (
	sideV side = iota
	sideJ
)

// familyForLocus maps a chain locus to its gene family, or "" when the locus
// is not recognized. The bare family names are accepted as loci when the
// precise chain is unknown.
func familyForLocus(locus string) string {
	switch locus {
	case catalog.FamilyTR, "TRA", "TRB", "TRG", "TRD":
		return catalog.FamilyTR
	case catalog.FamilyIG, "IGH", "IGK", "IGL":
		return catalog.FamilyIG
	}
	return ""
}

// geneMatchesLocus selects the genes eligible for one side of a locus.
// Dual-nomenclature TRAV/DV segments belong to both the alpha and the delta
// locus.
func geneMatchesLocus(gene, locus string, s side) bool {
	segment := byte('V')
	if s == sideJ {
		segment = 'J'
	}
	if len(locus) == 2 {
		// bare family: any chain within it
		return strings.HasPrefix(gene, locus) && len(gene) > 3 && gene[3] == segment
	}
	if s == sideJ {
		return strings.HasPrefix(gene, locus+"J")
	}
	if strings.HasPrefix(gene, locus+"V") {
		return true
	}
	return locus == "TRD" && strings.Contains(gene, "/DV")
}

// splitAlleleKey breaks a sequence-catalog key into gene name and allele
// designation.
func splitAlleleKey(key string) (gene, allele string) {
	if i := strings.Index(key, "*"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// extractRegion pulls the relevant region and anchor index for one side out
// of an allele's region map. Entries without usable anchor information are
// skipped by the caller.
func extractRegion(regions map[string]string, s side) (string, int, bool) {
	if s == sideJ {
		region, motif := regions["J-REGION"], regions["J-MOTIF"]
		if region == "" || motif == "" {
			return "", 0, false
		}
		anchor := strings.Index(region, motif)
		if anchor < 0 {
			return "", 0, false
		}
		return region, anchor, true
	}

	region := regions["V-REGION"]
	if region == "" {
		return "", 0, false
	}
	if fr3 := regions["FR3-IMGT"]; fr3 != "" {
		i := strings.Index(region, fr3)
		if i < 0 {
			return "", 0, false
		}
		return region, i + len(fr3) - 1, true
	}
	// No framework annotation: fall back to the last cysteine within the
	// trailing residues of the region.
	start := len(region) - 8
	if start < 0 {
		start = 0
	}
	idx := strings.LastIndexByte(region[start:], 'C')
	if idx < 0 {
		return "", 0, false
	}
	return region, start + idx, true
}

// selectReferences resolves the candidate set for one side: either every
// catalogued allele matching the locus, or the alleles of an explicitly
// named V/J symbol. Allele entries that share identical region content
// across a whole gene are collapsed to a single gene-level candidate.
func (e *Engine) selectReferences(data *catalog.FamilyData, locus string, s side, explicit string, enforceFunctional bool, species string) ([]*reference, string) {
	wantGene, wantAllele := "", ""
	if explicit != "" {
		res := e.symbols.Standardize(explicit, symbol.Options{Species: species, Family: data.Family})
		if res.Failed() || res.Gene() == "" {
			return nil, ReasonNoSequenceInfo
		}
		wantGene, wantAllele = res.Gene(), res.Allele()
	}

	keys := make([]string, 0, len(data.Sequences))
	perGene := make(map[string]int)
	for key := range data.Sequences {
		keys = append(keys, key)
		gene, _ := splitAlleleKey(key)
		perGene[gene]++
	}
	sort.Strings(keys)

	var selected []entry
	for _, key := range keys {
		gene, allele := splitAlleleKey(key)
		switch {
		case wantAllele != "":
			if key != wantAllele {
				continue
			}
		case wantGene != "":
			if gene != wantGene {
				continue
			}
		default:
			if !geneMatchesLocus(gene, locus, s) {
				continue
			}
		}
		if enforceFunctional && allele != "" {
			if label, ok := data.AlleleLabel(gene, allele); ok && label != catalog.Functional {
				continue
			}
		}
		region, anchor, ok := extractRegion(data.Sequences[key], s)
		if !ok {
			continue
		}
		selected = append(selected, entry{key: key, gene: gene, region: region, anchor: anchor})
	}
	if len(selected) == 0 {
		if explicit != "" {
			return nil, ReasonNoSequenceInfo
		}
		return nil, ""
	}

	var refs []*reference
	for i := 0; i < len(selected); {
		j := i
		for j < len(selected) && selected[j].gene == selected[i].gene {
			j++
		}
		group := selected[i:j]
		if collapsible(group, perGene[group[0].gene]) {
			refs = append(refs, &reference{symbol: group[0].gene, region: group[0].region, anchor: group[0].anchor})
		} else {
			for _, en := range group {
				refs = append(refs, &reference{symbol: en.key, region: en.region, anchor: en.anchor})
			}
		}
		i = j
	}
	return refs, ""
}

// entry is a pre-collapse candidate row.
type entry struct {
	key    string
	gene   string
	region string
	anchor int
}

func collapsible(group []entry, total int) bool {
	if len(group) != total {
		return false
	}
	for _, en := range group[1:] {
		if en.region != group[0].region || en.anchor != group[0].anchor {
			return false
		}
	}
	return true
}
