package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx, err := catalog.Default()
	require.NoError(t, err)
	return NewEngine(ctx)
}

func TestStandardizeTRRepairs(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		symbol  string
		species string
		want    string
	}{
		{"prefix insertion", "aj1", "", "TRAJ1"},
		{"legacy synonym", "TCRAV32S1", "", "TRAV25"},
		{"legacy synonym with shape change", "TRAV13S2", "", "TRAV13-2"},
		{"chain prefix rewrite", "TCRAV14/DV4", "", "TRAV14/DV4"},
		{"missing slash", "TRAV14DV4", "", "TRAV14/DV4"},
		{"dash-spelled slash", "TRAV38-2-DV8", "", "TRAV38-2/DV8"},
		{"missing slash before OR", "TRBV20OR9-2", "", "TRBV20/OR9-2"},
		{"legacy S separator", "TCRBV6S4", "", "TRBV6-4"},
		{"dot separator", "TRBV6.4", "", "TRBV6-4"},
		{"dash one dropped inside compound name", "TRAV14-1/DV4", "", "TRAV14/DV4"},
		{"dual nomenclature from alpha", "TRAV14", "", "TRAV14/DV4"},
		{"dual nomenclature from delta", "TRDV4", "", "TRAV14/DV4"},
		{"dash one added", "TRBV20", "", "TRBV20-1"},
		{"leading zeros", "TRBV06-01", "", "TRBV6-1"},
		{"whitespace and case", "  trbj 2-7 ", "", "TRBJ2-7"},
		{"mouse synonym", "TCRBV22S1A2N1T", "musmusculus", "TRBV2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Standardize(tt.symbol, Options{Species: tt.species})
			require.True(t, result.Success(), "reason: %s", result.Reason())
			assert.Equal(t, tt.want, result.Gene())
		})
	}
}

func TestStandardizeIdempotentOverCatalog(t *testing.T) {
	e := newTestEngine(t)
	ctx, err := catalog.Default()
	require.NoError(t, err)

	for _, species := range []string{catalog.SpeciesHomoSapiens, catalog.SpeciesMusMusculus} {
		data := ctx.Family(species, catalog.FamilyTR)
		require.NotNil(t, data)
		for _, name := range data.GeneNames() {
			result := e.Standardize(name, Options{Species: species})
			require.True(t, result.Success(), "%s %s: %s", species, name, result.Reason())
			assert.Equal(t, name, result.Gene())
		}
	}
}

func TestStandardizeAlleleDesignations(t *testing.T) {
	e := newTestEngine(t)

	t.Run("valid allele", func(t *testing.T) {
		result := e.Standardize("TRBV6-1*01", Options{})
		require.True(t, result.Success())
		assert.Equal(t, "TRBV6-1*01", result.Allele())
		assert.Equal(t, "TRBV6-1", result.Gene())
		assert.Equal(t, "TRBV6", result.Subgroup())
	})

	t.Run("single digit padded", func(t *testing.T) {
		result := e.Standardize("TRAJ1*1", Options{})
		require.True(t, result.Success())
		assert.Equal(t, "TRAJ1*01", result.Allele())
	})

	t.Run("nonexistent allele", func(t *testing.T) {
		result := e.Standardize("TRAJ1*02", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonNonexistentAllele, result.Reason())
		assert.Equal(t, "TRAJ1*02", result.AttemptedFix())
	})

	t.Run("non-numerical designator", func(t *testing.T) {
		result := e.Standardize("TRAJ1*0A", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonNonNumericalFields, result.Reason())
	})

	t.Run("non-2-digit designator", func(t *testing.T) {
		result := e.Standardize("TRAJ1*123", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonNonTwoDigitFields, result.Reason())
	})
}

func TestStandardizeFunctionality(t *testing.T) {
	e := newTestEngine(t)
	strict := Options{EnforceFunctional: true}

	t.Run("pseudogene rejected", func(t *testing.T) {
		result := e.Standardize("TRBV1", strict)
		require.True(t, result.Failed())
		assert.Equal(t, ReasonNoFunctionalAlleles, result.Reason())
	})

	t.Run("ORF allele rejected", func(t *testing.T) {
		result := e.Standardize("TRBJ2-7*02", strict)
		require.True(t, result.Failed())
		assert.Equal(t, ReasonNonfunctionalAllele, result.Reason())
	})

	t.Run("functional allele of mixed gene accepted", func(t *testing.T) {
		result := e.Standardize("TRBJ2-7*01", strict)
		require.True(t, result.Success())
		assert.Equal(t, "TRBJ2-7*01", result.Allele())
	})

	t.Run("not enforced by default", func(t *testing.T) {
		result := e.Standardize("TRBV1", Options{})
		assert.True(t, result.Success())
	})
}

func TestStandardizeFailures(t *testing.T) {
	e := newTestEngine(t)

	t.Run("unrecognized gene", func(t *testing.T) {
		result := e.Standardize("foobarbaz", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonUnrecognizedGene, result.Reason())
		assert.Equal(t, "FOOBARBAZ", result.AttemptedFix())
		assert.Empty(t, result.Gene())
	})

	t.Run("unsupported species", func(t *testing.T) {
		result := e.Standardize("TRAJ1", Options{Species: "feliscatus"})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonUnsupportedSpecies, result.Reason())
		assert.Equal(t, "TRAJ1", result.AttemptedFix())
	})

	t.Run("attempted fix keeps confident rewrites", func(t *testing.T) {
		result := e.Standardize("TCRAV99", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, "TRAV99", result.AttemptedFix())
	})
}

func TestStandardizeSubgroups(t *testing.T) {
	e := newTestEngine(t)

	t.Run("disallowed by default", func(t *testing.T) {
		result := e.Standardize("TRBV12", Options{})
		require.True(t, result.Failed())
		assert.Equal(t, ReasonIsSubgroup, result.Reason())
	})

	t.Run("allowed on request", func(t *testing.T) {
		result := e.Standardize("TRBV12", Options{AllowSubgroup: true})
		require.True(t, result.Success())
		assert.Equal(t, "TRBV12", result.Subgroup())
		assert.Empty(t, result.Gene())
		assert.Equal(t, "TRBV12", result.HighestPrecision())
	})
}

func TestStandardizeMH(t *testing.T) {
	e := newTestEngine(t)
	mh := Options{Family: catalog.FamilyMH}

	tests := []struct {
		name   string
		symbol string
		want   string
	}{
		{"already valid", "HLA-B*57:01", "HLA-B*57:01"},
		{"missing colon", "HLA-B*5701", "HLA-B*57:01"},
		{"missing asterisk", "HLA-DRB10301", "HLA-DRB1*03:01"},
		{"missing prefix", "B*57:01", "HLA-B*57:01"},
		{"dot for colon", "HLA-B*57.01", "HLA-B*57:01"},
		{"serology W", "HLA-CW*07:02", "HLA-C*07:02"},
		{"null expression suffix", "HLA-B*57:01N", "HLA-B*57:01"},
		{"single digit fields padded", "HLA-DPB1*4:1", "HLA-DPB1*04:01"},
		{"zero width search", "HLA-DPB1*004:01", "HLA-DPB1*04:01"},
		{"three digit field", "HLA-DPB1*104:01", "HLA-DPB1*104:01"},
		{"G group", "HLA-A*02:01:01G", "HLA-A*02:01:01G"},
		{"P group", "HLA-DPB1*04:01P", "HLA-DPB1*04:01P"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Standardize(tt.symbol, mh)
			require.True(t, result.Success(), "reason: %s", result.Reason())
			assert.Equal(t, tt.want, result.Allele())
		})
	}

	t.Run("B2M bypasses the tree walk", func(t *testing.T) {
		result := e.Standardize("B2M", mh)
		require.True(t, result.Success())
		assert.Equal(t, "B2M", result.Gene())
	})

	t.Run("protein precision keeps two fields", func(t *testing.T) {
		result := e.Standardize("HLA-A*02:01:01G", mh)
		require.True(t, result.Success())
		assert.Equal(t, "HLA-A*02:01", result.Protein())
	})

	t.Run("mouse MH synonym", func(t *testing.T) {
		result := e.Standardize("H2K", Options{Family: catalog.FamilyMH, Species: catalog.SpeciesMusMusculus})
		require.True(t, result.Success())
		assert.Equal(t, "H2-K1", result.Gene())
	})

	t.Run("too many designators", func(t *testing.T) {
		result := e.Standardize("HLA-A*01:01:01:01:01", mh)
		require.True(t, result.Failed())
		assert.Equal(t, ReasonTooManyFields, result.Reason())
	})

	t.Run("G group survives functionality enforcement", func(t *testing.T) {
		result := e.Standardize("HLA-A*02:01:01G", Options{Family: catalog.FamilyMH, EnforceFunctional: true})
		assert.True(t, result.Success())
	})
}

func TestStandardizeDeterministic(t *testing.T) {
	e := newTestEngine(t)
	first := e.Standardize("TRAV14DV4*02", Options{})
	second := e.Standardize("TRAV14DV4*02", Options{})
	assert.Equal(t, first, second)
	require.True(t, first.Success())
	assert.Equal(t, "TRAV14/DV4*02", first.Allele())
}
