package junction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

func TestSplitAlleleKey(t *testing.T) {
	gene, allele := splitAlleleKey("TRAJ23*02")
	assert.Equal(t, "TRAJ23", gene)
	assert.Equal(t, "02", allele)

	gene, allele = splitAlleleKey("TRAJ23")
	assert.Equal(t, "TRAJ23", gene)
	assert.Empty(t, allele)
}

func TestGeneMatchesLocus(t *testing.T) {
	tests := []struct {
		gene  string
		locus string
		s     side
		want  bool
	}{
		{"TRAJ23", "TRA", sideJ, true},
		{"TRBJ2-7", "TRA", sideJ, false},
		{"TRAV14/DV4", "TRA", sideV, true},
		{"TRAV14/DV4", "TRD", sideV, true},
		{"TRDV2", "TRD", sideV, true},
		{"TRAV25", "TRD", sideV, false},
		{"IGLV2-11", "IGL", sideV, true},
		{"IGLV2-11", "IGK", sideV, false},
		// bare family loci select every chain
		{"TRAJ23", "TR", sideJ, true},
		{"TRBJ2-7", "TR", sideJ, true},
		{"TRDV2", "TR", sideV, true},
		{"TRAC", "TR", sideV, false},
		{"IGHV1-2", "IG", sideV, true},
		{"IGKJ1", "IG", sideJ, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, geneMatchesLocus(tt.gene, tt.locus, tt.s), "%s %s", tt.gene, tt.locus)
	}
}

func TestExtractRegion(t *testing.T) {
	t.Run("J anchor from motif", func(t *testing.T) {
		region, anchor, ok := extractRegion(map[string]string{
			"J-REGION": "SYEQYFGPGTRLTVT",
			"J-MOTIF":  "FGPGT",
		}, sideJ)
		require.True(t, ok)
		assert.Equal(t, 5, anchor)
		assert.Equal(t, byte('F'), region[anchor])
	})

	t.Run("V anchor from framework annotation", func(t *testing.T) {
		region, anchor, ok := extractRegion(map[string]string{
			"V-REGION": "QVNCTYSLFWYVQDSAMYFCASSE",
			"FR3-IMGT": "DSAMYFC",
		}, sideV)
		require.True(t, ok)
		assert.Equal(t, byte('C'), region[anchor])
		assert.Equal(t, "ASSE", region[anchor+1:])
	})

	t.Run("V anchor from trailing cysteine heuristic", func(t *testing.T) {
		region, anchor, ok := extractRegion(map[string]string{
			"V-REGION": "DTAVSQLELGDSAVYFCTCSA",
		}, sideV)
		require.True(t, ok)
		assert.Equal(t, byte('C'), region[anchor])
		assert.Equal(t, "SA", region[anchor+1:])
	})

	t.Run("missing motif skipped", func(t *testing.T) {
		_, _, ok := extractRegion(map[string]string{"J-REGION": "SYEQYFGPGT"}, sideJ)
		assert.False(t, ok)
	})
}

func TestSelectReferencesCollapsesIdenticalAlleles(t *testing.T) {
	ctx, err := catalog.Default()
	require.NoError(t, err)
	e := NewEngine(ctx)
	data := ctx.Family(catalog.SpeciesHomoSapiens, catalog.FamilyTR)
	require.NotNil(t, data)

	refs, reason := e.selectReferences(data, "TRA", sideJ, "", false, catalog.SpeciesHomoSapiens)
	require.Empty(t, reason)

	symbols := make(map[string]bool)
	for _, r := range refs {
		symbols[r.symbol] = true
	}
	// identical alleles collapse to the gene
	assert.True(t, symbols["TRAJ23"])
	assert.False(t, symbols["TRAJ23*01"])
	// non-alpha genes excluded
	assert.False(t, symbols["TRBJ2-7"])
}

func TestSelectReferencesExplicitSymbol(t *testing.T) {
	ctx, err := catalog.Default()
	require.NoError(t, err)
	e := NewEngine(ctx)
	data := ctx.Family(catalog.SpeciesHomoSapiens, catalog.FamilyTR)

	t.Run("free-form symbol standardized first", func(t *testing.T) {
		refs, reason := e.selectReferences(data, "TRA", sideJ, "traj38", false, catalog.SpeciesHomoSapiens)
		require.Empty(t, reason)
		require.Len(t, refs, 1)
		assert.Equal(t, "TRAJ38", refs[0].symbol)
	})

	t.Run("allele-level symbol", func(t *testing.T) {
		refs, reason := e.selectReferences(data, "TRA", sideJ, "TRAJ23*02", false, catalog.SpeciesHomoSapiens)
		require.Empty(t, reason)
		require.Len(t, refs, 1)
	})

	t.Run("gene without sequence data", func(t *testing.T) {
		_, reason := e.selectReferences(data, "TRB", sideV, "TRBV1", false, catalog.SpeciesHomoSapiens)
		assert.Equal(t, ReasonNoSequenceInfo, reason)
	})

	t.Run("unresolvable symbol", func(t *testing.T) {
		_, reason := e.selectReferences(data, "TRA", sideJ, "foobarbaz", false, catalog.SpeciesHomoSapiens)
		assert.Equal(t, ReasonNoSequenceInfo, reason)
	})
}
