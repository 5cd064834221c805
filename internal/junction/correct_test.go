package junction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectVPrefersSingleCysteineExtension(t *testing.T) {
	// Two tied references disagree: one implies leaving the sequence alone
	// despite an internal mismatch, the other prepends the conserved C.
	// The single-residue extension wins.
	refs := []*reference{
		{symbol: "VX1", region: "CTSF", anchor: 0},
		{symbol: "VX2", region: "CTSSF", anchor: 0},
	}
	p := scoreParams{penalty: 1.5, maxMismatches: 1, minScore: 1}
	rev := reverseString("CSSF")
	aligns := bestAlignments(rev, mirrorRefs(refs), p)
	require.Len(t, aligns, 2)

	got, reason := correctV(rev, aligns, p, false)
	require.Empty(t, reason)
	assert.Equal(t, "CCSSF", got)
}

func TestCorrectVExactMatchWins(t *testing.T) {
	refs := []*reference{{symbol: "VX1", region: "CSSF", anchor: 0}}
	p := scoreParams{penalty: 1.5, maxMismatches: 1, minScore: 1}
	rev := reverseString("CSSF")
	aligns := bestAlignments(rev, mirrorRefs(refs), p)
	require.NotEmpty(t, aligns)

	got, reason := correctV(rev, aligns, p, false)
	require.Empty(t, reason)
	assert.Equal(t, "CSSF", got)
}

func TestCorrectJExactMatchWins(t *testing.T) {
	// A mismatch-free no-op beats a tied single-residue extension.
	refs := []*reference{
		{symbol: "JX1", region: "ASF", anchor: 2},
		{symbol: "JX2", region: "ASFW", anchor: 3},
	}
	p := scoreParams{penalty: 1.5, maxMismatches: 1, minScore: 1}
	aligns := bestAlignments("CASF", refs, p)
	require.Len(t, aligns, 2)

	got, reason := correctJ("CASF", aligns, p, false, false)
	require.Empty(t, reason)
	assert.Equal(t, "CASF", got)
}
