// Package junction implements CDR3/junction sequence standardization: a
// candidate sequence is aligned against known V- and J-region reference
// segments, its conserved boundary residues are located, and the sequence is
// trimmed or reconstructed to the canonical junction span.
package junction

import "math"

// invalidScore marks an alignment whose mismatch budget was exhausted.
const invalidScore = -1

// scoreParams bundles the tunables of the sliding alignment.
type scoreParams struct {
	penalty       float64
	maxMismatches int
	minScore      float64
}

// alignment is one scored placement of a reference region against the
// candidate sequence. offset is the index in the sequence (possibly
// negative) where region[0] sits.
type alignment struct {
	ref    *reference
	offset int
	score  float64
}

// scoreAt scores region against seq at the given offset. Matches count +1,
// mismatches subtract the penalty. Mismatches before the first match are
// free: they are treated as unrelated residues outside the region, not as
// substitutions. Once accumulated mismatches exceed the budget the whole
// placement is invalid.
func scoreAt(seq, region string, offset int, p scoreParams) float64 {
	start := offset
	if start < 0 {
		start = 0
	}
	end := offset + len(region)
	if end > len(seq) {
		end = len(seq)
	}

	score := 0.0
	mismatches := 0
	matched := false
	for i := start; i < end; i++ {
		if seq[i] == region[i-offset] {
			score++
			matched = true
			continue
		}
		if !matched {
			continue
		}
		mismatches++
		if mismatches > p.maxMismatches {
			return invalidScore
		}
		score -= p.penalty
	}
	return score
}

// exactAlignment reports whether a placement contains no substitutions:
// rescored with a zero mismatch budget it still yields a valid score.
func exactAlignment(seq string, a alignment, p scoreParams) bool {
	p.maxMismatches = 0
	return scoreAt(seq, a.ref.region, a.offset, p) != invalidScore
}

// anchorValid reports whether a placement is structurally usable: the
// conserved anchor residue either lies beyond the sequence's end (so the
// missing span can be reconstructed from the reference), or the sequence's
// tail from the anchor position onward is exactly the start of the
// reference's tail.
func anchorValid(seq, region string, offset, anchor int) bool {
	pos := offset + anchor
	if pos >= len(seq) {
		return true
	}
	if pos < 0 {
		return false
	}
	tail := seq[pos:]
	refTail := region[anchor:]
	if len(tail) > len(refTail) {
		return false
	}
	return refTail[:len(tail)] == tail
}

// bestAlignments slides every reference over seq and returns the
// highest-scoring structurally valid placements. Ties are all retained.
func bestAlignments(seq string, refs []*reference, p scoreParams) []alignment {
	var best []alignment
	bestScore := math.Inf(-1)
	for _, ref := range refs {
		for offset := -(len(ref.region) - 1); offset < len(seq); offset++ {
			if !anchorValid(seq, ref.region, offset, ref.anchor) {
				continue
			}
			s := scoreAt(seq, ref.region, offset, p)
			if s < p.minScore {
				continue
			}
			if s > bestScore {
				bestScore = s
				best = best[:0]
			}
			if s == bestScore {
				best = append(best, alignment{ref: ref, offset: offset, score: s})
			}
		}
	}
	return best
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
