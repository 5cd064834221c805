package junction

// correction is one candidate rewrite of the junction produced by a retained
// alignment. extension counts residues borrowed from the reference region.
type correction struct {
	corrected string
	extension int
}

func appendCorrection(list []correction, c correction) []correction {
	for _, existing := range list {
		if existing.corrected == c.corrected {
			return list
		}
	}
	return append(list, c)
}

// correctJ turns the retained J alignments into a corrected sequence: the
// junction is truncated to end at the conserved anchor, or extended with
// reference residues when the anchor lies beyond the sequence's end. A gap
// larger than one residue needs explicit reconstruction permission.
//
// A mismatch-free alignment whose anchor coincides with the sequence's end
// means the junction is already canonical; it short-circuits every other
// candidate. Otherwise, when the retained alignments disagree, single-residue
// extensions are preferred; with no explicit J symbol, corrections ending in
// a canonical anchor residue are preferred next. Anything still ambiguous
// fails and the sequence is left untouched.
func correctJ(seq string, aligns []alignment, p scoreParams, allowReconstruction, explicitJ bool) (string, string) {
	var options []correction
	blocked := false
	for _, a := range aligns {
		implied := a.offset + a.ref.anchor + 1
		if implied <= 0 {
			continue
		}
		if implied == len(seq) && exactAlignment(seq, a, p) {
			return seq, ""
		}
		if implied > len(seq) {
			missing := implied - len(seq)
			if missing > 1 && !allowReconstruction {
				blocked = true
				continue
			}
			start := a.ref.anchor + 1 - missing
			options = appendCorrection(options, correction{
				corrected: seq + a.ref.region[start:a.ref.anchor+1],
				extension: missing,
			})
			continue
		}
		options = appendCorrection(options, correction{corrected: seq[:implied]})
	}

	if len(options) == 0 {
		if blocked {
			return seq, ReasonJReconstructionFailed
		}
		return seq, ReasonJAlignmentFailed
	}
	if len(options) > 1 {
		if singles := filterExtension(options, 1); len(singles) > 0 {
			options = singles
		}
	}
	if len(options) > 1 && !explicitJ {
		if canonical := filterCanonicalEnd(options); len(canonical) > 0 {
			options = canonical
		}
	}
	if len(options) > 1 {
		return seq, ReasonJAmbiguous
	}
	return options[0].corrected, ""
}

func filterExtension(options []correction, extension int) []correction {
	var out []correction
	for _, o := range options {
		if o.extension == extension {
			out = append(out, o)
		}
	}
	return out
}

func filterCanonicalEnd(options []correction) []correction {
	var out []correction
	for _, o := range options {
		last := o.corrected[len(o.corrected)-1]
		if last == 'F' || last == 'W' {
			out = append(out, o)
		}
	}
	return out
}

// correctV is the mirror image of the J side: rev and the alignments are in
// reversed coordinates, so trimming or extending at the junction's start is
// the same tail-anchored problem. The corrected sequence is returned in
// forward orientation; any candidate that does not begin with the conserved
// cysteine is discarded. Disagreements resolve the same way as on the J
// side: a mismatch-free no-op wins outright, then single-cysteine extensions
// are preferred over trims and longer reconstructions.
func correctV(rev string, aligns []alignment, p scoreParams, allowReconstruction bool) (string, string) {
	seq := reverseString(rev)

	var options []correction
	for _, a := range aligns {
		implied := a.offset + a.ref.anchor + 1
		if implied <= 0 {
			continue
		}
		if implied == len(rev) && exactAlignment(rev, a, p) {
			return seq, ""
		}
		var corrected string
		extension := 0
		if implied > len(rev) {
			missing := implied - len(rev)
			if missing > 1 && !allowReconstruction {
				continue
			}
			start := a.ref.anchor + 1 - missing
			corrected = rev + a.ref.region[start:a.ref.anchor+1]
			extension = missing
		} else {
			corrected = rev[:implied]
		}
		forward := reverseString(corrected)
		if forward == "" || forward[0] != 'C' {
			continue
		}
		options = appendCorrection(options, correction{corrected: forward, extension: extension})
	}

	if len(options) == 0 {
		return seq, ReasonVReconstructionFailed
	}
	if len(options) > 1 {
		if singles := filterExtension(options, 1); len(singles) > 0 {
			options = singles
		}
	}
	if len(options) > 1 {
		return seq, ReasonVAmbiguous
	}
	return options[0].corrected, ""
}
