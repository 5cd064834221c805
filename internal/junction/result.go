package junction

// Failure reasons reported by junction standardization. Several can occur in
// one call; they are concatenated into a single reason string.
const (
	ReasonInvalidAaSequence     = "not a valid amino acid sequence"
	ReasonUnsupportedSpecies    = "unsupported species"
	ReasonUnsupportedLocus      = "unsupported locus"
	ReasonNoSequenceInfo        = "no sequence information for symbol"
	ReasonJAlignmentFailed      = "J alignment unsuccessful"
	ReasonJReconstructionFailed = "J side reconstruction unsuccessful"
	ReasonJAmbiguous            = "J side reconstruction ambiguous"
	ReasonVAlignmentFailed      = "V alignment unsuccessful"
	ReasonVReconstructionFailed = "V side reconstruction unsuccessful"
	ReasonVAmbiguous            = "V side reconstruction ambiguous"
	ReasonTooShort              = "junction too short"
)

// Result is the immutable outcome of one junction standardization call.
type Result struct {
	input  string
	reason string
	seq    string
}

// Input returns the original sequence as given.
func (r Result) Input() string { return r.input }

// Success reports whether the junction standardized cleanly.
func (r Result) Success() bool { return r.reason == "" }

// Failed is the complement of Success.
func (r Result) Failed() bool { return r.reason != "" }

// Reason returns the concatenated failure reasons, or "" on success.
func (r Result) Reason() string { return r.reason }

// Junction returns the standardized junction, or "" on failure.
func (r Result) Junction() string {
	if r.Failed() {
		return ""
	}
	return r.seq
}

// CDR3 returns the junction stripped of its conserved boundary residues, or
// "" on failure.
func (r Result) CDR3() string {
	j := r.Junction()
	if len(j) < 2 {
		return ""
	}
	return j[1 : len(j)-1]
}

// AttemptedFix returns the original or partially corrected sequence the
// aligner reached before giving up. Populated only on failure.
func (r Result) AttemptedFix() string {
	if r.Success() {
		return ""
	}
	return r.seq
}
