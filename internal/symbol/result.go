package symbol

// Result is the immutable outcome of one standardization call. Success and
// failure are complements of the error reason; the graduated accessors
// return "" unless that precision level was actually achieved.
type Result struct {
	input        string
	species      string
	reason       string
	attemptedFix string

	subgroup string
	gene     string
	protein  string
	allele   string
}

// Input returns the original, uncleaned symbol.
func (r Result) Input() string { return r.input }

// Species returns the species key the call resolved against.
func (r Result) Species() string { return r.species }

// Success reports whether the symbol resolved.
func (r Result) Success() bool { return r.reason == "" }

// Failed is the complement of Success.
func (r Result) Failed() bool { return r.reason != "" }

// Reason returns the failure reason, or "" on success.
func (r Result) Reason() string { return r.reason }

// Subgroup returns the resolved subgroup, or "" if none was reached.
func (r Result) Subgroup() string { return r.subgroup }

// Gene returns the resolved gene name, or "" if resolution stopped at
// subgroup precision or failed.
func (r Result) Gene() string { return r.gene }

// Protein returns the two-field protein-level symbol, or "" when the input
// carried fewer than two designation fields.
func (r Result) Protein() string { return r.protein }

// Allele returns the fully designated symbol, or "" when the input carried
// no allele designation.
func (r Result) Allele() string { return r.allele }

// AlleleOrGene returns the most specific of allele and gene.
func (r Result) AlleleOrGene() string {
	if r.allele != "" {
		return r.allele
	}
	return r.gene
}

// HighestPrecision returns the most specific symbol achieved, or "" on
// failure.
func (r Result) HighestPrecision() string {
	switch {
	case r.allele != "":
		return r.allele
	case r.protein != "":
		return r.protein
	case r.gene != "":
		return r.gene
	default:
		return r.subgroup
	}
}

// At returns the resolved symbol at the requested precision, or "" when that
// level was not achieved.
func (r Result) At(precision Precision) string {
	switch precision {
	case PrecisionSubgroup:
		return r.subgroup
	case PrecisionGene:
		return r.gene
	case PrecisionProtein:
		return r.protein
	default:
		return r.allele
	}
}

// AttemptedFix returns the highest-precision string the cascade reached
// before giving up. Populated only on failure.
func (r Result) AttemptedFix() string {
	if r.Success() {
		return ""
	}
	return r.attemptedFix
}
