package junction

import (
	"regexp"
	"strings"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

// ReasonNotJunction is reported by SimpleStandardize in strict mode for
// amino-acid sequences missing the conserved boundary residues.
const ReasonNotJunction = "not a valid junction sequence"

var junctionShapeRE = regexp.MustCompile(`^C[A-Z]*[FW]$`)

// SimpleStandardize checks that a sequence looks like a junction without
// consulting reference sequences: a valid amino-acid string starting with a
// cysteine and ending with a phenylalanine or tryptophan. In non-strict mode
// sequences missing the boundary residues are wrapped in C...F instead of
// rejected.
func SimpleStandardize(seq string, strict bool) Result {
	input := seq

	current := strings.ToUpper(strings.Join(strings.Fields(seq), ""))
	if current == "" || catalog.ValidateAaSequence(current) != 0 {
		return Result{input: input, reason: ReasonInvalidAaSequence, seq: input}
	}

	if !junctionShapeRE.MatchString(current) {
		if strict {
			return Result{input: input, reason: ReasonNotJunction, seq: current}
		}
		current = "C" + current + "F"
	}

	return Result{input: input, seq: current}
}
