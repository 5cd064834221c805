package catalog

// aminoAcids is the 20-letter standard amino-acid alphabet.
var aminoAcids = map[byte]bool{
	'A': true, 'C': true, 'D': true, 'E': true, 'F': true,
	'G': true, 'H': true, 'I': true, 'K': true, 'L': true,
	'M': true, 'N': true, 'P': true, 'Q': true, 'R': true,
	'S': true, 'T': true, 'V': true, 'W': true, 'Y': true,
}

// IsAminoAcid reports whether b is one of the 20 standard amino acids.
func IsAminoAcid(b byte) bool {
	return aminoAcids[b]
}

// ValidateAaSequence returns the first character of seq that is not a
// standard amino acid, or 0 if the whole sequence is valid.
func ValidateAaSequence(seq string) byte {
	for i := 0; i < len(seq); i++ {
		if !aminoAcids[seq[i]] {
			return seq[i]
		}
	}
	return 0
}
