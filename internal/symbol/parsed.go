// Package symbol implements gene and allele symbol standardization: parsing
// a free-form symbol into a gene name plus allele-designation fields, running
// an ordered cascade of correction heuristics against the reference catalog,
// and compiling the resolved symbol at a requested precision.
package symbol

// Parsed is the working state of one standardization call: a candidate gene
// name and the ordered allele-designation fields that followed it.
type Parsed struct {
	Gene   string
	Fields []string
}

// Clone returns an independent copy so a correction strategy can be tried
// without committing its changes.
func (p Parsed) Clone() Parsed {
	fields := make([]string, len(p.Fields))
	copy(fields, p.Fields)
	return Parsed{Gene: p.Gene, Fields: fields}
}
