// Package catalog provides the reference data used for symbol and junction
// standardization: per-(species, family) gene/allele trees, synonym tables
// and amino-acid sequence tables. All structures are immutable after load
// and safe for concurrent readers.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Functionality labels carried at the leaves of a gene/allele tree.
const (
	Functional = "F"
	ORF        = "ORF"
	Pseudogene = "P"
)

// Node is one level of an allele-designation tree. A node is either a leaf
// carrying a functionality (or MH group) label, or an internal node whose
// children are keyed by the next designation field.
type Node struct {
	Label    string
	Children Tree
}

// Tree maps an allele-designation field (or, at the top level, a gene name)
// to the node below it.
type Tree map[string]*Node

// IsLeaf reports whether the node carries a label rather than children.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// UnmarshalJSON accepts the persisted catalog form: a leaf is a bare string
// label, an internal node is a JSON object of deeper fields.
func (n *Node) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &n.Label)
	}
	return json.Unmarshal(data, &n.Children)
}

// MarshalJSON renders the node back into the persisted form.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		return json.Marshal(n.Label)
	}
	return json.Marshal(n.Children)
}

// Walk descends the tree one designation field at a time. It returns the
// node reached and true, or nil and false as soon as a field is missing.
func (t Tree) Walk(fields ...string) (*Node, bool) {
	current := t
	var node *Node
	for _, field := range fields {
		if current == nil {
			return nil, false
		}
		n, ok := current[field]
		if !ok {
			return nil, false
		}
		node = n
		current = n.Children
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// Leaves returns all leaf labels reachable below the node.
func (n *Node) Leaves() []string {
	if n.IsLeaf() {
		return []string{n.Label}
	}
	var labels []string
	for _, child := range n.Children {
		labels = append(labels, child.Leaves()...)
	}
	return labels
}

// SynonymTable maps a deprecated or alias symbol to its current gene name.
type SynonymTable map[string]string

// SequenceCatalog maps an allele symbol to its named amino-acid regions
// (e.g. "V-REGION", "FR3-IMGT", "J-REGION", "J-MOTIF", "J-PHE").
type SequenceCatalog map[string]map[string]string

// FamilyData bundles the reference structures for one (species, family) pair.
type FamilyData struct {
	Species   string
	Family    string
	Genes     Tree
	Synonyms  SynonymTable
	Sequences SequenceCatalog
	// Subgroups holds the coarser gene groupings (everything before the
	// locus-number suffix) derived from Genes at load time.
	Subgroups map[string]bool
}

// GeneNames returns the sorted list of gene symbols in the catalog.
func (d *FamilyData) GeneNames() []string {
	names := make([]string, 0, len(d.Genes))
	for name := range d.Genes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasGene reports whether the gene name exists in the catalog.
func (d *FamilyData) HasGene(name string) bool {
	_, ok := d.Genes[name]
	return ok
}

// AlleleLabel returns the functionality label of a gene's allele, walking
// the designation tree one field at a time.
func (d *FamilyData) AlleleLabel(gene string, fields ...string) (string, bool) {
	node, ok := d.Genes.Walk(append([]string{gene}, fields...)...)
	if !ok || !node.IsLeaf() {
		return "", false
	}
	return node.Label, true
}

// HasFunctionalAllele reports whether at least one allele of the gene is
// labelled Functional.
func (d *FamilyData) HasFunctionalAllele(gene string) bool {
	node, ok := d.Genes.Walk(gene)
	if !ok {
		return false
	}
	for _, label := range node.Leaves() {
		if label == Functional {
			return true
		}
	}
	return false
}

// AaSequence returns the region map for an allele symbol.
func (d *FamilyData) AaSequence(symbol string) (map[string]string, error) {
	regions, ok := d.Sequences[symbol]
	if !ok {
		return nil, fmt.Errorf("no sequence data for %s %s symbol %q", d.Species, d.Family, symbol)
	}
	return regions, nil
}

// deriveSubgroups computes the subgroup set from the gene names: the part of
// each compound gene name before its locus-number suffix.
func deriveSubgroups(genes Tree) map[string]bool {
	subgroups := make(map[string]bool)
	for name := range genes {
		if i := indexByte(name, '-'); i > 0 {
			subgroups[name[:i]] = true
		}
	}
	return subgroups
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
