package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// The delimited-text persisted form mirrors the JSON one:
//
//	genes:     gene<TAB>field[:field...]<TAB>label
//	synonyms:  deprecated<TAB>current
//	sequences: symbol<TAB>region<TAB>sequence
//
// Lines starting with '#' and blank lines are skipped.

// LoadGenesTSV reads a gene catalog from delimited text.
func LoadGenesTSV(r io.Reader) (Tree, error) {
	tree := Tree{}
	err := scanTSV(r, 3, func(lineNo int, cols []string) error {
		gene, designation, label := cols[0], cols[1], cols[2]
		fields := []string{}
		if designation != "" {
			fields = strings.Split(designation, ":")
		}
		return insertAllele(tree, gene, fields, label, lineNo)
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// LoadSynonymsTSV reads a synonym table from delimited text.
func LoadSynonymsTSV(r io.Reader) (SynonymTable, error) {
	table := SynonymTable{}
	err := scanTSV(r, 2, func(lineNo int, cols []string) error {
		table[cols[0]] = cols[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// LoadSequencesTSV reads an amino-acid sequence catalog from delimited text.
func LoadSequencesTSV(r io.Reader) (SequenceCatalog, error) {
	seqs := SequenceCatalog{}
	err := scanTSV(r, 3, func(lineNo int, cols []string) error {
		symbol, region, sequence := cols[0], cols[1], cols[2]
		if seqs[symbol] == nil {
			seqs[symbol] = make(map[string]string)
		}
		seqs[symbol][region] = sequence
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seqs, nil
}

func scanTSV(r io.Reader, wantCols int, handle func(int, []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != wantCols {
			return fmt.Errorf("line %d: expected %d columns, got %d", lineNo, wantCols, len(cols))
		}
		if err := handle(lineNo, cols); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func insertAllele(tree Tree, gene string, fields []string, label string, lineNo int) error {
	if len(fields) == 0 {
		return fmt.Errorf("line %d: gene %s has no allele designation", lineNo, gene)
	}
	node, ok := tree[gene]
	if !ok {
		node = &Node{Children: Tree{}}
		tree[gene] = node
	}
	for i, field := range fields {
		if node.Children == nil {
			return fmt.Errorf("line %d: %s: designation extends past a leaf", lineNo, gene)
		}
		child, ok := node.Children[field]
		if !ok {
			if i == len(fields)-1 {
				child = &Node{Label: label}
			} else {
				child = &Node{Children: Tree{}}
			}
			node.Children[field] = child
		}
		node = child
	}
	if !node.IsLeaf() {
		return fmt.Errorf("line %d: %s: designation stops at an internal node", lineNo, gene)
	}
	return nil
}
