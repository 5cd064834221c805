package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// LoadGenes decodes a gene→allele tree from its JSON persisted form.
func LoadGenes(r io.Reader) (Tree, error) {
	var tree Tree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode gene catalog: %w", err)
	}
	return tree, nil
}

// LoadSynonyms decodes a symbol→symbol synonym table from JSON.
func LoadSynonyms(r io.Reader) (SynonymTable, error) {
	var table SynonymTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode synonym table: %w", err)
	}
	return table, nil
}

// LoadSequences decodes a symbol→{region→sequence} table from JSON.
func LoadSequences(r io.Reader) (SequenceCatalog, error) {
	var seqs SequenceCatalog
	if err := json.NewDecoder(r).Decode(&seqs); err != nil {
		return nil, fmt.Errorf("decode sequence catalog: %w", err)
	}
	return seqs, nil
}

// familyFiles names the persisted files for one (species, family) pair.
// Synonym and sequence files are optional.
type familyFiles struct {
	species   string
	family    string
	genes     string
	synonyms  string
	sequences string
}

// openCatalogFile opens path, falling back to a .tsv variant of the same
// name so custom data directories can ship delimited text instead of JSON.
func openCatalogFile(fsys fs.FS, path string) (fs.File, string, error) {
	f, err := fsys.Open(path)
	if err == nil {
		return f, path, nil
	}
	if alt := strings.TrimSuffix(path, ".json") + ".tsv"; alt != path {
		if af, aerr := fsys.Open(alt); aerr == nil {
			return af, alt, nil
		}
	}
	return nil, "", fmt.Errorf("open %s: %w", path, err)
}

// loadFamily reads one family's reference files from fsys, decoding each by
// its extension.
func loadFamily(fsys fs.FS, files familyFiles) (*FamilyData, error) {
	data := &FamilyData{
		Species:  files.species,
		Family:   files.family,
		Synonyms: SynonymTable{},
	}

	f, name, err := openCatalogFile(fsys, files.genes)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(name, ".tsv") {
		data.Genes, err = LoadGenesTSV(f)
	} else {
		data.Genes, err = LoadGenes(f)
	}
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if files.synonyms != "" {
		f, name, err := openCatalogFile(fsys, files.synonyms)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(name, ".tsv") {
			data.Synonyms, err = LoadSynonymsTSV(f)
		} else {
			data.Synonyms, err = LoadSynonyms(f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	if files.sequences != "" {
		f, name, err := openCatalogFile(fsys, files.sequences)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(name, ".tsv") {
			data.Sequences, err = LoadSequencesTSV(f)
		} else {
			data.Sequences, err = LoadSequences(f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	data.Subgroups = deriveSubgroups(data.Genes)
	return data, nil
}
