package catalog

import (
	"fmt"
	"io/fs"
	"sync"
)

// Supported species keys.
const (
	SpeciesHomoSapiens = "homosapiens"
	SpeciesMusMusculus = "musmusculus"
)

// Supported gene families.
const (
	FamilyTR = "TR"
	FamilyIG = "IG"
	FamilyMH = "MH"
)

// Key identifies one reference catalog by species and gene family.
type Key struct {
	Species string // "homosapiens", "musmusculus"
	Family  string // "TR", "IG", "MH"
}

// Context holds every loaded reference catalog. It is built once and shared
// read-only by all resolution calls.
type Context struct {
	families map[Key]*FamilyData
}

// NewContext builds an empty context. Intended for tests and custom data
// directories; production callers use Default.
func NewContext() *Context {
	return &Context{families: make(map[Key]*FamilyData)}
}

// Add registers a family catalog. Not safe once the context is shared.
func (c *Context) Add(data *FamilyData) {
	c.families[Key{Species: data.Species, Family: data.Family}] = data
}

// Family returns the catalog for a (species, family) pair, or nil if the
// pair is unsupported.
func (c *Context) Family(species, family string) *FamilyData {
	return c.families[Key{Species: species, Family: family}]
}

// Supports reports whether the pair has a loaded catalog.
func (c *Context) Supports(species, family string) bool {
	return c.Family(species, family) != nil
}

// manifest lists the reference files shipped with the module.
var manifest = []familyFiles{
	{
		species:   "homosapiens",
		family:    "TR",
		genes:     "data/homosapiens_tr.json",
		synonyms:  "data/homosapiens_tr_synonyms.json",
		sequences: "data/homosapiens_tr_aa_sequences.json",
	},
	{
		species:   "homosapiens",
		family:    "IG",
		genes:     "data/homosapiens_ig.json",
		synonyms:  "data/homosapiens_ig_synonyms.json",
		sequences: "data/homosapiens_ig_aa_sequences.json",
	},
	{
		species:  "homosapiens",
		family:   "MH",
		genes:    "data/homosapiens_mh.json",
		synonyms: "data/homosapiens_mh_synonyms.json",
	},
	{
		species:   "musmusculus",
		family:    "TR",
		genes:     "data/musmusculus_tr.json",
		synonyms:  "data/musmusculus_tr_synonyms.json",
		sequences: "data/musmusculus_tr_aa_sequences.json",
	},
	{
		species:  "musmusculus",
		family:   "MH",
		genes:    "data/musmusculus_mh.json",
		synonyms: "data/musmusculus_mh_synonyms.json",
	},
}

// LoadContext loads every catalog named by the manifest from fsys.
func LoadContext(fsys fs.FS) (*Context, error) {
	ctx := NewContext()
	for _, files := range manifest {
		data, err := loadFamily(fsys, files)
		if err != nil {
			return nil, fmt.Errorf("load %s %s: %w", files.species, files.family, err)
		}
		ctx.Add(data)
	}
	return ctx, nil
}

var (
	defaultOnce sync.Once
	defaultCtx  *Context
	defaultErr  error
)

// Default returns the process-wide context backed by the embedded reference
// data. The load happens once, on first use, and is safe under concurrent
// first-use.
func Default() (*Context, error) {
	defaultOnce.Do(func() {
		defaultCtx, defaultErr = LoadContext(embeddedData)
	})
	return defaultCtx, defaultErr
}
