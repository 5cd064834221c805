package catalog

import "embed"

// embeddedData holds the reference catalogs shipped with the module,
// derived from IMGT gene nomenclature and sequence data.
//
//go:embed data
var embeddedData embed.FS
