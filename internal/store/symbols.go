package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

// SymbolRecord is one persisted symbol standardization result.
type SymbolRecord struct {
	Input        string
	Species      string
	Family       string
	Success      bool
	Subgroup     string
	Gene         string
	Protein      string
	Allele       string
	Reason       string
	AttemptedFix string
}

// NewSymbolRecord flattens a standardization result for persistence.
func NewSymbolRecord(family string, r symbol.Result) SymbolRecord {
	return SymbolRecord{
		Input:        r.Input(),
		Species:      r.Species(),
		Family:       family,
		Success:      r.Success(),
		Subgroup:     r.Subgroup(),
		Gene:         r.Gene(),
		Protein:      r.Protein(),
		Allele:       r.Allele(),
		Reason:       r.Reason(),
		AttemptedFix: r.AttemptedFix(),
	}
}

// symbolKey is the composite key for deduplicating records before writing.
type symbolKey struct {
	input, species, family string
}

// WriteSymbolResults batch-inserts symbol results using the Appender API.
// Duplicate (input, species, family) entries are deduplicated before writing.
func (s *Store) WriteSymbolResults(records []SymbolRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Deduplicate by primary key (same symbol appearing on multiple input rows)
	seen := make(map[symbolKey]bool, len(records))
	deduped := make([]SymbolRecord, 0, len(records))
	for _, r := range records {
		k := symbolKey{r.Input, r.Species, r.Family}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "symbol_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.Input, r.Species, r.Family, r.Success,
			r.Subgroup, r.Gene, r.Protein, r.Allele,
			r.Reason, r.AttemptedFix,
		); err != nil {
			return fmt.Errorf("append symbol result: %w", err)
		}
	}

	return appender.Flush()
}

// ClearSymbolResults removes all stored symbol results.
func (s *Store) ClearSymbolResults() error {
	_, err := s.db.Exec("DELETE FROM symbol_results")
	return err
}

// LookupSymbol queries the store for a previously standardized symbol.
func (s *Store) LookupSymbol(input, species, family string) (*SymbolRecord, error) {
	row := s.db.QueryRow(`SELECT
		input, species, family, success,
		subgroup, gene, protein, allele,
		reason, attempted_fix
		FROM symbol_results
		WHERE input=? AND species=? AND family=?`,
		input, species, family)

	var r SymbolRecord
	err := row.Scan(
		&r.Input, &r.Species, &r.Family, &r.Success,
		&r.Subgroup, &r.Gene, &r.Protein, &r.Allele,
		&r.Reason, &r.AttemptedFix,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan symbol result: %w", err)
	}
	return &r, nil
}

// SearchByGene queries the store for all results standardized to a gene.
func (s *Store) SearchByGene(gene string) ([]SymbolRecord, error) {
	rows, err := s.db.Query(`SELECT
		input, species, family, success,
		subgroup, gene, protein, allele,
		reason, attempted_fix
		FROM symbol_results
		WHERE gene=?`, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var records []SymbolRecord
	for rows.Next() {
		var r SymbolRecord
		if err := rows.Scan(
			&r.Input, &r.Species, &r.Family, &r.Success,
			&r.Subgroup, &r.Gene, &r.Protein, &r.Allele,
			&r.Reason, &r.AttemptedFix,
		); err != nil {
			return nil, fmt.Errorf("scan symbol result: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol results: %w", err)
	}
	return records, nil
}
