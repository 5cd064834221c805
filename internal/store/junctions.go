package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/yutanagano/tidyreceptor/internal/junction"
)

// JunctionRecord is one persisted junction standardization result.
type JunctionRecord struct {
	Input        string
	Species      string
	Locus        string
	Success      bool
	Junction     string
	CDR3         string
	Reason       string
	AttemptedFix string
}

// NewJunctionRecord flattens a junction result for persistence.
func NewJunctionRecord(species, locus string, r junction.Result) JunctionRecord {
	return JunctionRecord{
		Input:        r.Input(),
		Species:      species,
		Locus:        locus,
		Success:      r.Success(),
		Junction:     r.Junction(),
		CDR3:         r.CDR3(),
		Reason:       r.Reason(),
		AttemptedFix: r.AttemptedFix(),
	}
}

type junctionKey struct {
	input, species, locus string
}

// WriteJunctionResults batch-inserts junction results using the Appender API.
// Duplicate (input, species, locus) entries are deduplicated before writing.
func (s *Store) WriteJunctionResults(records []JunctionRecord) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[junctionKey]bool, len(records))
	deduped := make([]JunctionRecord, 0, len(records))
	for _, r := range records {
		k := junctionKey{r.Input, r.Species, r.Locus}
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
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "junction_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.Input, r.Species, r.Locus, r.Success,
			r.Junction, r.CDR3, r.Reason, r.AttemptedFix,
		); err != nil {
			return fmt.Errorf("append junction result: %w", err)
		}
	}

	return appender.Flush()
}

// ClearJunctionResults removes all stored junction results.
func (s *Store) ClearJunctionResults() error {
	_, err := s.db.Exec("DELETE FROM junction_results")
	return err
}

// LookupJunction queries the store for a previously standardized junction.
func (s *Store) LookupJunction(input, species, locus string) (*JunctionRecord, error) {
	row := s.db.QueryRow(`SELECT
		input, species, locus, success,
		junction, cdr3, reason, attempted_fix
		FROM junction_results
		WHERE input=? AND species=? AND locus=?`,
		input, species, locus)

	var r JunctionRecord
	err := row.Scan(
		&r.Input, &r.Species, &r.Locus, &r.Success,
		&r.Junction, &r.CDR3, &r.Reason, &r.AttemptedFix,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan junction result: %w", err)
	}
	return &r, nil
}

// FailedJunctions returns stored junction results that could not be
// standardized, for inspection of a batch run.
func (s *Store) FailedJunctions() ([]JunctionRecord, error) {
	rows, err := s.db.Query(`SELECT
		input, species, locus, success,
		junction, cdr3, reason, attempted_fix
		FROM junction_results
		WHERE NOT success`)
	if err != nil {
		return nil, fmt.Errorf("query failed junctions: %w", err)
	}
	defer rows.Close()

	var records []JunctionRecord
	for rows.Next() {
		var r JunctionRecord
		if err := rows.Scan(
			&r.Input, &r.Species, &r.Locus, &r.Success,
			&r.Junction, &r.CDR3, &r.Reason, &r.AttemptedFix,
		); err != nil {
			return nil, fmt.Errorf("scan junction result: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate junction results: %w", err)
	}
	return records, nil
}
