package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vareff/internal/variant"
)

// Run describes one exported batch of rows.
type Run struct {
	ID        string
	CreatedAt time.Time
	Rows      int
}

// SaveRun appends rows as a new run and returns its id.
// Row order is kept in the row_index column.
func (s *Store) SaveRun(rows []variant.Row) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new run id: %w", err)
	}
	runID := id.String()
	createdAt := time.Now().UTC()

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return "", fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "result_rows")
		return err
	}); err != nil {
		return "", fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, r := range rows {
		if err := appender.AppendRow(
			runID, int64(i), r.Symbol, r.GeneID,
			int64(r.IntronCount), int64(r.SynonymousCount), int64(r.MissenseCount),
			ratioValue(r.SynonymousRatio), ratioValue(r.MissenseRatio),
			createdAt,
		); err != nil {
			return "", fmt.Errorf("append result row: %w", err)
		}
	}

	if err := appender.Flush(); err != nil {
		return "", fmt.Errorf("flush result rows: %w", err)
	}
	return runID, nil
}

// Rows returns the rows of a run in their original order.
func (s *Store) Rows(runID string) ([]variant.Row, error) {
	rows, err := s.db.Query(`SELECT
		gene_name, gene_id, intron_count, synonymous_count, missense_count,
		synonymous_to_intron, missense_to_intron
		FROM result_rows
		WHERE run_id=?
		ORDER BY row_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []variant.Row
	for rows.Next() {
		var r variant.Row
		if err := rows.Scan(
			&r.Symbol, &r.GeneID, &r.IntronCount, &r.SynonymousCount, &r.MissenseCount,
			&r.SynonymousRatio, &r.MissenseRatio,
		); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return out, nil
}

// Runs lists exported runs, oldest first. Run ids are time-ordered UUIDs.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, MIN(created_at), COUNT(*)
		FROM result_rows
		GROUP BY run_id
		ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Rows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the id of the most recently saved run.
func (s *Store) LatestRun() (string, error) {
	runs, err := s.Runs()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.describe())
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) describe() string {
	if s.path == "" {
		return "in-memory database"
	}
	return s.path
}

func ratioValue(r variant.Ratio) driver.Value {
	if !r.Valid {
		return nil
	}
	return r.Float64
}
