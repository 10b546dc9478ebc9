package duckdb

import (
	"fmt"
	"sort"
)

// Metadata keys recorded with each run.
const (
	MetaBaseURL     = "base_url"
	MetaSpecies     = "species"
	MetaContentType = "content_type"
	MetaGenes       = "genes"
)

// SetRunMeta records key/value provenance for a run, replacing earlier values.
func (s *Store) SetRunMeta(runID string, meta map[string]string) error {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM run_metadata WHERE run_id=? AND meta_key=?`, runID, k); err != nil {
			return fmt.Errorf("clear run metadata %s: %w", k, err)
		}
		if _, err := tx.Exec(`INSERT INTO run_metadata (run_id, meta_key, meta_value) VALUES (?, ?, ?)`,
			runID, k, meta[k]); err != nil {
			return fmt.Errorf("insert run metadata %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// RunMeta returns the metadata recorded for a run. A run without metadata
// yields an empty map.
func (s *Store) RunMeta(runID string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT meta_key, meta_value FROM run_metadata WHERE run_id=?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan run metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
