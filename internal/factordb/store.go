// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package factordb persists converted emission-factor datasets in SQLite and
// serves filtered retrieval and export over them.
package factordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/factor-engine/pkg/types"
)

const (
	convertedDir = "converted"
	indexDir     = "index"
	dbFile       = "factors.db"
)

// Store manages the factor index SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the factor database at dataDir/index/factors.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			source_file TEXT NOT NULL,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS factors (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id TEXT NOT NULL REFERENCES datasets(id),
			seq INTEGER NOT NULL,
			country_of_origin TEXT NOT NULL,
			material_class TEXT NOT NULL,
			specific_material TEXT NOT NULL,
			emission_factor REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_factors_dataset_id ON factors(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_factors_country ON factors(country_of_origin)`,
		`CREATE INDEX IF NOT EXISTS idx_factors_class ON factors(material_class)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='factors_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE factors_fts USING fts5(
				country_of_origin, material_class, specific_material,
				content=factors, content_rowid=rowid)`,
			`CREATE TRIGGER factors_ai AFTER INSERT ON factors BEGIN
				INSERT INTO factors_fts(rowid, country_of_origin, material_class, specific_material)
				VALUES (new.rowid, new.country_of_origin, new.material_class, new.specific_material);
			END`,
			`CREATE TRIGGER factors_ad AFTER DELETE ON factors BEGIN
				INSERT INTO factors_fts(factors_fts, rowid, country_of_origin, material_class, specific_material)
				VALUES('delete', old.rowid, old.country_of_origin, old.material_class, old.specific_material);
			END`,
			`CREATE TRIGGER factors_au AFTER UPDATE ON factors BEGIN
				INSERT INTO factors_fts(factors_fts, rowid, country_of_origin, material_class, specific_material)
				VALUES('delete', old.rowid, old.country_of_origin, old.material_class, old.specific_material);
				INSERT INTO factors_fts(rowid, country_of_origin, material_class, specific_material)
				VALUES (new.rowid, new.country_of_origin, new.material_class, new.specific_material);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Datasets lists the datasets currently indexed, ordered by ID. ConvertedAt
// is the source file's modification time recorded at ingest.
func (s *Store) Datasets(ctx context.Context) ([]types.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_file, file_mod_time FROM datasets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var datasets []types.Dataset
	for rows.Next() {
		var d types.Dataset
		var modTime sql.NullString
		if err := rows.Scan(&d.ID, &d.SourceFile, &modTime); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		if modTime.Valid {
			if t, err := time.Parse(time.RFC3339Nano, modTime.String); err == nil {
				d.ConvertedAt = t
			}
		}
		datasets = append(datasets, d)
	}

	return datasets, rows.Err()
}

// IngestSummary holds counts from a store indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of dataset files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads converted dataset JSON files from dataDir/converted/ and
// populates the database. Files whose modification time is unchanged since
// the last run are skipped; changed files replace their previous rows. On a
// run that indexed or updated anything it refreshes export.yaml.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	convDir := filepath.Join(s.dataDir, convertedDir)

	entries, err := os.ReadDir(convDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading converted directory %s: %w", convDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		datasetID := strings.TrimSuffix(entry.Name(), ".json")
		filePath := filepath.Join(convDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", datasetID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Skip datasets whose file has not changed since last indexing.
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM datasets WHERE id = ?`, datasetID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", datasetID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", datasetID, err)
			summary.Failed++
			continue
		}

		var factors []types.Factor
		if err := json.Unmarshal(data, &factors); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", datasetID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDataset(ctx, datasetID, entry.Name(), factors, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", datasetID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d factors)\n", datasetID, len(factors))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d factors)\n", datasetID, len(factors))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestDataset(ctx context.Context, datasetID, sourceFile string, factors []types.Factor, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old rows if updating.
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM factors WHERE dataset_id = ?`, datasetID); err != nil {
			return fmt.Errorf("deleting old factors: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, source_file, file_mod_time) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_file=excluded.source_file, file_mod_time=excluded.file_mod_time`,
		datasetID, sourceFile, modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO factors (dataset_id, seq, country_of_origin, material_class, specific_material, emission_factor)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range factors {
		_, err := stmt.ExecContext(ctx,
			datasetID, i, f.CountryOfOrigin, f.MaterialClass, f.SpecificMaterial, f.EmissionFactor,
		)
		if err != nil {
			return fmt.Errorf("inserting factor %d: %w", i, err)
		}
	}

	return tx.Commit()
}
