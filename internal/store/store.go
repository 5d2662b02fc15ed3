// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sinkbrookstein/Cryptography/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for analysis history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			cipher_len INTEGER NOT NULL,
			key_length INTEGER NOT NULL,
			key TEXT NOT NULL,
			english_ic REAL NOT NULL,
			min_samples INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			partial INTEGER NOT NULL,
			plain_preview TEXT NOT NULL,
			shortlist_size INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_candidates (
			analysis_id INTEGER NOT NULL,
			key_length INTEGER NOT NULL,
			avg_ic REAL NOT NULL,
			PRIMARY KEY (analysis_id, key_length)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores a completed analysis and its key-length candidates.
// An empty RunID is filled with a new UUID. The stored record is returned.
func (s *Store) InsertAnalysis(ctx context.Context, rec model.AnalysisRecord, cands []model.KeyLengthCandidate) (model.AnalysisRecord, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.AnalysisRecord{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (run_id, created_at, source, cipher_len, key_length, key, english_ic, min_samples, duration_ms, partial, plain_preview, shortlist_size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.Source,
		rec.CipherLen,
		rec.KeyLength,
		rec.Key,
		rec.EnglishIC,
		rec.MinSamples,
		rec.DurationMs,
		rec.Partial,
		rec.PlainPreview,
		rec.ShortlistSize,
	)
	if err != nil {
		return model.AnalysisRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AnalysisRecord{}, err
	}

	if len(cands) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO analysis_candidates (analysis_id, key_length, avg_ic) VALUES (?, ?, ?)`)
		if err != nil {
			return model.AnalysisRecord{}, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, c := range cands {
			if _, err = stmt.ExecContext(ctx, id, c.Length, c.AvgIC); err != nil {
				return model.AnalysisRecord{}, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return model.AnalysisRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

// ListAnalyses returns stored analyses, oldest first, filtered by cfg.
func (s *Store) ListAnalyses(ctx context.Context, cfg model.HistoryConfig) ([]model.AnalysisRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, cfg.Source)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, run_id, created_at, source, cipher_len, key_length, key, english_ic, min_samples, duration_ms, partial, plain_preview, shortlist_size
		FROM analyses
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &createdAt, &rec.Source, &rec.CipherLen, &rec.KeyLength, &rec.Key,
			&rec.EnglishIC, &rec.MinSamples, &rec.DurationMs, &rec.Partial, &rec.PlainPreview, &rec.ShortlistSize); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}

// ListCandidates returns the key-length candidates stored for an analysis.
func (s *Store) ListCandidates(ctx context.Context, analysisID int64) ([]model.KeyLengthCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key_length, avg_ic FROM analysis_candidates WHERE analysis_id = ? ORDER BY key_length ASC`,
		analysisID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyLengthCandidate
	for rows.Next() {
		var c model.KeyLengthCandidate
		if err := rows.Scan(&c.Length, &c.AvgIC); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
