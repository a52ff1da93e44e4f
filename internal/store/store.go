// Package store handles SQLite persistence of analyzed runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/matchlog/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for archived runs.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			analyzed_at TEXT NOT NULL,
			input_path TEXT NOT NULL,
			black TEXT NOT NULL,
			white TEXT NOT NULL,
			black_command TEXT NOT NULL,
			white_command TEXT NOT NULL,
			size TEXT NOT NULL,
			komi TEXT NOT NULL,
			date TEXT NOT NULL,
			host TEXT NOT NULL,
			games INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			used INTEGER NOT NULL,
			black_mean REAL NOT NULL,
			black_mean_err REAL NOT NULL,
			black_win REAL NOT NULL,
			black_win_err REAL NOT NULL,
			black_unknown REAL NOT NULL,
			white_mean REAL NOT NULL,
			white_mean_err REAL NOT NULL,
			white_win REAL NOT NULL,
			white_win_err REAL NOT NULL,
			white_unknown REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores the summary of an analyzed run.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) (int64, error) {
	meta := run.Metadata
	sum := run.Summary
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (analyzed_at, input_path, black, white, black_command, white_command, size, komi, date, host,
			games, errors, duplicates, used,
			black_mean, black_mean_err, black_win, black_win_err, black_unknown,
			white_mean, white_mean_err, white_win, white_win_err, white_unknown)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.AnalyzedAt.UTC().Format(time.RFC3339Nano),
		run.InputPath,
		meta.Black,
		meta.White,
		meta.BlackCommand,
		meta.WhiteCommand,
		meta.Size,
		meta.Komi,
		meta.Date,
		meta.Host,
		sum.Games,
		sum.Errors,
		sum.Duplicates,
		sum.Used,
		sum.Black.Mean,
		sum.Black.MeanErr,
		sum.Black.WinRate,
		sum.Black.WinRateErr,
		sum.Black.Unknown,
		sum.White.Mean,
		sum.White.MeanErr,
		sum.White.WinRate,
		sum.White.WinRateErr,
		sum.White.Unknown,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns archived runs, oldest first, filtered by player name and
// limited to the most recent filter.Last runs.
func (s *Store) ListRuns(ctx context.Context, filter model.RunFilter) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Player != "" {
		clauses = append(clauses, "(instr(lower(black), lower(?)) > 0 OR instr(lower(white), lower(?)) > 0)")
		args = append(args, filter.Player, filter.Player)
	}
	limit := ""
	if filter.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, filter.Last)
	}
	query := fmt.Sprintf(`SELECT * FROM (
		SELECT id, analyzed_at, input_path, black, white, black_command, white_command, size, komi, date, host,
			games, errors, duplicates, used,
			black_mean, black_mean_err, black_win, black_win_err, black_unknown,
			white_mean, white_mean_err, white_win, white_win_err, white_unknown
		FROM runs
		WHERE %s
		ORDER BY analyzed_at DESC, id DESC
		%s
	) ORDER BY analyzed_at ASC, id ASC`, strings.Join(clauses, " AND "), limit)
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

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var analyzedAt string
		meta := &run.Metadata
		sum := &run.Summary
		if err := rows.Scan(&run.ID, &analyzedAt, &run.InputPath,
			&meta.Black, &meta.White, &meta.BlackCommand, &meta.WhiteCommand,
			&meta.Size, &meta.Komi, &meta.Date, &meta.Host,
			&sum.Games, &sum.Errors, &sum.Duplicates, &sum.Used,
			&sum.Black.Mean, &sum.Black.MeanErr, &sum.Black.WinRate, &sum.Black.WinRateErr, &sum.Black.Unknown,
			&sum.White.Mean, &sum.White.MeanErr, &sum.White.WinRate, &sum.White.WinRateErr, &sum.White.Unknown,
		); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, analyzedAt)
		if err != nil {
			return nil, err
		}
		run.AnalyzedAt = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
