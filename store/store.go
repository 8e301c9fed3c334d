// Package store archives changelog runs in a DuckDB database.
//
// Every generation run can be recorded alongside its entries, giving the
// history and stats commands something to query: which ranges were
// summarized when, and which authors' commits make it into release notes.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/relog-dev/relog/core"
)

// Store is one archive database. An empty path opens an in-memory archive.
type Store struct {
	db *sql.DB
}

// Run is one recorded generation run.
type Run struct {
	ID          int64
	Repo        string
	Range       string
	GeneratedAt string
	Scanned     int
	Retained    int
	Failed      int
}

// AuthorStat aggregates recorded entries per author.
type AuthorStat struct {
	Author   string
	Retained int
	Failed   int
}

const schema = `
CREATE SEQUENCE IF NOT EXISTS run_ids;
CREATE TABLE IF NOT EXISTS runs (
	id           BIGINT PRIMARY KEY DEFAULT nextval('run_ids'),
	repo         VARCHAR NOT NULL,
	range_spec   VARCHAR NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	scanned      INTEGER NOT NULL,
	retained     INTEGER NOT NULL,
	failed       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	run_id  BIGINT NOT NULL,
	sha     VARCHAR NOT NULL,
	author  VARCHAR NOT NULL,
	subject VARCHAR NOT NULL,
	summary VARCHAR NOT NULL,
	error   VARCHAR NOT NULL
);
`

// Open opens (and if needed initializes) the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive %q: %w", path, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores one run and its entries atomically, returning the run id.
func (s *Store) RecordRun(ctx context.Context, changelog core.Changelog, scanned int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO runs (repo, range_spec, generated_at, scanned, retained, failed)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		changelog.Repo, changelog.Range, changelog.GeneratedAt,
		scanned, len(changelog.Entries), changelog.Failed()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	for _, e := range changelog.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (run_id, sha, author, subject, summary, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, e.Commit.SHA, e.Commit.Author, e.Commit.Subject, e.Summary, e.Err)
		if err != nil {
			return 0, fmt.Errorf("failed to record entry %s: %w", e.Commit.ShortSHA(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return id, nil
}

// History returns recorded runs, most recent first.
func (s *Store) History(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, repo, range_spec, strftime(generated_at, '%Y-%m-%dT%H:%M:%SZ'), scanned, retained, failed
		 FROM runs ORDER BY generated_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Repo, &r.Range, &r.GeneratedAt, &r.Scanned, &r.Retained, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// AuthorStats aggregates all recorded entries per author, most retained
// commits first.
func (s *Store) AuthorStats(ctx context.Context) ([]AuthorStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author, count(*), count(*) FILTER (WHERE error <> '')
		 FROM entries GROUP BY author ORDER BY count(*) DESC, author`)
	if err != nil {
		return nil, fmt.Errorf("failed to query author stats: %w", err)
	}
	defer rows.Close()

	var stats []AuthorStat
	for rows.Next() {
		var s AuthorStat
		if err := rows.Scan(&s.Author, &s.Retained, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan author stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
