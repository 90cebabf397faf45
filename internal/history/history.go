// Package history keeps a sqlite index of past trend dates: how many
// repositories each date listed and when each repository first appeared.
package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stahnma/gh-trends/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS totals (
	date TEXT PRIMARY KEY,
	total INTEGER
);
CREATE TABLE IF NOT EXISTS repositories (
	slug TEXT PRIMARY KEY,
	name TEXT,
	first_seen TEXT
);
`

// Store is an open history database.
type Store struct {
	db *sql.DB
}

// Total is the number of repositories listed on one date.
type Total struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// Repository is one repository and the first date it trended.
type Repository struct {
	Slug      string `json:"slug"`
	Name      string `json:"name,omitempty"`
	FirstSeen string `json:"firstSeen"`
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one date's records in a single transaction. The total of the
// date is replaced and each repository keeps its earliest date.
func (s *Store) Record(ctx context.Context, date string, records []*report.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO totals (date, total) VALUES (?, ?)",
		date, len(records)); err != nil {
		return fmt.Errorf("recording total for %s: %w", date, err)
	}

	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO repositories (slug, name, first_seen) VALUES (?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				name = CASE WHEN excluded.first_seen < first_seen OR name = '' THEN excluded.name ELSE name END,
				first_seen = MIN(first_seen, excluded.first_seen)`,
			rec.Slug, rec.Name, date)
		if err != nil {
			return fmt.Errorf("recording %s for %s: %w", rec.Slug, date, err)
		}
	}
	return tx.Commit()
}

// Totals returns the per-date totals, most recent first.
func (s *Store) Totals(ctx context.Context) ([]Total, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, total FROM totals ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Date, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Repositories returns every repository ordered by first appearance.
func (s *Store) Repositories(ctx context.Context) ([]Repository, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slug, name, first_seen FROM repositories ORDER BY first_seen, slug")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []Repository
	for rows.Next() {
		var r Repository
		if err := rows.Scan(&r.Slug, &r.Name, &r.FirstSeen); err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// FirstSeen returns the earliest date slug trended, or "" if it never did.
func (s *Store) FirstSeen(ctx context.Context, slug string) (string, error) {
	var date string
	err := s.db.QueryRowContext(ctx, "SELECT first_seen FROM repositories WHERE slug = ?", slug).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return date, err
}
