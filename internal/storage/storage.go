// Package storage keeps an archive of every exported Markdown document in a
// sqlite database.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tesh254/tabdown/internal/deliver"
)

// ErrNotFound is returned when no entry matches an ID.
var ErrNotFound = errors.New("entry not found")

// Entry is one archived document.
type Entry struct {
	ID        string
	Source    string
	Filename  string
	MIME      string
	Content   string
	Checksum  string
	CreatedAt time.Time
}

// Archive manages the sqlite database.
type Archive struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	filename   TEXT NOT NULL,
	mime       TEXT NOT NULL,
	content    TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_created ON downloads (created_at);
`

// Open creates or opens the archive at path.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save stores a document exported from source.
func (a *Archive) Save(ctx context.Context, source, content, filename, mime string) (*Entry, error) {
	sum := sha256.Sum256([]byte(content))
	e := &Entry{
		ID:        uuid.NewString(),
		Source:    source,
		Filename:  filename,
		MIME:      mime,
		Content:   content,
		Checksum:  hex.EncodeToString(sum[:]),
		CreatedAt: time.Now().UTC(),
	}

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO downloads (id, source, filename, mime, content, checksum, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Filename, e.MIME, e.Content, e.Checksum, e.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", filename, err)
	}
	return e, nil
}

// For returns a Deliverer that archives documents exported from source.
func (a *Archive) For(ctx context.Context, source string) deliver.Deliverer {
	return deliver.Func(func(content, filename, mime string) error {
		_, err := a.Save(ctx, source, content, filename, mime)
		return err
	})
}

// Get retrieves an entry by its ID.
func (a *Archive) Get(ctx context.Context, id string) (*Entry, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, source, filename, mime, content, checksum, created_at
		 FROM downloads WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", id, err)
	}
	return e, nil
}

// List returns archived entries, newest first. A limit of zero or less
// returns all of them.
func (a *Archive) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, source, filename, mime, content, checksum, created_at
		 FROM downloads ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry by its ID.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM downloads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Clean removes every entry and returns how many were removed.
func (a *Archive) Clean(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM downloads`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean archive: %w", err)
	}
	return res.RowsAffected()
}

// SourceCount is the number of archived exports of one source.
type SourceCount struct {
	Source string
	Count  int
}

// Sources lists every archived source with its export count, most exported
// first.
func (a *Archive) Sources(ctx context.Context) ([]SourceCount, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM downloads GROUP BY source ORDER BY COUNT(*) DESC, source`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		sources = append(sources, sc)
	}
	return sources, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e       Entry
		created int64
	)
	if err := s.Scan(&e.ID, &e.Source, &e.Filename, &e.MIME, &e.Content, &e.Checksum, &created); err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return &e, nil
}
