// Package bookmark stores named location fragments in SQLite so a tab
// selection can be reopened later.
package bookmark

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tabdeck/internal/anchor"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned for an unknown bookmark name.
var ErrNotFound = errors.New("bookmark not found")

// Bookmark is a named fragment for a document.
type Bookmark struct {
	ID        string
	Name      string
	Document  string // path of the HTML document
	Fragment  string // "#group=tab&..."
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a bookmark database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %q: %w", path, err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %q: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// runMigrations applies all embedded up migrations. The migrate instance is
// not closed: closing it would close db too.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save creates or replaces the bookmark called name.
func (s *Store) Save(ctx context.Context, name, document, fragment string) (Bookmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Bookmark{}, errors.New("bookmark name is empty")
	}
	if _, err := anchor.Decode(fragment); err != nil {
		return Bookmark{}, fmt.Errorf("bookmark %q: %w", name, err)
	}
	if fragment != "" && !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	now := s.now().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, name, document, fragment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			fragment = excluded.fragment,
			updated_at = excluded.updated_at`,
		uuid.NewString(), name, document, fragment, now, now)
	if err != nil {
		return Bookmark{}, fmt.Errorf("save bookmark %q: %w", name, err)
	}
	return s.Get(ctx, name)
}

// Get returns the bookmark called name.
func (s *Store) Get(ctx context.Context, name string) (Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, document, fragment, created_at, updated_at
		FROM bookmarks WHERE name = ?`, name)
	b, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Bookmark{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Bookmark{}, fmt.Errorf("get bookmark %q: %w", name, err)
	}
	return b, nil
}

// List returns every bookmark ordered by name.
func (s *Store) List(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, document, fragment, created_at, updated_at
		FROM bookmarks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list bookmarks: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes the bookmark called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete bookmark %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Bookmark, error) {
	var b Bookmark
	var created, updated int64
	if err := s.Scan(&b.ID, &b.Name, &b.Document, &b.Fragment, &created, &updated); err != nil {
		return Bookmark{}, err
	}
	b.CreatedAt = time.UnixMilli(created)
	b.UpdatedAt = time.UnixMilli(updated)
	return b, nil
}
