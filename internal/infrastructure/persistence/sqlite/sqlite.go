// Package sqlite is the embedded document store used for local development
// and tests. It keeps one table per collection with the JSON body in a TEXT
// column and answers filters with SQLite's JSON functions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

// DriverName is reported by Session.Driver.
const DriverName = "sqlite"

// Session is an open SQLite database.
type Session struct {
	db *sql.DB
}

var _ ports.Session = (*Session)(nil)

// PathFromDSN turns a sqlite: or file: endpoint into a path modernc understands.
//
//	sqlite::memory:          -> :memory:
//	sqlite:///var/lib/jobs.db -> /var/lib/jobs.db
//	sqlite://jobs.db          -> jobs.db
//	file:jobs.db?cache=shared -> unchanged
func PathFromDSN(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "file:"):
		return dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		dsn = strings.TrimPrefix(dsn, "sqlite:")
	}
	if dsn == "" {
		return ":memory:"
	}
	return dsn
}

// Dial opens the database behind dsn and creates a table for every
// collection that does not have one yet.
func Dial(ctx context.Context, dsn string, collections ...string) (*Session, error) {
	db, err := sql.Open("sqlite", PathFromDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, name := range collections {
		if err := createTable(ctx, db, name); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Session{db: db}, nil
}

func createTable(ctx context.Context, db *sql.DB, name string) error {
	table := quoteIdent(name)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			id         TEXT PRIMARY KEY,
			doc        TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + quoteIdent("idx_"+name+"_created_at") + ` ON ` + table + ` (created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	return nil
}

// Collection returns the collection stored in table name.
func (s *Session) Collection(name string) ports.Collection {
	return &Collection{db: s.db, name: name, table: quoteIdent(name)}
}

// Ping checks the database is reachable.
func (s *Session) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Driver returns "sqlite".
func (s *Session) Driver() string { return DriverName }

// Close closes the database.
func (s *Session) Close() error { return s.db.Close() }

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
