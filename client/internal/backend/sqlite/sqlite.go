// Package sqlite opens the local SQLite database used by the "sqlite" driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/miyatoshi624/gote/client/internal/backend/sqlstore"
	"github.com/miyatoshi624/gote/client/internal/localauth"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The file is created lazily; New checks it is usable.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY inside transactions.
	db.SetMaxOpenConns(1)
	return db, nil
}

// New opens path, applies the schema and returns a ready store.
func New(ctx context.Context, path string, issuer *localauth.Issuer) (*sqlstore.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	s := sqlstore.New(db, sqlstore.SQLite, issuer)
	if err := s.HealthPing(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := sqlstore.EnsureSchema(ctx, db, sqlstore.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
