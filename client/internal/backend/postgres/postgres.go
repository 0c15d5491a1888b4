// Package postgres opens a self-hosted PostgreSQL database for the "postgres" driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/miyatoshi624/gote/client/internal/backend/sqlstore"
	"github.com/miyatoshi624/gote/client/internal/localauth"
)

// Open opens a PostgreSQL handle using the pgx stdlib driver. No connection
// is made until first use; New checks connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	return sql.Open("pgx", dsn)
}

// New opens dsn, applies the schema and returns a ready store.
func New(ctx context.Context, dsn string, issuer *localauth.Issuer) (*sqlstore.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	s := sqlstore.New(db, sqlstore.Postgres, issuer)
	if err := s.HealthPing(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	if err := sqlstore.EnsureSchema(ctx, db, sqlstore.Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
