package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE users (email TEXT UNIQUE)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (email) VALUES ('a@example.test')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, dupErr := db.Exec(`INSERT INTO users (email) VALUES ('a@example.test')`)
	_, nullErr := db.Exec(`INSERT INTO nope (email) VALUES ('x')`)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite unique", dupErr, true},
		{"sqlite wrapped", fmt.Errorf("insert user: %w", dupErr), true},
		{"sqlite other", nullErr, false},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := isUniqueViolation(tt.err); got != tt.want {
			t.Errorf("%s: isUniqueViolation(%v) = %v, want %v", tt.name, tt.err, got, tt.want)
		}
	}
}
