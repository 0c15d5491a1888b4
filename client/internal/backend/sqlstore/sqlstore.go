// Package sqlstore implements backend.Backend over database/sql. It backs the
// sqlite and postgres drivers and carries its own password auth, since no
// hosted auth service sits in front of a bare database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/localauth"
	"github.com/miyatoshi624/gote/client/internal/types"
)

// Store is a database/sql backed backend.Backend.
type Store struct {
	db      *sql.DB
	dialect Dialect
	issuer  *localauth.Issuer
	now     func() time.Time
}

// New wraps db. The schema must already exist (see EnsureSchema).
func New(db *sql.DB, d Dialect, issuer *localauth.Issuer) *Store {
	return &Store{db: db, dialect: d, issuer: issuer, now: time.Now}
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", d.Name, err)
		}
	}
	return nil
}

func (s *Store) Auth() backend.Auth             { return &auth{s} }
func (s *Store) Categories() backend.Categories { return &categories{s} }
func (s *Store) Memos() backend.Memos           { return &memos{s} }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// HealthPing verifies the database is reachable.
func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) q(query string) string { return s.dialect.rebind(query) }

// --- Auth ---
type auth struct{ *Store }

func (a *auth) SignUp(ctx context.Context, email, password string) error {
	var n int
	if err := a.db.QueryRowContext(ctx, a.q(`SELECT COUNT(*) FROM users WHERE email=?`), email).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return backend.ErrAccountExists
	}
	hash, err := localauth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, a.q(`
        INSERT INTO users (user_id, email, password_hash, created_at)
        VALUES (?,?,?,?)
    `), uuid.New(), email, hash, a.now().UTC())
	// A concurrent sign-up can pass the count above; the unique email wins.
	if isUniqueViolation(err) {
		return errors.Join(backend.ErrAccountExists, err)
	}
	return err
}

func (a *auth) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	var (
		id   uuid.UUID
		hash string
	)
	err := a.db.QueryRowContext(ctx, a.q(`SELECT user_id, password_hash FROM users WHERE email=?`), email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !localauth.CheckPassword(hash, password) {
		return nil, backend.ErrInvalidCredentials
	}
	return a.issuer.Issue(id, email)
}

// SignOut is local only: tokens are stateless and simply dropped by the caller.
func (a *auth) SignOut(ctx context.Context, _ *types.Session) error {
	return ctx.Err()
}

// --- Categories ---
type categories struct{ *Store }

func (c *categories) List(ctx context.Context, userID uuid.UUID) ([]types.Category, error) {
	rows, err := c.db.QueryContext(ctx, c.q(`
        SELECT category_id, user_id, name, description
        FROM categories WHERE user_id=? ORDER BY name
    `), userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]types.Category, 0)
	for rows.Next() {
		var cat types.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Description); err != nil {
			return nil, err
		}
		res = append(res, cat)
	}
	return res, rows.Err()
}

func (c *categories) Get(ctx context.Context, userID, categoryID uuid.UUID) (*types.Category, error) {
	var out types.Category
	row := c.db.QueryRowContext(ctx, c.q(`
        SELECT category_id, user_id, name, description
        FROM categories WHERE user_id=? AND category_id=?
    `), userID, categoryID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Name, &out.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *categories) Create(ctx context.Context, in types.Category) (*types.Category, error) {
	out := in
	out.ID = uuid.New()
	out.IsReferenced = false
	_, err := c.db.ExecContext(ctx, c.q(`
        INSERT INTO categories (category_id, user_id, name, description)
        VALUES (?,?,?,?)
    `), out.ID, out.UserID, out.Name, out.Description)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *categories) Update(ctx context.Context, userID, categoryID uuid.UUID, p types.CategoryPatch) (*types.Category, error) {
	res, err := c.db.ExecContext(ctx, c.q(`
        UPDATE categories SET name=?, description=?
        WHERE user_id=? AND category_id=?
    `), p.Name, p.Description, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, nil
	}
	return c.Get(ctx, userID, categoryID)
}

func (c *categories) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	_, err := c.db.ExecContext(ctx, c.q(`DELETE FROM categories WHERE user_id=? AND category_id=?`), userID, categoryID)
	return err
}

// --- Memos ---
type memos struct{ *Store }

const memoColumns = `memo_id, user_id, category_id, title, content, created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanMemo(row scanner) (types.Memo, error) {
	var m types.Memo
	err := row.Scan(&m.ID, &m.UserID, &m.CategoryID, &m.Title, &m.Content, &m.CreatedAt, &m.UpdatedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, err
}

func (m *memos) List(ctx context.Context, q types.MemoQuery) ([]types.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memos WHERE user_id=?`
	args := []any{q.UserID}
	if q.CategoryID != nil {
		query += ` AND category_id=?`
		args = append(args, *q.CategoryID)
	}
	query += ` ORDER BY updated_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := m.db.QueryContext(ctx, m.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]types.Memo, 0)
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, memo)
	}
	return res, rows.Err()
}

func (m *memos) Get(ctx context.Context, userID, memoID uuid.UUID) (*types.Memo, error) {
	row := m.db.QueryRowContext(ctx, m.q(`SELECT `+memoColumns+` FROM memos WHERE user_id=? AND memo_id=?`), userID, memoID)
	memo, err := scanMemo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

func (m *memos) Create(ctx context.Context, in types.Memo) (*types.Memo, error) {
	out := in
	out.ID = uuid.New()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = m.now()
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = out.CreatedAt
	}
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()
	_, err := m.db.ExecContext(ctx, m.q(`
        INSERT INTO memos (`+memoColumns+`)
        VALUES (?,?,?,?,?,?,?)
    `), out.ID, out.UserID, out.CategoryID, out.Title, out.Content, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memos) Update(ctx context.Context, userID, memoID uuid.UUID, p types.MemoPatch) (*types.Memo, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanMemo(tx.QueryRowContext(ctx, m.q(`SELECT `+memoColumns+` FROM memos WHERE user_id=? AND memo_id=?`), userID, memoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	updated := current.UpdatedAt
	if p.UpdatedAt.After(updated) {
		updated = p.UpdatedAt.UTC()
	}
	if _, err := tx.ExecContext(ctx, m.q(`
        UPDATE memos SET category_id=?, title=?, content=?, updated_at=?
        WHERE user_id=? AND memo_id=?
    `), p.CategoryID, p.Title, p.Content, updated, userID, memoID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	current.CategoryID = p.CategoryID
	current.Title = p.Title
	current.Content = p.Content
	current.UpdatedAt = updated
	return &current, nil
}

func (m *memos) Delete(ctx context.Context, userID, memoID uuid.UUID) error {
	_, err := m.db.ExecContext(ctx, m.q(`DELETE FROM memos WHERE user_id=? AND memo_id=?`), userID, memoID)
	return err
}
