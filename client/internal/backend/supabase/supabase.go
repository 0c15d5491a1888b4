// Package supabase is the hosted driver: GoTrue for authentication and
// PostgREST for the categories and memos tables, both reached through
// supabase-go.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gotypes "github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

const (
	tableCategories = "categories"
	tableMemos      = "memos"

	returnRepresentation = "representation"
	returnMinimal        = "minimal"
)

// Config is what the driver needs to reach a project.
type Config struct {
	URL string
	Key string
	// HTTPClient is used for auth calls; nil keeps the SDK default.
	HTTPClient *http.Client
	Now        func() time.Time
}

// Store is the supabase-backed backend.Backend.
type Store struct {
	sb  *supa.Client
	key string
	now func() time.Time
}

// New constructs the SDK client. No network traffic happens here.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, errors.New("supabase url and key are required")
	}
	sb, err := supa.NewClient(strings.TrimRight(cfg.URL, "/"), cfg.Key, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	if cfg.HTTPClient != nil {
		sb.Auth = sb.Auth.WithClient(*cfg.HTTPClient)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{sb: sb, key: cfg.Key, now: now}, nil
}

func (s *Store) Auth() backend.Auth             { return &auth{s} }
func (s *Store) Categories() backend.Categories { return &categories{s} }
func (s *Store) Memos() backend.Memos           { return &memos{s} }

// --- Auth ---
type auth struct{ *Store }

func (a *auth) SignUp(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.sb.Auth.Signup(gotypes.SignupRequest{Email: email, Password: password})
	if err != nil {
		return classifyAuthError(err)
	}
	return nil
}

func (a *auth) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// SignInWithEmailPassword also switches the REST client to the user's token.
	s, err := a.sb.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, classifyAuthError(err)
	}
	issued := a.now().UTC()
	expiresIn := time.Duration(s.ExpiresIn) * time.Second
	if expiresIn <= 0 && s.ExpiresAt > 0 {
		expiresIn = time.Unix(s.ExpiresAt, 0).Sub(issued)
	}
	return &types.Session{
		UserID:       s.User.ID,
		Email:        s.User.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		IssuedAt:     issued,
		ExpiresIn:    expiresIn,
	}, nil
}

func (a *auth) SignOut(ctx context.Context, s *types.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	err := a.sb.Auth.WithToken(s.AccessToken).Logout()
	// Back to anonymous requests regardless of the remote outcome.
	a.sb.UpdateAuthSession(gotypes.Session{AccessToken: a.key})
	return err
}

// --- Categories ---
type categories struct{ *Store }

type categoryInsert struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *categories) List(ctx context.Context, userID uuid.UUID) ([]types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []types.Category
	_, err := c.sb.From(tableCategories).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if rows == nil {
		rows = []types.Category{}
	}
	return rows, nil
}

func (c *categories) Get(ctx context.Context, userID, categoryID uuid.UUID) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []types.Category
	_, err := c.sb.From(tableCategories).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Eq("category_id", categoryID.String()).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return first(rows), nil
}

func (c *categories) Create(ctx context.Context, in types.Category) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []types.Category
	_, err := c.sb.From(tableCategories).
		Insert(categoryInsert{UserID: in.UserID.String(), Name: in.Name, Description: in.Description}, false, "", returnRepresentation, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	out := first(rows)
	if out == nil {
		return nil, errors.New("create category: empty representation")
	}
	return out, nil
}

func (c *categories) Update(ctx context.Context, userID, categoryID uuid.UUID, p types.CategoryPatch) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []types.Category
	_, err := c.sb.From(tableCategories).
		Update(p, returnRepresentation, "").
		Eq("user_id", userID.String()).
		Eq("category_id", categoryID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return first(rows), nil
}

func (c *categories) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := c.sb.From(tableCategories).
		Delete(returnMinimal, "").
		Eq("user_id", userID.String()).
		Eq("category_id", categoryID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// --- Memos ---
type memos struct{ *Store }

func (m *memos) List(ctx context.Context, q types.MemoQuery) ([]types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fb := m.sb.From(tableMemos).
		Select("*", "", false).
		Eq("user_id", q.UserID.String())
	if q.CategoryID != nil {
		fb = fb.Eq("category_id", q.CategoryID.String())
	}
	fb = fb.Order("updated_at", &postgrest.OrderOpts{Ascending: false})
	if q.Limit > 0 {
		fb = fb.Limit(q.Limit, "")
	}
	var rows []memoRow
	if _, err := fb.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	return toMemos(rows)
}

func (m *memos) Get(ctx context.Context, userID, memoID uuid.UUID) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []memoRow
	_, err := m.sb.From(tableMemos).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Eq("memo_id", memoID.String()).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("get memo: %w", err)
	}
	return firstMemo(rows)
}

func (m *memos) Create(ctx context.Context, in types.Memo) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = m.now()
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}
	var rows []memoRow
	_, err := m.sb.From(tableMemos).
		Insert(newMemoInsert(in), false, "", returnRepresentation, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}
	out, err := firstMemo(rows)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("create memo: empty representation")
	}
	return out, nil
}

func (m *memos) Update(ctx context.Context, userID, memoID uuid.UUID, p types.MemoPatch) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	current, err := m.Get(ctx, userID, memoID)
	if err != nil || current == nil {
		return nil, err
	}
	// PostgREST has no GREATEST on PATCH, so the clamp happens here.
	if current.UpdatedAt.After(p.UpdatedAt) {
		p.UpdatedAt = current.UpdatedAt
	}
	var rows []memoRow
	_, err = m.sb.From(tableMemos).
		Update(newMemoPatch(p), returnRepresentation, "").
		Eq("user_id", userID.String()).
		Eq("memo_id", memoID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("update memo: %w", err)
	}
	return firstMemo(rows)
}

func (m *memos) Delete(ctx context.Context, userID, memoID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := m.sb.From(tableMemos).
		Delete(returnMinimal, "").
		Eq("user_id", userID.String()).
		Eq("memo_id", memoID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}
	return nil
}

func first[T any](rows []T) *T {
	if len(rows) == 0 {
		return nil
	}
	out := rows[0]
	return &out
}

func firstMemo(rows []memoRow) (*types.Memo, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	memo, err := rows[0].memo()
	if err != nil {
		return nil, err
	}
	return &memo, nil
}
