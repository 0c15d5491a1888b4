// Package memory is an in-process backend used by tests and offline demos.
// It keeps every row in maps guarded by one mutex and mimics the hosted
// store's semantics: server-assigned IDs, owner scoping, no cascades.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

type account struct {
	id       uuid.UUID
	password string
}

// Store is a memory-backed backend.Backend.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]account
	categories map[uuid.UUID]types.Category
	memos      map[uuid.UUID]types.Memo

	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for sessions and timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithSessionTTL sets the lifetime of issued sessions.
func WithSessionTTL(d time.Duration) Option { return func(s *Store) { s.ttl = d } }

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		accounts:   make(map[string]account),
		categories: make(map[uuid.UUID]types.Category),
		memos:      make(map[uuid.UUID]types.Memo),
		ttl:        time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Auth() backend.Auth             { return (*auth)(s) }
func (s *Store) Categories() backend.Categories { return (*categories)(s) }
func (s *Store) Memos() backend.Memos           { return (*memos)(s) }

// --- Auth ---
type auth Store

func (a *auth) SignUp(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[email]; ok {
		return backend.ErrAccountExists
	}
	a.accounts[email] = account{id: uuid.New(), password: password}
	return nil
}

func (a *auth) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[email]
	if !ok || acc.password != password {
		return nil, backend.ErrInvalidCredentials
	}
	return &types.Session{
		UserID:      acc.id,
		Email:       email,
		AccessToken: uuid.NewString(),
		IssuedAt:    a.now().UTC(),
		ExpiresIn:   a.ttl,
	}, nil
}

func (a *auth) SignOut(ctx context.Context, _ *types.Session) error {
	return ctx.Err()
}

// --- Categories ---
type categories Store

func (c *categories) List(ctx context.Context, userID uuid.UUID) ([]types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		if cat.UserID == userID {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *categories) Get(ctx context.Context, userID, categoryID uuid.UUID) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.categories[categoryID]
	if !ok || cat.UserID != userID {
		return nil, nil
	}
	return &cat, nil
}

func (c *categories) Create(ctx context.Context, in types.Category) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	in.ID = uuid.New()
	in.IsReferenced = false
	c.categories[in.ID] = in
	return &in, nil
}

func (c *categories) Update(ctx context.Context, userID, categoryID uuid.UUID, p types.CategoryPatch) (*types.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.categories[categoryID]
	if !ok || cat.UserID != userID {
		return nil, nil
	}
	cat.Name = p.Name
	cat.Description = p.Description
	c.categories[categoryID] = cat
	return &cat, nil
}

func (c *categories) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cat, ok := c.categories[categoryID]; ok && cat.UserID == userID {
		delete(c.categories, categoryID)
	}
	return nil
}

// --- Memos ---
type memos Store

func (m *memos) List(ctx context.Context, q types.MemoQuery) ([]types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Memo, 0)
	for _, memo := range m.memos {
		if memo.UserID != q.UserID {
			continue
		}
		if q.CategoryID != nil && memo.CategoryID != *q.CategoryID {
			continue
		}
		out = append(out, memo)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memos) Get(ctx context.Context, userID, memoID uuid.UUID) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	memo, ok := m.memos[memoID]
	if !ok || memo.UserID != userID {
		return nil, nil
	}
	return &memo, nil
}

func (m *memos) Create(ctx context.Context, in types.Memo) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.CategoryID == uuid.Nil {
		return nil, errors.New("memos.category_id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = uuid.New()
	if in.CreatedAt.IsZero() {
		in.CreatedAt = m.now().UTC()
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}
	m.memos[in.ID] = in
	return &in, nil
}

func (m *memos) Update(ctx context.Context, userID, memoID uuid.UUID, p types.MemoPatch) (*types.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	memo, ok := m.memos[memoID]
	if !ok || memo.UserID != userID {
		return nil, nil
	}
	memo.CategoryID = p.CategoryID
	memo.Title = p.Title
	memo.Content = p.Content
	if p.UpdatedAt.After(memo.UpdatedAt) {
		memo.UpdatedAt = p.UpdatedAt
	}
	m.memos[memoID] = memo
	return &memo, nil
}

func (m *memos) Delete(ctx context.Context, userID, memoID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if memo, ok := m.memos[memoID]; ok && memo.UserID == userID {
		delete(m.memos, memoID)
	}
	return nil
}
