package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/backend/memory"
	"github.com/miyatoshi624/gote/client/internal/types"
)

const (
	testEmail    = "user@example.test"
	testPassword = "correct horse"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// faultyBackend wraps a real backend and lets tests queue errors or panics
// for individual operations ("categories.list", "memos.get", ...).
type faultyBackend struct {
	inner backend.Backend

	mu     sync.Mutex
	queued map[string][]error
	panics map[string]bool
	calls  map[string]int
}

func newFaultyBackend(inner backend.Backend) *faultyBackend {
	return &faultyBackend{
		inner:  inner,
		queued: map[string][]error{},
		panics: map[string]bool{},
		calls:  map[string]int{},
	}
}

func (f *faultyBackend) fail(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[op] = append(f.queued[op], errs...)
}

func (f *faultyBackend) panicOn(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panics[op] = true
}

func (f *faultyBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *faultyBackend) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.panics[op] {
		panic(op + " exploded")
	}
	if q := f.queued[op]; len(q) > 0 {
		f.queued[op] = q[1:]
		return q[0]
	}
	return nil
}

func (f *faultyBackend) Auth() backend.Auth             { return faultyAuth{f} }
func (f *faultyBackend) Categories() backend.Categories { return faultyCategories{f} }
func (f *faultyBackend) Memos() backend.Memos           { return faultyMemos{f} }

type faultyAuth struct{ f *faultyBackend }

func (a faultyAuth) SignUp(ctx context.Context, email, password string) error {
	if err := a.f.hit("auth.sign_up"); err != nil {
		return err
	}
	return a.f.inner.Auth().SignUp(ctx, email, password)
}

func (a faultyAuth) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	if err := a.f.hit("auth.sign_in"); err != nil {
		return nil, err
	}
	return a.f.inner.Auth().SignIn(ctx, email, password)
}

func (a faultyAuth) SignOut(ctx context.Context, s *types.Session) error {
	if err := a.f.hit("auth.sign_out"); err != nil {
		return err
	}
	return a.f.inner.Auth().SignOut(ctx, s)
}

type faultyCategories struct{ f *faultyBackend }

func (c faultyCategories) List(ctx context.Context, userID uuid.UUID) ([]types.Category, error) {
	if err := c.f.hit("categories.list"); err != nil {
		return nil, err
	}
	return c.f.inner.Categories().List(ctx, userID)
}

func (c faultyCategories) Get(ctx context.Context, userID, id uuid.UUID) (*types.Category, error) {
	if err := c.f.hit("categories.get"); err != nil {
		return nil, err
	}
	return c.f.inner.Categories().Get(ctx, userID, id)
}

func (c faultyCategories) Create(ctx context.Context, in types.Category) (*types.Category, error) {
	if err := c.f.hit("categories.create"); err != nil {
		return nil, err
	}
	return c.f.inner.Categories().Create(ctx, in)
}

func (c faultyCategories) Update(ctx context.Context, userID, id uuid.UUID, p types.CategoryPatch) (*types.Category, error) {
	if err := c.f.hit("categories.update"); err != nil {
		return nil, err
	}
	return c.f.inner.Categories().Update(ctx, userID, id, p)
}

func (c faultyCategories) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := c.f.hit("categories.delete"); err != nil {
		return err
	}
	return c.f.inner.Categories().Delete(ctx, userID, id)
}

type faultyMemos struct{ f *faultyBackend }

func (m faultyMemos) List(ctx context.Context, q types.MemoQuery) ([]types.Memo, error) {
	if err := m.f.hit("memos.list"); err != nil {
		return nil, err
	}
	return m.f.inner.Memos().List(ctx, q)
}

func (m faultyMemos) Get(ctx context.Context, userID, id uuid.UUID) (*types.Memo, error) {
	if err := m.f.hit("memos.get"); err != nil {
		return nil, err
	}
	return m.f.inner.Memos().Get(ctx, userID, id)
}

func (m faultyMemos) Create(ctx context.Context, in types.Memo) (*types.Memo, error) {
	if err := m.f.hit("memos.create"); err != nil {
		return nil, err
	}
	return m.f.inner.Memos().Create(ctx, in)
}

func (m faultyMemos) Update(ctx context.Context, userID, id uuid.UUID, p types.MemoPatch) (*types.Memo, error) {
	if err := m.f.hit("memos.update"); err != nil {
		return nil, err
	}
	return m.f.inner.Memos().Update(ctx, userID, id, p)
}

func (m faultyMemos) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := m.f.hit("memos.delete"); err != nil {
		return err
	}
	return m.f.inner.Memos().Delete(ctx, userID, id)
}

// newTestClient returns a client over an in-memory backend with the test
// account registered but not signed in.
func newTestClient(t *testing.T, opts ...Option) (*Client, *faultyBackend, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	fb := newFaultyBackend(memory.New(memory.WithClock(clk.Now)))
	base := []Option{WithBackend(fb), WithClock(clk.Now), WithRetry(3, time.Millisecond)}
	c := New(Settings{AccountEmail: testEmail}, append(base, opts...)...)
	if r := c.SignUp(context.Background(), testPassword); r.IsFailure() {
		t.Fatalf("SignUp: %v", r.GetFailure())
	}
	return c, fb, clk
}

// newSignedInClient is newTestClient followed by a successful SignIn.
func newSignedInClient(t *testing.T, opts ...Option) (*Client, *faultyBackend, *fakeClock) {
	t.Helper()
	c, fb, clk := newTestClient(t, opts...)
	if r := c.SignIn(context.Background(), testPassword); r.IsFailure() {
		t.Fatalf("SignIn: %v", r.GetFailure())
	}
	return c, fb, clk
}

func mustCategory(t *testing.T, c *Client, name string) Category {
	t.Helper()
	r := c.CreateCategory(context.Background(), Category{Name: name})
	if r.IsFailure() {
		t.Fatalf("CreateCategory(%s): %v", name, r.GetFailure())
	}
	return r.GetSuccess()
}

func mustMemo(t *testing.T, c *Client, categoryID uuid.UUID, title string) Memo {
	t.Helper()
	r := c.CreateMemo(context.Background(), Memo{CategoryID: categoryID, Title: title, Content: title + " body"})
	if r.IsFailure() {
		t.Fatalf("CreateMemo(%s): %v", title, r.GetFailure())
	}
	return r.GetSuccess()
}

func newID() uuid.UUID { return uuid.New() }
