// Package state keeps client-side views of remote data consistent with the
// backend after mutations and tells subscribers when a view changes.
package state

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miyatoshi624/gote/client"
	"github.com/miyatoshi624/gote/internal/notify"
	"github.com/miyatoshi624/gote/pkg/result"
)

// CategorySource is the part of *client.Client the category cache uses.
type CategorySource interface {
	GetCategories(ctx context.Context) client.Result[[]client.Category]
	CreateCategory(ctx context.Context, c client.Category) client.Result[client.Category]
	UpdateCategory(ctx context.Context, c client.Category) client.Result[*client.Category]
	DeleteCategory(ctx context.Context, id uuid.UUID) client.Result[bool]
}

// Option configures a cache.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Categories caches the signed-in user's categories. Every successful
// mutation is followed by a full reload so the cache mirrors the backend,
// including server-assigned IDs and reference flags.
type Categories struct {
	src CategorySource
	log zerolog.Logger

	mu     sync.RWMutex
	items  []client.Category
	loaded bool

	changed notify.Registry
}

// NewCategories returns an empty cache; call Load to populate it.
func NewCategories(src CategorySource, opts ...Option) *Categories {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Categories{src: src, log: o.log}
}

// Load replaces the cache with the backend's current list and notifies
// subscribers. On failure the previous snapshot is kept, nobody is
// notified and the failure is returned unchanged.
func (s *Categories) Load(ctx context.Context) client.Result[bool] {
	r := s.src.GetCategories(ctx)
	if r.IsFailure() {
		s.log.Warn().Str("code", r.GetFailure().Code).Msg("category reload failed, keeping previous snapshot")
		return result.Map(r, func([]client.Category) bool { return false })
	}

	s.mu.Lock()
	s.items = slices.Clone(r.GetSuccess())
	s.loaded = true
	n := len(s.items)
	s.mu.Unlock()

	s.log.Debug().Int("categories", n).Msg("category cache replaced")
	s.changed.Notify()
	return result.Success[bool, client.Error](true)
}

// Add creates c remotely and reloads on success.
func (s *Categories) Add(ctx context.Context, c client.Category) client.Result[bool] {
	return s.thenLoad(ctx, result.Map(s.src.CreateCategory(ctx, c), func(client.Category) bool { return true }))
}

// Update writes c's name and description remotely and reloads on success.
func (s *Categories) Update(ctx context.Context, c client.Category) client.Result[bool] {
	return s.thenLoad(ctx, result.Map(s.src.UpdateCategory(ctx, c), func(*client.Category) bool { return true }))
}

// Delete removes the category remotely and reloads on success.
func (s *Categories) Delete(ctx context.Context, id uuid.UUID) client.Result[bool] {
	return s.thenLoad(ctx, s.src.DeleteCategory(ctx, id))
}

func (s *Categories) thenLoad(ctx context.Context, mutation client.Result[bool]) client.Result[bool] {
	if mutation.IsFailure() {
		return mutation
	}
	return s.Load(ctx)
}

// Snapshot returns a copy of the cached list and whether any load has
// succeeded yet.
func (s *Categories) Snapshot() ([]client.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, false
	}
	return slices.Clone(s.items), true
}

// OnChanged registers fn to run after every cache replacement.
func (s *Categories) OnChanged(fn func()) (unsubscribe func()) {
	return s.changed.Subscribe(fn)
}
