// Package backend defines the remote-store port the client talks to.
// Implementations live under internal/backend/<driver>/ (supabase, sqlstore, memory).
package backend

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/types"
)

var (
	// ErrInvalidCredentials is returned by Auth.SignIn when the password is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned by Auth.SignUp when the email is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrMalformed marks a row the driver could not map onto the domain types.
	ErrMalformed = errors.New("malformed row")
)

// Backend exposes the authentication and data operations required by the client.
type Backend interface {
	Auth() Auth
	Categories() Categories
	Memos() Memos
}

// Auth is the authentication boundary.
type Auth interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*types.Session, error)
	// SignOut invalidates the given session remotely. A nil session is a no-op.
	SignOut(ctx context.Context, s *types.Session) error
}

// Categories is the categories table. Lookups that match no row return
// (nil, nil); deletes that match no row succeed.
type Categories interface {
	List(ctx context.Context, userID uuid.UUID) ([]types.Category, error)
	Get(ctx context.Context, userID, categoryID uuid.UUID) (*types.Category, error)
	Create(ctx context.Context, c types.Category) (*types.Category, error)
	Update(ctx context.Context, userID, categoryID uuid.UUID, p types.CategoryPatch) (*types.Category, error)
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

// Memos is the memos table. List orders by updated_at, newest first.
type Memos interface {
	List(ctx context.Context, q types.MemoQuery) ([]types.Memo, error)
	Get(ctx context.Context, userID, memoID uuid.UUID) (*types.Memo, error)
	Create(ctx context.Context, m types.Memo) (*types.Memo, error)
	Update(ctx context.Context, userID, memoID uuid.UUID, p types.MemoPatch) (*types.Memo, error)
	Delete(ctx context.Context, userID, memoID uuid.UUID) error
}

// Closer is implemented by backends that hold resources (database handles).
type Closer interface {
	Close() error
}
