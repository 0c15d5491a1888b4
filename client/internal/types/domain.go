package types

import (
	"time"

	"github.com/google/uuid"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Category groups memos for one user. IsReferenced is derived at read time
// and never persisted.
type Category struct {
	ID           uuid.UUID `json:"category_id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsReferenced bool      `json:"-"`
}

// Memo is a single note filed under a category.
type Memo struct {
	ID         uuid.UUID `json:"memo_id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session is the authenticated principal held by a client.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	ExpiresIn    time.Duration
}

// ExpiresAt is IssuedAt plus ExpiresIn, in UTC.
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(s.ExpiresIn).UTC()
}

// Expired reports whether the session has lapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}
