package types

import (
	"time"

	"github.com/google/uuid"
)

// ------------------------------
// Query / Patch Types
// ------------------------------

// MemoQuery selects memos of one owner ordered by updated_at, newest first.
// A nil CategoryID matches every category; Limit <= 0 means no limit.
type MemoQuery struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
}

// CategoryPatch is the column set an update may touch.
type CategoryPatch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MemoPatch is the column set an update may touch. created_at is absent on
// purpose: it is written once at creation.
type MemoPatch struct {
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"`
}
