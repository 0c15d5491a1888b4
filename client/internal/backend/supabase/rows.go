package supabase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

// memoRow keeps timestamps as text: PostgREST renders timestamp and
// timestamptz columns differently and time.Time only accepts RFC 3339.
type memoRow struct {
	ID         uuid.UUID `json:"memo_id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", backend.ErrMalformed, v)
}

func (r memoRow) memo() (types.Memo, error) {
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return types.Memo{}, fmt.Errorf("memo %s created_at: %w", r.ID, err)
	}
	updated, err := parseTimestamp(r.UpdatedAt)
	if err != nil {
		return types.Memo{}, fmt.Errorf("memo %s updated_at: %w", r.ID, err)
	}
	return types.Memo{
		ID:         r.ID,
		UserID:     r.UserID,
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Content:    r.Content,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

func toMemos(rows []memoRow) ([]types.Memo, error) {
	out := make([]types.Memo, 0, len(rows))
	for _, r := range rows {
		m, err := r.memo()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

type memoInsert struct {
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func newMemoInsert(m types.Memo) memoInsert {
	return memoInsert{
		UserID:     m.UserID.String(),
		CategoryID: m.CategoryID.String(),
		Title:      m.Title,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  m.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type memoPatch struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UpdatedAt  string `json:"updated_at"`
}

func newMemoPatch(p types.MemoPatch) memoPatch {
	return memoPatch{
		CategoryID: p.CategoryID.String(),
		Title:      p.Title,
		Content:    p.Content,
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
