package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

// GetMemos lists the memos in a category, most recently updated first.
func (c *Client) GetMemos(ctx context.Context, categoryID uuid.UUID) Result[[]Memo] {
	return owned(c, func(uid uuid.UUID) Result[[]Memo] {
		return run(ctx, c, "get_memos", idempotent, func(ctx context.Context, be backend.Backend) ([]Memo, error) {
			return be.Memos().List(ctx, types.MemoQuery{UserID: uid, CategoryID: &categoryID})
		})
	})
}

// GetLatestMemos returns at most count memos across all categories, most
// recently updated first. A count of zero or less returns an empty list
// without contacting the backend.
func (c *Client) GetLatestMemos(ctx context.Context, count int) Result[[]Memo] {
	if count <= 0 {
		return success([]Memo{})
	}
	return owned(c, func(uid uuid.UUID) Result[[]Memo] {
		return run(ctx, c, "get_latest_memos", idempotent, func(ctx context.Context, be backend.Backend) ([]Memo, error) {
			return be.Memos().List(ctx, types.MemoQuery{UserID: uid, Limit: count})
		})
	})
}

// GetMemo returns the memo with id, or nil when there is none.
func (c *Client) GetMemo(ctx context.Context, id uuid.UUID) Result[*Memo] {
	return owned(c, func(uid uuid.UUID) Result[*Memo] {
		return run(ctx, c, "get_memo", idempotent, func(ctx context.Context, be backend.Backend) (*Memo, error) {
			return be.Memos().Get(ctx, uid, id)
		})
	})
}

// CreateMemo stores m for the signed-in user with created_at and updated_at
// set to now, and returns it with its server-assigned ID.
func (c *Client) CreateMemo(ctx context.Context, m Memo) Result[Memo] {
	if err := types.ValidateMemo(m); err != nil {
		return failure[Memo](err)
	}
	return owned(c, func(uid uuid.UUID) Result[Memo] {
		now := c.now().UTC()
		m.ID = uuid.Nil
		m.UserID = uid
		m.CreatedAt = now
		m.UpdatedAt = now
		return run(ctx, c, "create_memo", once, func(ctx context.Context, be backend.Backend) (Memo, error) {
			out, err := be.Memos().Create(ctx, m)
			if err != nil {
				return Memo{}, err
			}
			return *out, nil
		})
	})
}

// UpdateMemo writes m's title, content and category and stamps updated_at
// with now. created_at is never touched and updated_at never moves
// backwards. The payload is nil when no memo with m.ID exists.
func (c *Client) UpdateMemo(ctx context.Context, m Memo) Result[*Memo] {
	if err := types.ValidateID("memo", m.ID); err != nil {
		return failure[*Memo](err)
	}
	if err := types.ValidateMemo(m); err != nil {
		return failure[*Memo](err)
	}
	return owned(c, func(uid uuid.UUID) Result[*Memo] {
		patch := types.MemoPatch{
			CategoryID: m.CategoryID,
			Title:      m.Title,
			Content:    m.Content,
			UpdatedAt:  c.now().UTC(),
		}
		return run(ctx, c, "update_memo", idempotent, func(ctx context.Context, be backend.Backend) (*Memo, error) {
			return be.Memos().Update(ctx, uid, m.ID, patch)
		})
	})
}

// DeleteMemo removes the memo with id. Deleting a missing memo succeeds.
func (c *Client) DeleteMemo(ctx context.Context, id uuid.UUID) Result[bool] {
	return owned(c, func(uid uuid.UUID) Result[bool] {
		return run(ctx, c, "delete_memo", idempotent, func(ctx context.Context, be backend.Backend) (bool, error) {
			if err := be.Memos().Delete(ctx, uid, id); err != nil {
				return false, err
			}
			return true, nil
		})
	})
}
