package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

// GetCategories returns the signed-in user's categories with IsReferenced
// recomputed from the user's memos on every call.
func (c *Client) GetCategories(ctx context.Context) Result[[]Category] {
	return owned(c, func(uid uuid.UUID) Result[[]Category] {
		return run(ctx, c, "get_categories", idempotent, func(ctx context.Context, be backend.Backend) ([]Category, error) {
			cats, err := be.Categories().List(ctx, uid)
			if err != nil {
				return nil, err
			}
			memos, err := be.Memos().List(ctx, types.MemoQuery{UserID: uid})
			if err != nil {
				return nil, err
			}
			referenced := make(map[uuid.UUID]struct{}, len(memos))
			for _, m := range memos {
				referenced[m.CategoryID] = struct{}{}
			}
			out := make([]Category, len(cats))
			for i, cat := range cats {
				_, cat.IsReferenced = referenced[cat.ID]
				out[i] = cat
			}
			return out, nil
		})
	})
}

// GetCategory returns the category with id, or nil when there is none.
func (c *Client) GetCategory(ctx context.Context, id uuid.UUID) Result[*Category] {
	return owned(c, func(uid uuid.UUID) Result[*Category] {
		return run(ctx, c, "get_category", idempotent, func(ctx context.Context, be backend.Backend) (*Category, error) {
			return be.Categories().Get(ctx, uid, id)
		})
	})
}

// CreateCategory stores cat for the signed-in user and returns it with its
// server-assigned ID.
func (c *Client) CreateCategory(ctx context.Context, cat Category) Result[Category] {
	return owned(c, func(uid uuid.UUID) Result[Category] {
		cat.ID = uuid.Nil
		cat.UserID = uid
		cat.IsReferenced = false
		return run(ctx, c, "create_category", once, func(ctx context.Context, be backend.Backend) (Category, error) {
			out, err := be.Categories().Create(ctx, cat)
			if err != nil {
				return Category{}, err
			}
			return *out, nil
		})
	})
}

// UpdateCategory writes cat's name and description. The payload is nil when
// no category with cat.ID exists.
func (c *Client) UpdateCategory(ctx context.Context, cat Category) Result[*Category] {
	if err := types.ValidateID("category", cat.ID); err != nil {
		return failure[*Category](err)
	}
	return owned(c, func(uid uuid.UUID) Result[*Category] {
		patch := types.CategoryPatch{Name: cat.Name, Description: cat.Description}
		return run(ctx, c, "update_category", idempotent, func(ctx context.Context, be backend.Backend) (*Category, error) {
			return be.Categories().Update(ctx, uid, cat.ID, patch)
		})
	})
}

// DeleteCategory removes the category with id. Memos filed under it are
// left in place. Deleting a missing category succeeds.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) Result[bool] {
	return owned(c, func(uid uuid.UUID) Result[bool] {
		return run(ctx, c, "delete_category", idempotent, func(ctx context.Context, be backend.Backend) (bool, error) {
			if err := be.Categories().Delete(ctx, uid, id); err != nil {
				return false, err
			}
			return true, nil
		})
	})
}
