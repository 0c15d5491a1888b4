// Package backendtest holds a compliance suite shared by every backend driver.
package backendtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

// Run exercises the backend.Backend contract. makeBackend must return a clean,
// isolated backend.
func Run(t *testing.T, makeBackend func(t *testing.T) backend.Backend) {
	t.Helper()

	b := makeBackend(t)
	ctx := context.Background()

	// Unique account per run
	email := "u-" + uuid.NewString() + "@example.test"

	// Auth
	if err := b.Auth().SignUp(ctx, email, "pw-1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := b.Auth().SignIn(ctx, email, "wrong"); !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("SignIn wrong password: want ErrInvalidCredentials, got %v", err)
	}
	sess, err := b.Auth().SignIn(ctx, email, "pw-1")
	if err != nil || sess == nil || sess.UserID == uuid.Nil {
		t.Fatalf("SignIn: sess=%+v err=%v", sess, err)
	}
	if sess.ExpiresIn <= 0 || sess.IssuedAt.IsZero() {
		t.Fatalf("SignIn: session without lifetime: %+v", sess)
	}
	uid := sess.UserID

	// Categories
	work, err := b.Categories().Create(ctx, types.Category{UserID: uid, Name: "work", Description: "work notes"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if work.ID == uuid.Nil {
		t.Fatalf("CreateCategory: empty category id")
	}
	idle, err := b.Categories().Create(ctx, types.Category{UserID: uid, Name: "idle"})
	if err != nil {
		t.Fatalf("CreateCategory idle: %v", err)
	}
	if got, err := b.Categories().Get(ctx, uid, work.ID); err != nil || got == nil || got.Name != "work" {
		t.Fatalf("GetCategory: got=%+v err=%v", got, err)
	}
	if got, err := b.Categories().Get(ctx, uid, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetCategory missing: want (nil, nil), got=%+v err=%v", got, err)
	}
	if got, err := b.Categories().Get(ctx, uuid.New(), work.ID); err != nil || got != nil {
		t.Fatalf("GetCategory other owner: want (nil, nil), got=%+v err=%v", got, err)
	}
	if lst, err := b.Categories().List(ctx, uid); err != nil || len(lst) != 2 {
		t.Fatalf("ListCategories: n=%d err=%v", len(lst), err)
	}
	upd, err := b.Categories().Update(ctx, uid, work.ID, types.CategoryPatch{Name: "job", Description: "renamed"})
	if err != nil || upd == nil || upd.Name != "job" || upd.Description != "renamed" || upd.ID != work.ID {
		t.Fatalf("UpdateCategory: got=%+v err=%v", upd, err)
	}
	if upd, err := b.Categories().Update(ctx, uid, uuid.New(), types.CategoryPatch{Name: "x"}); err != nil || upd != nil {
		t.Fatalf("UpdateCategory missing: want (nil, nil), got=%+v err=%v", upd, err)
	}

	// Memos
	base := time.Now().UTC().Truncate(time.Millisecond)
	var created []*types.Memo
	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		m, err := b.Memos().Create(ctx, types.Memo{
			UserID: uid, CategoryID: work.ID, Title: title, Content: "body " + title,
			CreatedAt: at, UpdatedAt: at,
		})
		if err != nil {
			t.Fatalf("CreateMemo %s: %v", title, err)
		}
		if m.ID == uuid.Nil || !m.CreatedAt.Equal(at) {
			t.Fatalf("CreateMemo %s: got=%+v", title, m)
		}
		created = append(created, m)
	}

	latest, err := b.Memos().List(ctx, types.MemoQuery{UserID: uid, Limit: 2})
	if err != nil || len(latest) != 2 {
		t.Fatalf("ListMemos limit: n=%d err=%v", len(latest), err)
	}
	if latest[0].Title != "third" || latest[1].Title != "second" {
		t.Fatalf("ListMemos order: got %q, %q", latest[0].Title, latest[1].Title)
	}
	if lst, err := b.Memos().List(ctx, types.MemoQuery{UserID: uid, CategoryID: &idle.ID}); err != nil || len(lst) != 0 {
		t.Fatalf("ListMemos idle category: n=%d err=%v", len(lst), err)
	}
	if lst, err := b.Memos().List(ctx, types.MemoQuery{UserID: uid, CategoryID: &work.ID}); err != nil || len(lst) != 3 {
		t.Fatalf("ListMemos work category: n=%d err=%v", len(lst), err)
	}

	first := created[0]
	later := base.Add(time.Minute)
	um, err := b.Memos().Update(ctx, uid, first.ID, types.MemoPatch{CategoryID: idle.ID, Title: "first*", Content: "edited", UpdatedAt: later})
	if err != nil || um == nil {
		t.Fatalf("UpdateMemo: got=%+v err=%v", um, err)
	}
	if !um.CreatedAt.Equal(first.CreatedAt) || !um.UpdatedAt.Equal(later) || um.CategoryID != idle.ID || um.Title != "first*" {
		t.Fatalf("UpdateMemo fields: got=%+v", um)
	}
	if got, err := b.Memos().Get(ctx, uid, first.ID); err != nil || got == nil || got.Content != "edited" {
		t.Fatalf("GetMemo after update: got=%+v err=%v", got, err)
	}
	if got, err := b.Memos().Get(ctx, uid, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetMemo missing: want (nil, nil), got=%+v err=%v", got, err)
	}
	if got, err := b.Memos().Update(ctx, uid, uuid.New(), types.MemoPatch{CategoryID: idle.ID, UpdatedAt: later}); err != nil || got != nil {
		t.Fatalf("UpdateMemo missing: want (nil, nil), got=%+v err=%v", got, err)
	}

	// Deletes: missing rows succeed, categories do not cascade.
	if err := b.Memos().Delete(ctx, uid, uuid.New()); err != nil {
		t.Fatalf("DeleteMemo missing: %v", err)
	}
	if err := b.Memos().Delete(ctx, uid, created[1].ID); err != nil {
		t.Fatalf("DeleteMemo: %v", err)
	}
	if err := b.Categories().Delete(ctx, uid, uuid.New()); err != nil {
		t.Fatalf("DeleteCategory missing: %v", err)
	}
	if err := b.Categories().Delete(ctx, uid, work.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if lst, err := b.Memos().List(ctx, types.MemoQuery{UserID: uid, CategoryID: &work.ID}); err != nil || len(lst) != 1 {
		t.Fatalf("orphaned memos after category delete: n=%d err=%v", len(lst), err)
	}

	if err := b.Auth().SignOut(ctx, sess); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
}
