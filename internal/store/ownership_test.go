package store_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/tmarks/tmarks/internal/store"
	"github.com/tmarks/tmarks/internal/testutil"
)

type storeEnv struct {
	DB        *sqlx.DB
	Users     *store.UserStore
	Bookmarks *store.BookmarkStore
	Tags      *store.TagStore
	Ownership *store.OwnershipStore
}

func newStoreEnv(t *testing.T) *storeEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &storeEnv{
		DB:        db,
		Users:     store.NewUserStore(db),
		Bookmarks: store.NewBookmarkStore(db),
		Tags:      store.NewTagStore(db),
		Ownership: store.NewOwnershipStore(db),
	}
}

func seedUser(t *testing.T, env *storeEnv, email, username string) *store.User {
	t.Helper()
	u, err := env.Users.Create(context.Background(), email, username)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedBookmark(t *testing.T, env *storeEnv, ownerID, title string) *store.Bookmark {
	t.Helper()
	b, err := env.Bookmarks.Create(context.Background(), ownerID, title, "https://example.com/"+title, "")
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
	return b
}

func TestFilterBookmarkIDs(t *testing.T) {
	env := newStoreEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env, "alice@example.com", "alice")
	bob := seedUser(t, env, "bob@example.com", "bob")

	mine := seedBookmark(t, env, alice.ID, "mine")
	deleted := seedBookmark(t, env, alice.ID, "deleted")
	theirs := seedBookmark(t, env, bob.ID, "theirs")
	if _, err := env.Bookmarks.SoftDeleteBatch(ctx, env.DB, alice.ID, []string{deleted.ID}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	valid, err := env.Ownership.FilterBookmarkIDs(ctx, env.DB, alice.ID,
		[]string{mine.ID, deleted.ID, theirs.ID, "missing"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(valid) != 1 || valid[0] != mine.ID {
		t.Errorf("valid = %v, want [%s]", valid, mine.ID)
	}
}

func TestFilterBookmarkIDs_Empty(t *testing.T) {
	env := newStoreEnv(t)
	valid, err := env.Ownership.FilterBookmarkIDs(context.Background(), env.DB, "anyone", nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(valid) != 0 {
		t.Errorf("valid = %v, want empty", valid)
	}
}

func TestFilterTagIDs(t *testing.T) {
	env := newStoreEnv(t)
	ctx := context.Background()
	alice := seedUser(t, env, "alice@example.com", "alice")
	bob := seedUser(t, env, "bob@example.com", "bob")

	mine, err := env.Tags.Create(ctx, alice.ID, "mine", "")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	theirs, err := env.Tags.Create(ctx, bob.ID, "theirs", "")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	valid, err := env.Ownership.FilterTagIDs(ctx, env.DB, alice.ID, []string{mine.ID, theirs.ID})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(valid) != 1 || valid[0] != mine.ID {
		t.Errorf("valid = %v, want [%s]", valid, mine.ID)
	}
}
