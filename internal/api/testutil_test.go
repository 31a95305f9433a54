package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tmarks/tmarks/internal/api"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/batch"
	"github.com/tmarks/tmarks/internal/cache"
	"github.com/tmarks/tmarks/internal/export"
	"github.com/tmarks/tmarks/internal/store"
	"github.com/tmarks/tmarks/internal/testutil"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router    http.Handler
	DB        *sqlx.DB
	Users     *store.UserStore
	Bookmarks *store.BookmarkStore
	Tags      *store.TagStore
	Keys      *auth.SQLKeyStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := store.NewUserStore(db)
	bookmarks := store.NewBookmarkStore(db)
	tags := store.NewTagStore(db)
	ownership := store.NewOwnershipStore(db)
	audit := store.NewAuditStore(db)
	keys := auth.NewSQLKeyStore(db)

	processor := batch.NewProcessor(db, bookmarks, tags, ownership, audit, cache.NewShareCache(), logger, batch.Options{})
	collector := export.NewCollector(users, bookmarks, tags)
	estimator := export.NewEstimator(bookmarks, tags)

	router := api.NewAPIRouter(api.Deps{
		BearerAuth: auth.NewBearerKeyMiddleware(keys, users),
		Processor:  processor,
		Collector:  collector,
		Estimator:  estimator,
		Bookmarks:  bookmarks,
		Tags:       tags,
		Keys:       keys,
		Logger:     logger,
	})

	return &testEnv{
		Router:    router,
		DB:        db,
		Users:     users,
		Bookmarks: bookmarks,
		Tags:      tags,
		Keys:      keys,
	}
}

// seedUser creates a user record.
func seedUser(t *testing.T, env *testEnv, email, username string) *store.User {
	t.Helper()
	u, err := env.Users.Create(context.Background(), email, username)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedKey creates a real API key for a user and returns the plaintext Bearer value.
func seedKey(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if _, err := env.Keys.Create(context.Background(), userID, "test-key", hash, nil); err != nil {
		t.Fatalf("create key: %v", err)
	}
	return plaintext
}

// seedBookmark creates a bookmark for a user.
func seedBookmark(t *testing.T, env *testEnv, ownerID, title string) *store.Bookmark {
	t.Helper()
	b, err := env.Bookmarks.Create(context.Background(), ownerID, title, "https://example.com/"+title, "")
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
	return b
}

// seedTag creates a tag for a user.
func seedTag(t *testing.T, env *testEnv, ownerID, name string) *store.Tag {
	t.Helper()
	tag, err := env.Tags.Create(context.Background(), ownerID, name, "")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}

// attach links a bookmark and a tag directly through the store.
func attach(t *testing.T, env *testEnv, ownerID, bookmarkID, tagID string) {
	t.Helper()
	ctx := context.Background()
	if err := env.Tags.AddAssociation(ctx, env.DB, bookmarkID, tagID, ownerID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := env.Tags.RecomputeUsageCount(ctx, env.DB, tagID, ownerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
}

// authRequest adds a Bearer API key to the request.
func authRequest(r *http.Request, key string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+key)
	return r
}

// backdate shifts a bookmark's created_at so list ordering is deterministic.
func backdate(t *testing.T, env *testEnv, bookmarkID string, d time.Duration) {
	t.Helper()
	_, err := env.DB.Exec(env.DB.Rebind(`UPDATE bookmarks SET created_at = ? WHERE id = ?`),
		time.Now().UTC().Add(-d), bookmarkID)
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}
}
