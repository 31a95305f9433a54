package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tmarks/tmarks/internal/api"
	"github.com/tmarks/tmarks/internal/batch"
)

func doBulk(t *testing.T, env *testEnv, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/bookmarks/bulk", strings.NewReader(body))
	if key != "" {
		authRequest(req, key)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func TestBulkUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := doBulk(t, env, "", `{"action":"pin","bookmark_ids":["x"]}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestBulkPinPartialOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com", "alice")
	bob := seedUser(t, env, "bob@example.com", "bob")
	key := seedKey(t, env, alice.ID)

	mine := seedBookmark(t, env, alice.ID, "mine")
	theirs := seedBookmark(t, env, bob.ID, "theirs")

	body, _ := json.Marshal(batch.Request{Action: batch.ActionPin, BookmarkIDs: []string{mine.ID, theirs.ID}})
	rec := doBulk(t, env, key, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result batch.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success {
		t.Errorf("success = false, want true")
	}
	if result.AffectedCount != 1 {
		t.Errorf("affected_count = %d, want 1", result.AffectedCount)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}

	got, err := env.Bookmarks.GetByID(context.Background(), mine.ID, alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsPinned {
		t.Error("bookmark not pinned")
	}
	other, err := env.Bookmarks.GetByID(context.Background(), theirs.ID, bob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.IsPinned {
		t.Error("foreign bookmark was pinned")
	}
}

func TestBulkErrorStatuses(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	tooMany := make([]string, 101)
	for i := range tooMany {
		tooMany[i] = "id"
	}
	tooManyJSON, _ := json.Marshal(map[string]any{"action": "pin", "bookmark_ids": tooMany})

	tests := []struct {
		name     string
		body     string
		status   int
		wantCode string
	}{
		{"malformed json", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty ids", `{"action":"pin","bookmark_ids":[]}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown action", `{"action":"explode","bookmark_ids":["x"]}`, http.StatusBadRequest, "INVALID_ACTION"},
		{"over limit", string(tooManyJSON), http.StatusBadRequest, "TOO_MANY_ITEMS"},
		{"nothing owned", `{"action":"update_tags","bookmark_ids":["ghost"]}`, http.StatusNotFound, "NO_VALID_BOOKMARKS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doBulk(t, env, key, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var body struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestBulkUpdateTagsIgnoresUnownedTag(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	b := seedBookmark(t, env, user.ID, "one")
	tag := seedTag(t, env, user.ID, "reading")

	body, _ := json.Marshal(batch.Request{
		Action:      batch.ActionUpdateTags,
		BookmarkIDs: []string{b.ID},
		AddTagIDs:   []string{tag.ID, "not-a-tag"},
	})
	rec := doBulk(t, env, key, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result batch.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.AffectedCount != 1 {
		t.Errorf("affected_count = %d, want 1", result.AffectedCount)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}

	assocs, err := env.Tags.ListAssociations(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list associations: %v", err)
	}
	if len(assocs) != 1 || assocs[0].TagName != "reading" {
		t.Errorf("associations = %v, want single reading link", assocs)
	}
}

func TestListBookmarks(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	older := seedBookmark(t, env, user.ID, "older")
	backdate(t, env, older.ID, 2*time.Minute)
	newer := seedBookmark(t, env, user.ID, "newer")
	tag := seedTag(t, env, user.ID, "reading")
	attach(t, env, user.ID, newer.ID, tag.ID)

	req := authRequest(httptest.NewRequest(http.MethodGet, "/bookmarks", nil), key)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.BookmarkListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookmarks) != 2 {
		t.Fatalf("bookmarks = %d, want 2", len(resp.Bookmarks))
	}
	if resp.Bookmarks[0].ID != newer.ID {
		t.Errorf("first bookmark = %s, want newest %s", resp.Bookmarks[0].ID, newer.ID)
	}
	if len(resp.Bookmarks[0].Tags) != 1 || resp.Bookmarks[0].Tags[0] != "reading" {
		t.Errorf("tags = %v, want [reading]", resp.Bookmarks[0].Tags)
	}
	if resp.Bookmarks[1].Tags == nil {
		t.Error("untagged bookmark should carry an empty tag list, not null")
	}
}
