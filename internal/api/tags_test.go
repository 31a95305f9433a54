package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmarks/tmarks/internal/api"
)

func TestListTags(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com", "alice")
	bob := seedUser(t, env, "bob@example.com", "bob")
	key := seedKey(t, env, alice.ID)

	tag := seedTag(t, env, alice.ID, "reading")
	seedTag(t, env, bob.ID, "theirs")
	b := seedBookmark(t, env, alice.ID, "one")
	attach(t, env, alice.ID, b.ID, tag.ID)

	req := authRequest(httptest.NewRequest(http.MethodGet, "/tags", nil), key)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.TagListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tags) != 1 {
		t.Fatalf("tags = %d, want 1 (caller's only)", len(resp.Tags))
	}
	if resp.Tags[0].Name != "reading" {
		t.Errorf("name = %q, want reading", resp.Tags[0].Name)
	}
	if resp.Tags[0].UsageCount != 1 {
		t.Errorf("usage_count = %d, want 1", resp.Tags[0].UsageCount)
	}
}

func TestListTagsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
