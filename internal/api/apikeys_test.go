package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tmarks/tmarks/internal/api"
	"github.com/tmarks/tmarks/internal/auth"
)

func TestCreateAndUseAPIKey(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	bootstrap := seedKey(t, env, user.ID)

	req := authRequest(httptest.NewRequest(http.MethodPost, "/api-keys",
		strings.NewReader(`{"name":"ci"}`)), bootstrap)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var created api.APIKeyCreatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "ci" {
		t.Errorf("name = %q, want ci", created.Name)
	}
	if !strings.HasPrefix(created.Key, auth.KeyPrefix) {
		t.Errorf("key %q missing %q prefix", created.Key, auth.KeyPrefix)
	}

	// The returned plaintext must authenticate.
	req = authRequest(httptest.NewRequest(http.MethodGet, "/tags", nil), created.Key)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("new key rejected: status = %d", rec.Code)
	}
}

func TestCreateAPIKeyRequiresName(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	req := authRequest(httptest.NewRequest(http.MethodPost, "/api-keys",
		strings.NewReader(`{}`)), key)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListAPIKeysOmitsHashes(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	req := authRequest(httptest.NewRequest(http.MethodGet, "/api-keys", nil), key)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.APIKeyListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Keys) != 1 {
		t.Fatalf("keys = %d, want 1", len(resp.Keys))
	}
	if strings.Contains(rec.Body.String(), "key_hash") || strings.Contains(rec.Body.String(), auth.HashKey(key)) {
		t.Error("response leaks key material")
	}
}

func TestRevokeAPIKey(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	bootstrap := seedKey(t, env, user.ID)
	victim := seedKey(t, env, user.ID)

	recs, err := env.Keys.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	var victimID string
	for _, rec := range recs {
		if rec.KeyHash == auth.HashKey(victim) {
			victimID = rec.ID
		}
	}
	if victimID == "" {
		t.Fatal("victim key record not found")
	}

	req := authRequest(httptest.NewRequest(http.MethodDelete, "/api-keys/"+victimID, nil), bootstrap)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	// Revoked key no longer authenticates.
	req = authRequest(httptest.NewRequest(http.MethodGet, "/tags", nil), victim)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked key status = %d, want 401", rec.Code)
	}
}

func TestRevokeUnknownAPIKey(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com", "alice")
	key := seedKey(t, env, user.ID)

	req := authRequest(httptest.NewRequest(http.MethodDelete, "/api-keys/no-such-id", nil), key)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
