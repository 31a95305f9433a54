package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tmarks/tmarks/internal/store"
)

// BearerKeyMiddleware authenticates API requests via a Bearer API key. It is
// the identity-resolution layer: every downstream handler reads the resolved
// owner from the request context and nothing else.
type BearerKeyMiddleware struct {
	keys  KeyStore
	users *store.UserStore
}

func NewBearerKeyMiddleware(ks KeyStore, us *store.UserStore) *BearerKeyMiddleware {
	return &BearerKeyMiddleware{keys: ks, users: us}
}

// Authenticate extracts and validates a Bearer API key.
// Valid: injects the key owner's *store.User into context and fires an async
// last_used_at update. Missing/invalid/expired/revoked: 401.
func (m *BearerKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeUnauthorized(w)
			return
		}
		plaintext := strings.TrimPrefix(authHeader, "Bearer ")
		if plaintext == "" {
			writeUnauthorized(w)
			return
		}

		rec, err := m.keys.GetByHash(r.Context(), HashKey(plaintext))
		if err != nil {
			writeUnauthorized(w)
			return
		}
		if rec.RevokedAt.Valid {
			writeUnauthorized(w)
			return
		}
		if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
			writeUnauthorized(w)
			return
		}

		user, err := m.users.GetByID(r.Context(), rec.UserID)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		// Async so key validation adds no write latency to every request.
		go m.keys.UpdateLastUsed(context.Background(), rec.ID)

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
