package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/store"
)

// apiKeysHandler provides REST handlers for API key management.
type apiKeysHandler struct {
	keys auth.KeyStore
}

func registerAPIKeyRoutes(r chi.Router, keys auth.KeyStore) {
	h := &apiKeysHandler{keys: keys}
	r.Get("/api-keys", h.List)
	r.Post("/api-keys", h.Create)
	r.Delete("/api-keys/{id}", h.Revoke)
}

// List returns the caller's API keys without sensitive fields.
// GET /api/v1/api-keys
func (h *apiKeysHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	records, err := h.keys.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}

	resp := APIKeyListResponse{Keys: make([]*APIKeyResponse, 0, len(records))}
	for _, rec := range records {
		item := &APIKeyResponse{
			ID:        rec.ID,
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		}
		if rec.LastUsedAt.Valid {
			t := rec.LastUsedAt.Time
			item.LastUsedAt = &t
		}
		if rec.ExpiresAt.Valid {
			t := rec.ExpiresAt.Time
			item.ExpiresAt = &t
		}
		resp.Keys = append(resp.Keys, item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new API key and returns the plaintext once.
// POST /api/v1/api-keys
func (h *apiKeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	plaintext, hash, err := auth.GenerateKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "key generation failed")
		return
	}

	rec, err := h.keys.Create(r.Context(), user.ID, req.Name, hash, req.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "key creation failed")
		return
	}

	item := APIKeyResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ExpiresAt.Valid {
		t := rec.ExpiresAt.Time
		item.ExpiresAt = &t
	}

	writeJSON(w, http.StatusCreated, APIKeyCreatedResponse{
		APIKeyResponse: item,
		Key:            plaintext,
	})
}

// Revoke disables an API key owned by the caller.
// DELETE /api/v1/api-keys/{id}
func (h *apiKeysHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	keyID := chi.URLParam(r, "id")
	err := h.keys.Revoke(r.Context(), keyID, user.ID)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "revoke failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
