package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/store"
)

// tagsAPIHandler provides the tag list endpoint.
type tagsAPIHandler struct {
	tags *store.TagStore
}

func registerTagRoutes(r chi.Router, tags *store.TagStore) {
	h := &tagsAPIHandler{tags: tags}
	r.Get("/tags", h.List)
}

// List returns the caller's active tags with their cached usage counts.
// GET /api/v1/tags
//
// @Summary      List tags
// @Tags         Tags
// @Produce      json
// @Success      200  {object}  TagListResponse
// @Failure      500  {object}  errorBody
// @Security     BearerKey
// @Router       /tags [get]
func (h *tagsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	tags, err := h.tags.ListActiveByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}

	resp := TagListResponse{Tags: make([]TagResponse, 0, len(tags))}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, TagResponse{
			ID:         t.ID,
			Name:       t.Name,
			Color:      t.Color,
			UsageCount: t.UsageCount,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
