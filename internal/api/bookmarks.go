package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/batch"
	"github.com/tmarks/tmarks/internal/store"
)

// bookmarksAPIHandler provides REST handlers for bookmark reads and batch
// mutations.
type bookmarksAPIHandler struct {
	processor *batch.Processor
	bookmarks *store.BookmarkStore
	tags      *store.TagStore
	logger    *slog.Logger
}

func registerBookmarkRoutes(r chi.Router, processor *batch.Processor, bookmarks *store.BookmarkStore, tags *store.TagStore, logger *slog.Logger) {
	h := &bookmarksAPIHandler{processor: processor, bookmarks: bookmarks, tags: tags, logger: logger}
	r.Get("/bookmarks", h.List)
	r.Patch("/bookmarks/bulk", h.Bulk)
}

// Bulk applies one batch action to a bounded set of the caller's bookmarks.
// PATCH /api/v1/bookmarks/bulk
//
// @Summary      Batch bookmark mutation
// @Description  Applies delete, pin, unpin, archive, unarchive, or update_tags to up to 100 bookmarks.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      batch.Request  true  "Batch action"
// @Success      200   {object}  batch.Result
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Security     BearerKey
// @Router       /bookmarks/bulk [patch]
func (h *bookmarksAPIHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req batch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.processor.Apply(r.Context(), user.ID, req)
	if err != nil {
		var berr *batch.Error
		if errors.As(err, &berr) {
			writeError(w, berr.Status, berr.Code, berr.Message)
			return
		}
		h.logger.Error("batch operation failed", "owner_id", user.ID, "action", req.Action, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to perform batch operation")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// List returns the caller's active bookmarks with resolved tag names.
// GET /api/v1/bookmarks
//
// @Summary      List bookmarks
// @Tags         Bookmarks
// @Produce      json
// @Success      200  {object}  BookmarkListResponse
// @Failure      500  {object}  errorBody
// @Security     BearerKey
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	bookmarks, err := h.bookmarks.ListActiveByOwner(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list bookmarks failed", "owner_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	associations, err := h.tags.ListAssociations(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list associations failed", "owner_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}

	tagNames := make(map[string][]string)
	for _, assoc := range associations {
		tagNames[assoc.BookmarkID] = append(tagNames[assoc.BookmarkID], assoc.TagName)
	}

	resp := BookmarkListResponse{Bookmarks: make([]BookmarkResponse, 0, len(bookmarks))}
	for _, b := range bookmarks {
		names := tagNames[b.ID]
		if names == nil {
			names = []string{}
		}
		item := BookmarkResponse{
			ID:          b.ID,
			Title:       b.Title,
			URL:         b.URL,
			Description: b.Description,
			CoverImage:  b.CoverImage,
			Tags:        names,
			IsPinned:    b.IsPinned,
			IsArchived:  b.IsArchived,
			ClickCount:  b.ClickCount,
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		}
		if b.LastClickedAt.Valid {
			t := b.LastClickedAt.Time
			item.LastClickedAt = &t
		}
		resp.Bookmarks = append(resp.Bookmarks, item)
	}

	writeJSON(w, http.StatusOK, resp)
}
