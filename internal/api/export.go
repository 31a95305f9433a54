package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/export"
	"github.com/tmarks/tmarks/internal/metrics"
	"github.com/tmarks/tmarks/internal/store"
)

// exportAPIHandler provides the export download and preview endpoints.
type exportAPIHandler struct {
	collector *export.Collector
	estimator *export.Estimator
	logger    *slog.Logger
}

func registerExportRoutes(r chi.Router, collector *export.Collector, estimator *export.Estimator, logger *slog.Logger) {
	h := &exportAPIHandler{collector: collector, estimator: estimator, logger: logger}
	r.Get("/export", h.Download)
	r.Post("/export/preview", h.Preview)
}

// Download collects the caller's full dataset and streams the serialized
// artifact as an attachment.
// GET /api/v1/export
//
// @Summary      Export bookmarks
// @Description  Downloads the caller's full collection in the requested format.
// @Tags         Export
// @Produce      json
// @Param        format          query  string  false  "Export format (json, html)"
// @Param        include_tags    query  bool    false  "Include tags (default true)"
// @Param        include_metadata query bool    false  "Include metadata (default true)"
// @Param        pretty_print    query  bool    false  "Pretty-print output (default true)"
// @Param        include_stats   query  bool    false  "Include click statistics (default false)"
// @Param        include_user    query  bool    false  "Include user info (default false)"
// @Success      200  {file}    binary
// @Failure      400  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Security     BearerKey
// @Router       /export [get]
func (h *exportAPIHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "json"
	}

	// Validate the format before paying the collection cost.
	formatter, err := export.Lookup(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format: "+format)
		return
	}

	// Metadata, tags, and pretty-printing default on; stats and user info
	// default off.
	opts := export.Options{
		IncludeTags:       q.Get("include_tags") != "false",
		IncludeMetadata:   q.Get("include_metadata") != "false",
		PrettyPrint:       q.Get("pretty_print") != "false",
		IncludeClickStats: q.Get("include_stats") == "true",
		IncludeUserInfo:   q.Get("include_user") == "true",
	}

	ds, err := h.collector.Collect(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
			return
		}
		h.logger.Error("export collection failed", "owner_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "export failed")
		return
	}

	artifact, err := formatter.Format(ds, opts)
	if err != nil {
		h.logger.Error("export serialization failed", "owner_id", user.ID, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "export failed")
		return
	}

	metrics.ExportsTotal.WithLabelValues(format).Inc()
	metrics.ExportBytesTotal.WithLabelValues(format).Add(float64(artifact.Size))

	w.Header().Set("Content-Type", artifact.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Content)
}

// Preview returns item counts and an estimated artifact size without
// materializing the dataset.
// POST /api/v1/export/preview
//
// @Summary      Export preview
// @Tags         Export
// @Accept       json
// @Produce      json
// @Param        body  body      ExportPreviewRequest  true  "Desired format"
// @Success      200   {object}  export.Preview
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Security     BearerKey
// @Router       /export/preview [post]
func (h *exportAPIHandler) Preview(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req ExportPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}

	preview, err := h.estimator.Estimate(r.Context(), user.ID, req.Format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format: "+req.Format)
			return
		}
		h.logger.Error("export preview failed", "owner_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get export preview")
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
