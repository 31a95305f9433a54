package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/batch"
	"github.com/tmarks/tmarks/internal/export"
	"github.com/tmarks/tmarks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth *auth.BearerKeyMiddleware
	Processor  *batch.Processor
	Collector  *export.Collector
	Estimator  *export.Estimator
	Bookmarks  *store.BookmarkStore
	Tags       *store.TagStore
	Keys       auth.KeyStore
	Logger     *slog.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1. All routes require
// Bearer API-key authentication and return application/json unless a handler
// overrides the content type (export downloads do).
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(deps.BearerAuth.Authenticate)

	registerBookmarkRoutes(r, deps.Processor, deps.Bookmarks, deps.Tags, deps.Logger)
	registerExportRoutes(r, deps.Collector, deps.Estimator, deps.Logger)
	registerTagRoutes(r, deps.Tags)
	registerAPIKeyRoutes(r, deps.Keys)

	return r
}

// jsonContentType sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
