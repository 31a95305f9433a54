package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tmarks/tmarks/internal/api"
	"github.com/tmarks/tmarks/internal/auth"
	"github.com/tmarks/tmarks/internal/batch"
	"github.com/tmarks/tmarks/internal/cache"
	"github.com/tmarks/tmarks/internal/config"
	"github.com/tmarks/tmarks/internal/db"
	"github.com/tmarks/tmarks/internal/export"
	"github.com/tmarks/tmarks/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			bookmarkStore := store.NewBookmarkStore(database)
			tagStore := store.NewTagStore(database)
			ownershipStore := store.NewOwnershipStore(database)
			auditStore := store.NewAuditStore(database)
			keyStore := auth.NewSQLKeyStore(database)

			shareCache := cache.NewShareCache()
			processor := batch.NewProcessor(database, bookmarkStore, tagStore, ownershipStore, auditStore, shareCache, logger, batch.Options{
				AuditBlocking: cfg.Audit.Blocking,
			})
			collector := export.NewCollector(userStore, bookmarkStore, tagStore)
			estimator := export.NewEstimator(bookmarkStore, tagStore)

			bearerAuth := auth.NewBearerKeyMiddleware(keyStore, userStore)

			router := chi.NewRouter()
			router.Mount("/api/v1", api.NewAPIRouter(api.Deps{
				BearerAuth: bearerAuth,
				Processor:  processor,
				Collector:  collector,
				Estimator:  estimator,
				Bookmarks:  bookmarkStore,
				Tags:       tagStore,
				Keys:       keyStore,
				Logger:     logger,
			}))
			router.Handle("/metrics", promhttp.Handler())

			logger.Info("listening", "addr", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
