package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/repository"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if err := database.RunMigrations(a.db, a.cfg, a.log); err != nil {
			return err
		}
	}

	rdb, err := database.NewRedisClient(a.cfg, a.log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	images, mediaDir, err := newImageStore(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	store := repository.NewGormStore(a.db)
	query := service.NewQueryEngine(store)
	deps := api.Dependencies{
		DB:            a.db,
		Redis:         rdb,
		Gatherer:      registry,
		Auth:          service.NewAuthService(store, a.cfg.JWTSecret, a.cfg.TokenTTL, rdb, a.log),
		Recipes:       service.NewRecipeService(store, images, recorder, a.log),
		Subscriptions: service.NewSubscriptionService(store, query, recorder, a.log),
		Memberships:   service.NewMembershipService(store, recorder, a.log),
		Catalog:       service.NewCatalogService(store),
		ShoppingList:  service.NewShoppingListService(query, recorder),
		Query:         query,
		RecipeWriteLimiter: middleware.NewRecipeWriteRateLimiter(
			rdb, a.cfg.RecipeWriteLimit, a.cfg.RecipeWriteWindow, a.log,
		),
	}

	srv := server.New(a.cfg, a.log, deps, server.Options{MediaDir: mediaDir, Recorder: recorder})
	return srv.Run(ctx)
}

// newImageStore picks S3 when a bucket is configured and the local media
// directory otherwise. The returned directory is empty for S3.
func newImageStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.ImageStore, string, error) {
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("configure s3: %w", err)
		}
		log.Info("storing images in s3", slog.String("bucket", cfg.S3Bucket))
		return service.NewS3ImageStore(s3Config), "", nil
	}
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create media directory: %w", err)
	}
	log.Info("storing images on disk", slog.String("dir", cfg.MediaDir))
	return service.NewLocalImageStore(cfg.MediaDir), cfg.MediaDir, nil
}
