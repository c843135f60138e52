package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benchprep/benchprep/internal/catalog"
	catalogpostgres "github.com/benchprep/benchprep/internal/catalog/postgres"
	"github.com/benchprep/benchprep/internal/config"
	"github.com/benchprep/benchprep/internal/materialize"
	"github.com/benchprep/benchprep/internal/observability"
	"github.com/benchprep/benchprep/internal/storage"
	s3store "github.com/benchprep/benchprep/internal/storage/s3"
	tpchduckdb "github.com/benchprep/benchprep/internal/tpch/duckdb"
)

func main() {
	cfg, err := config.LoadFromEnv("benchprep-generate")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo catalog.Repository
	if cfg.Catalog.DSN != "" {
		db, err := catalogpostgres.Open(ctx, cfg.Catalog)
		if err != nil {
			logger.Error("failed to open catalog db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		repo = catalogpostgres.NewRepository(db)
		if err := repo.HealthCheck(ctx); err != nil {
			logger.Error("catalog health check failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var store storage.ObjectStore
	if cfg.ObjectStore.UploadEnabled {
		s3, err := s3store.New(ctx, s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		store = s3
	}

	service := &materialize.Service{
		Engine:      tpchduckdb.NewEngine(),
		Catalog:     repo,
		ObjectStore: store,
		Config: materialize.Config{
			ScaleFactor: cfg.Generate.ScaleFactor,
			OutputDir:   cfg.Generate.OutputDir,
			DatasetName: cfg.Generate.DatasetName,
			CreatedBy:   cfg.Generate.CreatedBy,
		},
		Logger: logger,
	}

	start := time.Now()
	if _, err := service.Run(ctx); err != nil {
		logger.Error("materialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	observability.ObserveRunDuration("benchprep-generate", time.Since(start))

	if cfg.Observability.MetricsFile != "" {
		if err := observability.WriteMetricsFile(cfg.Observability.MetricsFile); err != nil {
			logger.Error("failed to write metrics file", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
