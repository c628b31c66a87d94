// Package bootstrap builds the infrastructure shared by the commands.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/brickco/brickco-api/internal/infrastructure/config"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/brickco/brickco-api/internal/infrastructure/database/postgres"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// OpenStore returns the Postgres store when DATABASE_URL is set and the
// in-memory store otherwise. The returned close func is never nil.
func OpenStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.UnitOfWork, func() error, error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("using postgres store")
		return postgres.NewStore(db), closeDB(db), nil
	}

	if cfg.DataFile != "" {
		store, err := inmemory.Open(cfg.DataFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open data file: %w", err)
		}
		log.Info("using in-memory store", zap.String("data_file", cfg.DataFile))
		return store, noClose, nil
	}

	log.Warn("DATABASE_URL and DATA_FILE are not set, data will not survive a restart")
	return inmemory.NewStore(), noClose, nil
}

func closeDB(db *sql.DB) func() error {
	return db.Close
}

func noClose() error { return nil }

// Recorder returns the CloudWatch recorder when enabled and a no-op
// recorder otherwise. Publishing failures are logged, never returned.
func Recorder(ctx context.Context, cfg config.Config, log *zap.Logger) (metrics.Recorder, error) {
	if !cfg.CloudWatchEnabled {
		return metrics.Nop{}, nil
	}
	onError := func(err error) {
		log.Warn("failed to publish metric", zap.Error(err))
	}
	cw, err := metrics.NewCloudWatch(ctx, cfg.AWSRegion, cfg.AWSEndpoint, cfg.CloudWatchNamespace, onError)
	if err != nil {
		return nil, fmt.Errorf("cloudwatch: %w", err)
	}
	log.Info("publishing metrics to cloudwatch", zap.String("namespace", cfg.CloudWatchNamespace))
	return cw, nil
}
