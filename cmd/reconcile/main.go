// Command reconcile checks every brick's stock against its ledger once and
// exits with status 1 when any brick has drifted.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/brickco/brickco-api/internal/bootstrap"
	"github.com/brickco/brickco-api/internal/infrastructure/config"
	"github.com/brickco/brickco-api/internal/infrastructure/logger"
	"github.com/brickco/brickco-api/internal/stock"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		return 2
	}
	defer closeStore()

	rec, err := bootstrap.Recorder(ctx, cfg, log)
	if err != nil {
		log.Error("failed to set up metrics", zap.Error(err))
		return 2
	}

	rep, err := stock.NewService(store, log, rec).Reconcile(ctx)
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		return 2
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		log.Error("failed to write report", zap.Error(err))
		return 2
	}
	if rep.Drifted > 0 {
		return 1
	}
	return 0
}
