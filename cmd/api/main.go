package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brickco/brickco-api/internal/auth"
	"github.com/brickco/brickco-api/internal/bootstrap"
	"github.com/brickco/brickco-api/internal/brick"
	"github.com/brickco/brickco-api/internal/cart"
	"github.com/brickco/brickco-api/internal/customer"
	"github.com/brickco/brickco-api/internal/infrastructure/config"
	"github.com/brickco/brickco-api/internal/infrastructure/logger"
	"github.com/brickco/brickco-api/internal/interface/http/router"
	"github.com/brickco/brickco-api/internal/order"
	"github.com/brickco/brickco-api/internal/report"
	"github.com/brickco/brickco-api/internal/spend"
	"github.com/brickco/brickco-api/internal/stock"
	"go.uber.org/zap"
)

// main wires dependencies and starts the HTTP server.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	rec, err := bootstrap.Recorder(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to set up metrics", zap.Error(err))
	}

	stockService := stock.NewService(store, log, rec)
	app := router.New(log, router.Options{JWTSecret: cfg.JWTSecret, CORSOrigins: cfg.CORSOrigins}, router.Handlers{
		Auth:      auth.NewHandler(auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret), log),
		Bricks:    brick.NewHandler(brick.NewService(store, log)),
		Cart:      cart.NewHandler(cart.NewService(store, log, rec)),
		Orders:    order.NewHandler(order.NewService(store, log, rec)),
		Customers: customer.NewHandler(customer.NewService(store, log)),
		Spends:    spend.NewHandler(spend.NewService(store, log)),
		Stock:     stock.NewHandler(stockService),
		Reports:   report.NewHandler(report.NewService(store)),
	})

	go stockService.RunReconciler(ctx, cfg.ReconcileInterval)

	go func() {
		<-ctx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
