// Package main starts the MenuFácil HTTP API: it loads configuration,
// sets up logging and the key-value store, builds the service and serves
// the JSON routes until interrupted.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/config"
	"github.com/atinyakov/menufacil/internal/logger"
	"github.com/atinyakov/menufacil/internal/pantry"
	"github.com/atinyakov/menufacil/internal/planner"
	"github.com/atinyakov/menufacil/internal/server/handler/http"
	"github.com/atinyakov/menufacil/internal/service"
	"github.com/atinyakov/menufacil/internal/storage"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	// Open the key-value store backing every collection.
	store, closeStore, err := storage.Open(storage.Options{
		Driver: options.Driver,
		DSN:    options.DatabaseDSN,
		File:   options.StorageFile,
	})
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("driver", options.Driver), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	svc := service.New(store, zapLogger,
		service.WithPlanner(service.NewPlanner(options.Seed, planner.Options{
			FoldAccents: options.FoldAccentsInShoppingCheck,
		})),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pantry.StartExpiryWatcher(ctx, svc.State().Ingredients, options.Interval(), options.Window(), zapLogger)

	// Create HTTP handlers and the router.
	authHandler := &http.AuthHandler{AuthService: svc}
	kitchenHandler := &http.KitchenHandler{KitchenService: svc, ExpiryWindow: options.Window()}
	router := http.NewRouter(authHandler, kitchenHandler, zapLogger, options.CORSOrigins)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr), zap.String("driver", options.Driver))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
