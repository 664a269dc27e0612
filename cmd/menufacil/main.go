// Package main runs the interactive MenuFácil shell against the
// configured store.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/config"
	"github.com/atinyakov/menufacil/internal/logger"
	"github.com/atinyakov/menufacil/internal/planner"
	"github.com/atinyakov/menufacil/internal/service"
	"github.com/atinyakov/menufacil/internal/shell"
	"github.com/atinyakov/menufacil/internal/storage"
)

var (
	version   string
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("MenuFácil %s (%s)\n", cmp.Or(version, "dev"), cmp.Or(buildDate, "N/A"))
	fmt.Println("Type 'help' for a list of commands.")

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	store, closeStore, err := storage.Open(storage.Options{
		Driver: options.Driver,
		DSN:    options.DatabaseDSN,
		File:   options.StorageFile,
	})
	if err != nil {
		log.Log.Fatal("cannot open storage", zap.String("driver", options.Driver), zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	svc := service.New(store, log.Log,
		service.WithPlanner(service.NewPlanner(options.Seed, planner.Options{
			FoldAccents: options.FoldAccentsInShoppingCheck,
		})),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shell.New(svc, os.Stdin, os.Stdout, options.Window()).Run(ctx)
}
