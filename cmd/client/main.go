package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/roleauth/internal/client/api"
	"github.com/dtroode/roleauth/internal/client/cli"
	"github.com/dtroode/roleauth/internal/client/session"
	"github.com/dtroode/roleauth/internal/client/storage"
	"github.com/dtroode/roleauth/internal/config"
	"github.com/dtroode/roleauth/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewClientConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stderr, cfg.LogLevel, "text")

	db, err := storage.Open(ctx, cfg.SessionDB)
	if err != nil {
		logger.Fatal("failed to open session storage", "path", cfg.SessionDB, "error", err)
	}

	store := session.NewStore(db)
	if err := store.Hydrate(ctx); err != nil {
		logger.Fatal("failed to restore session", "error", err)
	}

	client := api.New(cfg.Endpoint, func() string { return store.Snapshot().Token })
	app := cli.NewApp(client, store, os.Stdin, os.Stdout, logger)

	err = cli.NewRootCmd(app).ExecuteContext(ctx)
	_ = db.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
