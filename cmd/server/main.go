package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"devlinks/internal/adapter"
	"devlinks/internal/cache"
	"devlinks/internal/config"
	delivery "devlinks/internal/handler/http"
	"devlinks/internal/logger"
	"devlinks/internal/server"
	"devlinks/internal/service"
	"devlinks/internal/store"
	"devlinks/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("devlinks-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)
	tagCache := cache.NewTagCache()

	media, err := adapter.NewMediaAdapter(cfg.Media, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating media adapter")
	}

	services := service.NewServices(storages, tagCache, media, cfg, log)
	handler := delivery.NewHandler(services, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(
		workers.NewSweeper(storages.UserRepository, storages.SessionRepository, tagCache, cfg.Workers.SweepInterval, log),
	)
	background.Run(ctx)

	srv.RunServer()

	stop()
	background.Wait()
	log.Info().Msg("background workers stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
