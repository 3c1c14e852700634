package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"alcyxob/fitness-tracker/internal/app"
	"alcyxob/fitness-tracker/internal/cli"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load config")
	}
	// Keep diagnostics off the interactive stream.
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console", Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not initialize application")
	}
	defer application.Close()

	err = cli.Run(ctx, os.Stdin, os.Stdout, cli.Services{
		Auth:     application.Services.Auth,
		Users:    application.Services.Users,
		Workouts: application.Services.Workouts,
		Goals:    application.Services.Goals,
		Codec:    application.Codec,
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Console stopped")
	}
}
