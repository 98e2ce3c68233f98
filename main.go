package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/buildlens/core/app/api"
	"github.com/buildlens/core/log"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger := log.New("Core").WithOutput(log.NewConsoleWriter(os.Stderr, log.Lwarn, true))

	app, err := api.New(os.Getenv("BUILDLENS_CONFIGFILE"), os.Stderr)
	if err != nil {
		logger.Error().WithError(err).Log("Failed to create new API")
		os.Exit(1)
	}

	// Wait for interrupt signal to gracefully shutdown the app
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		logger.Error().WithError(err).Log("Failed to start API")
	}

	app.Destroy()
}
