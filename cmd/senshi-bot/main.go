package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/senshi-bot/app"
	"github.com/Black-And-White-Club/senshi-bot/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	logger := application.Observability.Provider.Logger
	logger.Info("senshi-bot started")

	if err := application.Run(ctx); err != nil {
		logger.Error("senshi-bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("senshi-bot stopped")
}
