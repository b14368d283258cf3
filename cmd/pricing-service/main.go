package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/app"
	"github.com/sanoria/pricingservice/internal/config"
	"github.com/sanoria/pricingservice/internal/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info(ctx, "starting pricing service", zap.String("app_name", cfg.AppName))

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to build application", zap.Error(err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error(ctx, "application exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "pricing service stopped")
}

// loadConfig prefers the config file but falls back to environment-only
// configuration when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
