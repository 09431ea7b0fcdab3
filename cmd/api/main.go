package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"volunteerHub/internal/app"
	"volunteerHub/internal/config"
	"volunteerHub/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yml when present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: stopped with error", err)
		return err
	}
	logger.Info("App: stopped")
	return nil
}
