package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/justsurfingit/hh-vacancy-tracker/internal/app"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/config"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/menu"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

func main() {
	skipIngest := flag.Bool("skip-ingest", false, "open the menu on existing data without fetching")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *skipIngest); err != nil {
		log.Error("fatal error", "err", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.Logger, skipIngest bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if !skipIngest {
		if _, err := a.Ingest.Run(ctx); err != nil {
			return err
		}
	}

	return menu.New(a.Vacancies, os.Stdin, os.Stdout, log.With("component", "menu")).Run(ctx)
}
