package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/app"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/config"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/handlers"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

func main() {
	ingestOnStart := flag.Bool("ingest-on-start", false, "run one ingestion before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *ingestOnStart); err != nil {
		log.Error("server stopped with error", "err", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.Logger, ingestOnStart bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if ingestOnStart {
		if _, err := a.Ingest.Run(ctx); err != nil {
			return err
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	vacancyHandler := handlers.NewVacancyHandler(a.Vacancies, a.Ingest, log.With("component", "http"))
	vacancyHandler.Register(r.Group("/api/v1"))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
