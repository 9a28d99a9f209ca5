package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deveshc20/cricket-auction/internal/clock"
	"github.com/deveshc20/cricket-auction/internal/config"
	"github.com/deveshc20/cricket-auction/internal/engine"
	"github.com/deveshc20/cricket-auction/internal/health"
	"github.com/deveshc20/cricket-auction/internal/httpapi"
	"github.com/deveshc20/cricket-auction/internal/ledger"
	"github.com/deveshc20/cricket-auction/internal/store"
	"github.com/deveshc20/cricket-auction/internal/telemetry"

	// Register store drivers so they are available via store.Open.
	_ "github.com/deveshc20/cricket-auction/internal/store/sqlitestore"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}

	stores, err := store.Open(ctx, cfg.Database, clk)
	if err != nil {
		return fmt.Errorf("opening event store (driver=%s): %w", cfg.Database.Driver, err)
	}
	defer stores.Closer.Close()

	logger.InfoContext(ctx, "event store ready", slog.String("driver", cfg.Database.Driver))

	session := engine.NewSession(engine.Config{
		Limits: ledger.Limits{
			MinTeams:  cfg.Auction.MinTeams,
			MaxTeams:  cfg.Auction.MaxTeams,
			MinBudget: cfg.Auction.MinBudget,
		},
		Countdown: time.Duration(cfg.Auction.CountdownSeconds) * time.Second,
	}, stores.Events, logger, tp.TracerProvider, clk, rand.New(rand.NewSource(clk.Now().UnixNano())))

	healthHandler := health.NewHandler(clk,
		health.Checker{
			Name:  "events",
			Check: stores.Ping,
		},
	)

	handlers := httpapi.NewHandlers(session, stores.Events, logger, tp.TracerProvider)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           httpapi.Routes(handlers, healthHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting HTTP server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			logger.ErrorContext(ctx, "http server error", slog.Any("error", listenErr))
			cancel()
		}
	}()

	healthHandler.SetReady(true)
	logger.InfoContext(ctx, "auctiond is running",
		slog.String("version", version),
		slog.String("session_id", session.ID()),
	)

	// Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down...")

	healthHandler.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
