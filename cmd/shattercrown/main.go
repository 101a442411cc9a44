// Package main is the entry point for Shattercrown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/samdwyer/shattercrown/internal/game"
	"github.com/samdwyer/shattercrown/internal/persistence"
	"github.com/samdwyer/shattercrown/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: search for shattercrown.yaml)")
	flag.Parse()

	// Load .env for local development; env vars may also be set directly.
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug(".env file not loaded")
	}

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shattercrown: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	ctx := context.Background()

	// Telemetry is optional; the game runs without observability when the
	// exporter cannot be reached.
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logrus.WithError(err).Warn("telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logrus.WithError(err).Error("telemetry shutdown failed")
			}
		}()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shattercrown: open save store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	g, err := game.New(cfg, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shattercrown: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		logrus.WithError(err).Error("game loop failed")
	}
}

// setupLogging routes all logs to a rotated file. Stdout belongs to the
// terminal screen, so nothing may log there while the game runs.
func setupLogging(cfg *game.Config) {
	logrus.SetOutput(&lumberjack.Logger{
		Filename:   "game.log",
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	})
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// openStore builds the configured persistence backend.
func openStore(ctx context.Context, cfg *game.Config) (persistence.Store, error) {
	switch cfg.SaveBackend {
	case game.BackendPostgres:
		return persistence.NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return persistence.NewFileStore(cfg.SavePath)
	}
}
