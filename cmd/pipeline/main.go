package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/config"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/dataprocessing"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/infrastructure"
)

func main() {
	force := flag.Bool("force", false, "rebuild the cache even when it is fresher than the inputs")
	accidents := flag.String("accidents", "", "path to the accidents CSV (overrides configuration)")
	bikers := flag.String("bikers", "", "path to the bikers CSV (overrides configuration)")
	flag.Parse()

	// Optional .env overlay for local development
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *accidents != "" {
		cfg.Paths.AccidentsFile = *accidents
	}
	if *bikers != "" {
		cfg.Paths.BikersFile = *bikers
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := dataprocessing.NewPipeline(cfg, logger)
	result, err := pipeline.Run(ctx, *force)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Pipeline interrupted")
			os.Exit(130)
		}
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if result.Skipped {
		logger.Info("Cache is up to date, nothing to do",
			slog.String("cache", cfg.Paths.CacheFile))
		return
	}

	logger.Info("Pipeline completed",
		slog.Int("rows", result.Rows),
		slog.Int("defects", result.Quality.Defects()),
		slog.String("duration", result.Duration.String()),
		slog.String("cache", cfg.Paths.CacheFile))
}
