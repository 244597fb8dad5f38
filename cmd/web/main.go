package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/app"
)

func main() {
	// Optional .env overlay for local development
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
