package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/city-snapshot/internal/api/http"
	"github.com/i474232898/city-snapshot/internal/config"
	"github.com/i474232898/city-snapshot/internal/llm"
	"github.com/i474232898/city-snapshot/internal/scheduler"
	"github.com/i474232898/city-snapshot/internal/snapshot"
	"github.com/i474232898/city-snapshot/internal/snapshot/sources"
	"github.com/i474232898/city-snapshot/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("service", "city-snapshot")
	slog.SetDefault(slogger)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	city := cfg.City
	gemini := llm.NewGeminiClient(httpClient, cfg.GeminiAPIKey, cfg.GeminiModel)

	aggregator := snapshot.NewAggregator(snapshot.Sources{
		Weather:   sources.NewOpenWeatherSource(httpClient, cfg.OpenWeatherAPIKey, city.Centre),
		Traffic:   sources.NewTomTomSource(httpClient, cfg.TomTomAPIKey, city.RouteFrom, city.RouteTo),
		Metro:     sources.NewMetroSource(city.TimeZone),
		Sentiment: sources.NewSentimentSource(httpClient, gemini, city.Name, slogger),
		Flights:   sources.NewOpenSkySource(httpClient, city.Airspace),
	}, cfg.HTTPTimeout, slogger).WithRunScope(sources.WithCircuits)

	fileStore := store.NewFileStore(cfg.OutputPath)
	sinks := []snapshot.Sink{fileStore}
	if cfg.R2.Enabled() {
		r2, err := store.NewR2Store(context.Background(), cfg.R2.Settings())
		if err != nil {
			log.Fatalf("failed to configure r2 mirror: %v", err)
		}
		sinks = append(sinks, r2)
	}

	service := snapshot.NewService(aggregator, sinks, slogger)

	// Five sequential source calls plus persistence.
	runTimeout := 6*cfg.HTTPTimeout + 10*time.Second

	if !cfg.Scheduled() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := service.FetchAndStore(ctx); err != nil {
			slogger.Error("snapshot update failed", "error", err)
			cancel()
			os.Exit(1)
		}
		slogger.Info("snapshot update complete", "path", fileStore.Path())
		return
	}

	// Without an interval Start refreshes once before the server comes up.
	sched := scheduler.New(cfg.RefreshInterval, runTimeout, service, slogger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	var app *fiber.App
	if cfg.Port != "" {
		app = fiber.New(fiber.Config{
			AppName:               "city-snapshot",
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          10 * time.Second,
			ErrorHandler:          httpapi.ErrorHandler,
		})

		app.Use(logger.New())
		app.Use(recover.New())

		httpapi.RegisterRoutes(app, fileStore)

		go func() {
			if err := app.Listen(":" + cfg.Port); err != nil {
				slogger.Error("fiber server stopped", "error", err)
			}
		}()
	}

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slogger.Error("error during shutdown", "error", err)
		}
	}
}
