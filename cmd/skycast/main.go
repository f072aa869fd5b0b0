package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/skycast-app/skycast/internal/api/http"
	"github.com/skycast-app/skycast/internal/config"
	"github.com/skycast-app/skycast/internal/location"
	"github.com/skycast-app/skycast/internal/notify"
	"github.com/skycast-app/skycast/internal/scheduler"
	"github.com/skycast-app/skycast/internal/store"
	"github.com/skycast-app/skycast/internal/weather"
	"github.com/skycast-app/skycast/internal/weather/openweather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Durable cache for the last snapshot and the favorites list.
	cache, err := store.Open(cfg.CachePath)
	if err != nil {
		log.Fatalf("failed to open cache: %v", err)
	}
	defer cache.Close()

	// Weather provider client.
	client := openweather.NewClient(httpClient, cfg.OpenWeatherAPIKey)

	// Location resolution: only attempted when a device fix is
	// configured; otherwise every resolution answers the default city.
	var gate location.PermissionGate
	var fix location.FixSource
	if cfg.DeviceLat != nil && cfg.DeviceLon != nil {
		gate = location.Granted{}
		fix = location.StaticFix{Lat: *cfg.DeviceLat, Lon: *cfg.DeviceLon}
	}
	resolver := location.NewResolver(gate, fix, client, cfg.DefaultCity)
	if cfg.GeocoderAPIKey != "" {
		resolver.UseGeocoder(cfg.GeocoderAPIKey)
	}

	// Alert dispatch with recorded outcomes.
	dispatcher := notify.NewLogDispatcher()

	// Core pipeline orchestrating fetch, cache, and alerting.
	pipeline := weather.NewPipeline(client, cache, resolver, dispatcher, cfg.AlertPolicy)

	// Background forced refresh keeps cached data warm.
	sched := scheduler.New(pipeline, cfg.DefaultCity, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, pipeline)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
