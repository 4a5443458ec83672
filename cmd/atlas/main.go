package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/geofunlab/internal/adapters/features"
	"github.com/samirrijal/geofunlab/internal/adapters/http"
	natsadapter "github.com/samirrijal/geofunlab/internal/adapters/nats"
	"github.com/samirrijal/geofunlab/internal/adapters/trivia"
	"github.com/samirrijal/geofunlab/internal/adapters/valkey"
	"github.com/samirrijal/geofunlab/internal/cartography"
	"github.com/samirrijal/geofunlab/internal/core/ports"
	"github.com/samirrijal/geofunlab/internal/core/usecases"
	"github.com/samirrijal/geofunlab/internal/pkg/config"
	"github.com/samirrijal/geofunlab/internal/pkg/logging"
	"github.com/samirrijal/geofunlab/internal/pkg/telemetry"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load("geofun-atlas")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, slog.String("service", cfg.Telemetry.ServiceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	hub := http.NewHub()
	deps := &http.Dependencies{
		Hub:      hub,
		DocsPath: cfg.Server.DocsPath,
		Map: http.MapOptions{
			PublicPath: cfg.Map.PublicPath,
			Viewport: cartography.Viewport{
				Width:  cfg.Map.Width,
				Height: cfg.Map.Height,
				Scale:  cfg.Map.Scale,
			},
		},
	}

	// Cache
	var loaderOpts []features.Option
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
			deps.Cache = cache
			loaderOpts = append(loaderOpts, features.WithCache(cache, cfg.Map.CacheTTL))
		}
	}

	// View events go through NATS when it is available so every instance
	// relays them; otherwise the hub receives them directly.
	var publisher ports.EventPublisher = hub
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, relaying views in-process", "error", err)
		} else {
			defer pub.Close()
			sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
			if err == nil {
				err = sub.SubscribeViewChanged(ctx, hub.PublishViewChanged)
			}
			if err != nil {
				slog.Warn("nats subscribe failed, relaying views in-process", "error", err)
			} else {
				defer sub.Close()
				publisher = pub
				deps.NATS = pub
			}
		}
	}

	loader := features.NewLoader(cfg.Map.Resource, cfg.Map.TopologyObject, loaderOpts...)
	deps.Features = loader

	client := trivia.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.Path, cfg.Trivia.Timeout)
	stamps, err := usecases.NewTimestampFormatter(cfg.Display.Locale, cfg.Display.Timezone)
	if err != nil {
		log.Fatalf("timestamp formatter: %v", err)
	}
	controller := usecases.NewFetchController(client, cfg.Trivia.Timeout)
	shell := usecases.NewShell(controller, publisher, stamps)
	deps.Shell = shell

	// Warm the features and ping the cache before the first page. Neither
	// is fatal: the map panel stays empty and remote bytes skip the cache.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := loader.Features(gctx); err != nil {
			slog.Warn("map features unavailable", "resource", cfg.Map.Resource, "error", err)
		}
		return nil
	})
	if deps.Cache != nil {
		g.Go(func() error {
			if err := deps.Cache.Ping(gctx); err != nil {
				slog.Warn("valkey ping failed", "addr", cfg.Valkey.Addr, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("mounting shell", "trivia", client.Endpoint())
	shell.Mount(ctx)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Geographer Fun Lab",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("atlas server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	// let an in-flight trivia request settle and its view events go out
	// before closing the publishers
	controller.Wait()
	if err := shell.Close(shutdownCtx); err != nil {
		slog.Warn("view events not flushed", "error", err)
	}

	slog.Info("server stopped")
}
