package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler checks map features, NATS and cache concurrently. Only the
// features resource is required; the broker and cache are optional but must
// be healthy when configured.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		var mu sync.Mutex
		checks := make(map[string]string)
		allOK := true
		report := func(name, status string, ok bool) {
			mu.Lock()
			defer mu.Unlock()
			checks[name] = status
			if !ok {
				allOK = false
			}
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if deps.Features == nil {
				report("features", "not configured", false)
				return nil
			}
			if _, err := deps.Features.Features(gctx); err != nil {
				report("features", "error: "+err.Error(), false)
				return nil
			}
			report("features", "ok", true)
			return nil
		})

		g.Go(func() error {
			switch {
			case deps.NATS == nil:
				report("nats", "not configured", true)
			case deps.NATS.IsConnected():
				report("nats", "ok", true)
			default:
				report("nats", "disconnected", false)
			}
			return nil
		})

		g.Go(func() error {
			if deps.Cache == nil {
				report("cache", "not configured", true)
				return nil
			}
			if err := deps.Cache.Ping(gctx); err != nil {
				report("cache", "error: "+err.Error(), false)
				return nil
			}
			report("cache", "ok", true)
			return nil
		})

		_ = g.Wait()

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
