package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/samirrijal/geofunlab/internal/adapters/http"
)

func TestCachingMiddleware_KeepsHandlerCacheControl(t *testing.T) {
	app := fiber.New()
	app.Use(handler.CachingMiddleware())
	app.Get("/v1/view", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.SendString("{}")
	})
	app.Get("/v1/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/view", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	// a client's own Cache-Control request header does not suppress the default
	req := httptest.NewRequest("GET", "/v1/health", nil)
	req.Header.Set(fiber.HeaderCacheControl, "max-age=0")
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "public, max-age=10", resp.Header.Get(fiber.HeaderCacheControl))
}
