package http

import (
	"bytes"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PageHandler renders the full lab page: challenge card and map panel.
func PageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		view := deps.Shell.View()

		svg, err := renderMap(ctx, deps, view.Location, deps.Map.Viewport)
		if err != nil {
			LoggerFromCtx(ctx).Warn("map features unavailable", "error", err)
		}

		var buf bytes.Buffer
		if err := writePage(&buf, view, svg); err != nil {
			return errInternal(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(buf.Bytes())
	}
}

// NewChallengeHandler is the "New Geography Challenge" action.
func NewChallengeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Shell.RequestNewChallenge(c.UserContext()); err != nil {
			return shellError(c, err)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// RevealHandler toggles the answer of the challenge on screen.
func RevealHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := deps.Shell.ToggleReveal(c.UserContext()); err != nil {
			return shellError(c, err)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ViewHandler returns the current view as JSON.
func ViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Shell.View())
	}
}

// MapHandler renders the map panel as SVG. Query params dx and dy pan the
// view in pixels; zoom overrides the camera zoom.
func MapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vp := deps.Map.Viewport
		var err error
		if vp.PanX, err = queryFloat(c, "dx"); err != nil {
			return errBadRequest(c, "dx must be a number")
		}
		if vp.PanY, err = queryFloat(c, "dy"); err != nil {
			return errBadRequest(c, "dy must be a number")
		}
		if vp.Zoom, err = queryFloat(c, "zoom"); err != nil || vp.Zoom < 0 {
			return errBadRequest(c, "zoom must be a non-negative number")
		}

		ctx := c.UserContext()
		svg, err := renderMap(ctx, deps, deps.Shell.Location(), vp)
		if svg == "" {
			return errInternal(c, "map render failed")
		}
		if err != nil {
			LoggerFromCtx(ctx).Warn("map features unavailable", "error", err)
		}

		c.Set(fiber.HeaderContentType, "image/svg+xml; charset=utf-8")
		return c.SendString(string(svg))
	}
}

// FeaturesHandler re-serves the raw map features resource.
func FeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Features == nil {
			return errUnavailable(c, "map features not configured")
		}
		raw, err := deps.Features.Raw(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("map features unavailable", "error", err)
			return errUnavailable(c, "map features unavailable")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		return c.Send(raw)
	}
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}
