package cartography

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/pkg/geospatial"
)

// Camera limits.
const (
	MinZoom     = 1.0
	MaxZoom     = 8.0
	DefaultZoom = 1.4
)

var (
	// DefaultCenter is the neutral whole-world view used without a location.
	DefaultCenter = orb.Point{0, 20}

	// TranslateExtent bounds panning, in projected map units.
	TranslateExtent = orb.Bound{Min: orb.Point{-1000, -500}, Max: orb.Point{1000, 500}}
)

// Camera is the map's centre (lng, lat) and zoom level.
type Camera struct {
	Center orb.Point
	Zoom   float64
}

// DeriveCamera computes the camera for a challenge location. A nil location
// yields the default whole-world camera.
func DeriveCamera(loc *domain.GeoPoint) Camera {
	if loc == nil {
		return Camera{Center: DefaultCenter, Zoom: ClampZoom(DefaultZoom)}
	}
	return Camera{
		Center: orb.Point{loc.Lng, loc.Lat},
		Zoom:   ClampZoom(loc.Zoom),
	}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return geospatial.Clamp(z, MinZoom, MaxZoom)
}

// Transform maps projected coordinates to the screen: screen = K*p + (X, Y).
type Transform struct {
	K float64
	X float64
	Y float64
}

// SVG renders the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%s %s) scale(%s)", fmtNum(t.X), fmtNum(t.Y), fmtNum(t.K))
}

func (t Transform) invertX(x float64) float64 { return (x - t.X) / t.K }
func (t Transform) invertY(y float64) float64 { return (y - t.Y) / t.K }

// translate shifts the transform by (dx, dy) projected units.
func (t Transform) translate(dx, dy float64) Transform {
	return Transform{K: t.K, X: t.X + t.K*dx, Y: t.Y + t.K*dy}
}

// Constrain keeps a width x height viewport inside extent, following the
// d3-zoom rule: centre the view along an axis where the extent is smaller
// than the viewport, otherwise pull the nearest edge back in.
func Constrain(t Transform, width, height float64, extent orb.Bound) Transform {
	dx0 := t.invertX(0) - extent.Min.X()
	dx1 := t.invertX(width) - extent.Max.X()
	dy0 := t.invertY(0) - extent.Min.Y()
	dy1 := t.invertY(height) - extent.Max.Y()
	return t.translate(constrainAxis(dx0, dx1), constrainAxis(dy0, dy1))
}

func constrainAxis(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if shift := min(0, d0); shift != 0 {
		return shift
	}
	return max(0, d1)
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
