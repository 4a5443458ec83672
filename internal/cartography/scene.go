package cartography

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/pkg/geospatial"
)

// Canvas defaults, matching a 150-scale Equal Earth world on 800x600.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	DefaultScale  = 150.0
)

// MarkerOffset lifts the marker above the point it marks.
const MarkerOffset = -12.0

// Viewport describes the canvas and any user pan/zoom on top of the camera.
// Pan is in screen pixels. A zero Zoom keeps the camera's zoom.
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
	PanX   float64
	PanY   float64
	Zoom   float64
}

// DefaultViewport is the unpanned default canvas.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultWidth, Height: DefaultHeight, Scale: DefaultScale}
}

func (v Viewport) withDefaults() Viewport {
	if v.Width <= 0 {
		v.Width = DefaultWidth
	}
	if v.Height <= 0 {
		v.Height = DefaultHeight
	}
	if v.Scale <= 0 {
		v.Scale = DefaultScale
	}
	return v
}

// FeaturePath is a projected feature ready to draw.
type FeaturePath struct {
	Key  string
	Name string
	D    string
}

// Marker is the projected position of the challenge location.
type Marker struct {
	X float64
	Y float64
}

// Scene is everything needed to draw one map frame.
type Scene struct {
	Width     float64
	Height    float64
	Camera    Camera
	Transform Transform
	Features  []FeaturePath
	Marker    *Marker
	Style     FeatureStyle
}

// Render projects features and the optional location into a Scene. It reads
// loc but never retains or mutates it.
func Render(features []Feature, loc *domain.GeoPoint, vp Viewport) Scene {
	vp = vp.withDefaults()
	proj := geospatial.NewEqualEarth(vp.Scale, vp.Width, vp.Height)

	cam := DeriveCamera(loc)
	if vp.Zoom > 0 {
		cam.Zoom = ClampZoom(vp.Zoom)
	}

	c := proj.Project(cam.Center)
	t := Transform{
		K: cam.Zoom,
		X: vp.Width/2 - c.X()*cam.Zoom + vp.PanX,
		Y: vp.Height/2 - c.Y()*cam.Zoom + vp.PanY,
	}
	t = Constrain(t, vp.Width, vp.Height, TranslateExtent)

	scene := Scene{
		Width:     vp.Width,
		Height:    vp.Height,
		Camera:    cam,
		Transform: t,
		Features:  make([]FeaturePath, 0, len(features)),
		Style:     DefaultStyle,
	}
	for _, f := range features {
		d := pathData(proj, f.Geometry)
		if d == "" {
			continue
		}
		scene.Features = append(scene.Features, FeaturePath{Key: f.Key, Name: f.Name, D: d})
	}

	if loc != nil {
		p := proj.Project(orb.Point{loc.Lng, loc.Lat})
		scene.Marker = &Marker{X: p.X(), Y: p.Y()}
	}
	return scene
}

func pathData(proj geospatial.Projection, g orb.Geometry) string {
	var b strings.Builder
	switch geom := g.(type) {
	case orb.Polygon:
		writePolygon(&b, proj, geom)
	case orb.MultiPolygon:
		for _, poly := range geom {
			writePolygon(&b, proj, poly)
		}
	}
	return b.String()
}

func writePolygon(b *strings.Builder, proj geospatial.Projection, poly orb.Polygon) {
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		for i, pt := range ring {
			p := proj.Project(pt)
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(fmtNum(p.X()))
			b.WriteByte(',')
			b.WriteString(fmtNum(p.Y()))
		}
		b.WriteByte('Z')
	}
}
