package geospatial_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/geofunlab/internal/pkg/geospatial"
)

func TestEqualEarth_OriginMapsToCanvasCentre(t *testing.T) {
	p := geospatial.NewEqualEarth(150, 800, 600)
	got := p.Project(orb.Point{0, 0})
	assert.InDelta(t, 400, got.X(), 1e-9)
	assert.InDelta(t, 300, got.Y(), 1e-9)
}

func TestEqualEarth_Orientation(t *testing.T) {
	p := geospatial.NewEqualEarth(150, 800, 600)

	east := p.Project(orb.Point{90, 0})
	west := p.Project(orb.Point{-90, 0})
	north := p.Project(orb.Point{0, 45})
	south := p.Project(orb.Point{0, -45})

	assert.Greater(t, east.X(), 400.0)
	assert.Less(t, west.X(), 400.0)
	assert.InDelta(t, 800-east.X(), west.X(), 1e-9, "symmetric about the prime meridian")
	assert.Less(t, north.Y(), 300.0, "north is up")
	assert.Greater(t, south.Y(), 300.0)
}

func TestEqualEarth_KnownValue(t *testing.T) {
	// d3.geoEqualEarth().scale(150).translate([400, 300])([180, 0]) ≈ [805.99, 300]
	p := geospatial.NewEqualEarth(150, 800, 600)
	got := p.Project(orb.Point{180, 0})
	assert.InDelta(t, 805.99, got.X(), 0.01)
	assert.InDelta(t, 300, got.Y(), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, geospatial.Clamp(0.2, 1, 8))
	assert.Equal(t, 8.0, geospatial.Clamp(10, 1, 8))
	assert.Equal(t, 3.0, geospatial.Clamp(3, 1, 8))
}
