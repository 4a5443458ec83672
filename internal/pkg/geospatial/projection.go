package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

// Equal Earth polynomial coefficients (Šavrič, Patterson & Jenny, 2018).
const (
	eeA1 = 1.340264
	eeA2 = -0.081106
	eeA3 = 0.000893
	eeA4 = 0.003796
)

var eeM = math.Sqrt(3) / 2

// Projection maps lon/lat degrees onto a 2D canvas using the Equal Earth
// projection. Screen y grows downwards.
type Projection struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// NewEqualEarth returns a projection of the given scale centred on a
// width x height canvas.
func NewEqualEarth(scale, width, height float64) Projection {
	return Projection{Scale: scale, TranslateX: width / 2, TranslateY: height / 2}
}

// Project converts a (lng, lat) point in degrees to canvas coordinates.
func (p Projection) Project(pt orb.Point) orb.Point {
	x, y := equalEarthRaw(toRad(pt.Lon()), toRad(pt.Lat()))
	return orb.Point{p.TranslateX + p.Scale*x, p.TranslateY - p.Scale*y}
}

func equalEarthRaw(lambda, phi float64) (float64, float64) {
	l := math.Asin(eeM * math.Sin(phi))
	l2 := l * l
	l6 := l2 * l2 * l2
	x := lambda * math.Cos(l) / (eeM * (eeA1 + 3*eeA2*l2 + l6*(7*eeA3+9*eeA4*l2)))
	y := l * (eeA1 + eeA2*l2 + l6*(eeA3+eeA4*l2))
	return x, y
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
