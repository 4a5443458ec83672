package domain

// Coordinate ranges accepted for a challenge location (WGS 84).
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLng = -180.0
	MaxLng = 180.0
)

// GeoPoint is a location of interest plus the zoom wanted when the map is
// centred on it.
type GeoPoint struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// Valid reports whether every field is inside its range.
func (p GeoPoint) Valid() bool {
	return p.Lat >= MinLat && p.Lat <= MaxLat &&
		p.Lng >= MinLng && p.Lng <= MaxLng &&
		p.Zoom > 0
}

// rawGeoPoint mirrors GeoPoint with optional fields so that missing keys can
// be told apart from zero values.
type rawGeoPoint struct {
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Zoom *float64 `json:"zoom"`
}

// normalizeLocation returns a GeoPoint only when all three fields are
// present and in range. Anything else is treated as no location at all.
func normalizeLocation(raw *rawGeoPoint) *GeoPoint {
	if raw == nil || raw.Lat == nil || raw.Lng == nil || raw.Zoom == nil {
		return nil
	}
	p := GeoPoint{Lat: *raw.Lat, Lng: *raw.Lng, Zoom: *raw.Zoom}
	if !p.Valid() {
		return nil
	}
	return &p
}
