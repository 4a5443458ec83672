package cartography

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrUnsupportedResource is returned for features resources that are neither
// a TopoJSON Topology nor a GeoJSON FeatureCollection.
var ErrUnsupportedResource = errors.New("unsupported map features resource")

// Feature is one polygon (or multi-polygon) of the world dataset.
type Feature struct {
	Key      string
	ID       string
	Name     string
	Geometry orb.Geometry
}

// DecodeFeatures reads a features resource. Topologies are converted using
// the named object, or the first object when name is empty or unknown.
// Only polygonal geometries are kept.
func DecodeFeatures(data []byte, object string) ([]Feature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}

	switch head.Type {
	case "Topology":
		return decodeTopology(data, object)
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode geojson: %w", err)
		}
		return fromFeatureCollection(fc), nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedResource, head.Type)
	}
}

func fromFeatureCollection(fc *geojson.FeatureCollection) []Feature {
	out := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if !polygonal(f.Geometry) {
			continue
		}
		out = append(out, Feature{
			Key:      "geo-" + strconv.Itoa(len(out)),
			ID:       idString(f.ID),
			Name:     f.Properties.MustString("name", ""),
			Geometry: f.Geometry,
		})
	}
	return out
}

func polygonal(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	default:
		return false
	}
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
