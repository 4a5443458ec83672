package cartography

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
)

type topology struct {
	Transform *topoTransform             `json:"transform"`
	Objects   map[string]json.RawMessage `json:"objects"`
	Arcs      [][][]float64              `json:"arcs"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoGeometry struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Arcs       json.RawMessage        `json:"arcs"`
	Geometries []topoGeometry         `json:"geometries"`
}

func decodeTopology(data []byte, object string) ([]Feature, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}

	raw, ok := topo.Objects[object]
	if !ok {
		names := make([]string, 0, len(topo.Objects))
		for name := range topo.Objects {
			names = append(names, name)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("decode topology: no objects")
		}
		sort.Strings(names)
		raw = topo.Objects[names[0]]
	}

	var root topoGeometry
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode topology object: %w", err)
	}

	arcs := absoluteArcs(topo.Arcs, topo.Transform)
	var out []Feature
	if err := collect(&out, root, arcs); err != nil {
		return nil, err
	}
	return out, nil
}

// absoluteArcs undoes quantization and delta encoding.
func absoluteArcs(arcs [][][]float64, tr *topoTransform) [][]orb.Point {
	out := make([][]orb.Point, len(arcs))
	for i, arc := range arcs {
		pts := make([]orb.Point, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if tr == nil {
				pts = append(pts, orb.Point{pos[0], pos[1]})
				continue
			}
			x += pos[0]
			y += pos[1]
			pts = append(pts, orb.Point{
				x*tr.Scale[0] + tr.Translate[0],
				y*tr.Scale[1] + tr.Translate[1],
			})
		}
		out[i] = pts
	}
	return out
}

func collect(out *[]Feature, g topoGeometry, arcs [][]orb.Point) error {
	var geom orb.Geometry
	switch g.Type {
	case "GeometryCollection":
		for _, child := range g.Geometries {
			if err := collect(out, child, arcs); err != nil {
				return err
			}
		}
		return nil
	case "Polygon":
		var idx [][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("decode polygon arcs: %w", err)
		}
		poly, err := polygon(idx, arcs)
		if err != nil {
			return err
		}
		geom = poly
	case "MultiPolygon":
		var idx [][][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("decode multipolygon arcs: %w", err)
		}
		mp := make(orb.MultiPolygon, 0, len(idx))
		for _, p := range idx {
			poly, err := polygon(p, arcs)
			if err != nil {
				return err
			}
			mp = append(mp, poly)
		}
		geom = mp
	default:
		// points, lines and null geometries have no fill
		return nil
	}

	name, _ := g.Properties["name"].(string)
	*out = append(*out, Feature{
		Key:      "geo-" + strconv.Itoa(len(*out)),
		ID:       idString(g.ID),
		Name:     name,
		Geometry: geom,
	})
	return nil
}

func polygon(rings [][]int, arcs [][]orb.Point) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ring, err := stitch(r, arcs)
		if err != nil {
			return nil, err
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

// stitch joins arcs into a ring. A negative index i refers to arc ^i
// traversed backwards; consecutive arcs share their joining point.
func stitch(indexes []int, arcs [][]orb.Point) (orb.Ring, error) {
	var ring orb.Ring
	for n, i := range indexes {
		j := i
		if i < 0 {
			j = ^i
		}
		if j >= len(arcs) {
			return nil, fmt.Errorf("topology arc %d out of range (%d arcs)", i, len(arcs))
		}
		pts := arcs[j]
		if i < 0 {
			pts = reversed(pts)
		}
		if n > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		ring = append(ring, pts...)
	}
	return ring, nil
}

func reversed(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
