package gtfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BuildLines converts the feed into GeoJSON LineString features for map display.
//
// When shapes.txt is present every shape with at least two points becomes a
// feature annotated with its routes and a representative trip_id. Otherwise each
// trip's ordered stop coordinates are used instead. A non-empty routeFilter keeps
// only features serving at least one of the listed route_ids.
func (g *GTFSIndex) BuildLines(routeFilter []string) *geojson.FeatureCollection {
	keep := map[string]bool{}
	for _, r := range routeFilter {
		keep[r] = true
	}
	matches := func(routeIDs []string) bool {
		if len(keep) == 0 {
			return true
		}
		for _, r := range routeIDs {
			if keep[r] {
				return true
			}
		}
		return false
	}

	fc := geojson.NewFeatureCollection()
	if len(g.ShapePoints) > 0 {
		for _, shapeID := range g.ShapeIDs() {
			pts := g.ShapePoints[shapeID]
			if len(pts) < 2 {
				continue
			}
			trips := g.TripIDsForShape(shapeID)
			routeIDs := g.routesForTrips(trips)
			if !matches(routeIDs) {
				continue
			}
			f := geojson.NewFeature(toLineString(pts))
			f.Properties["shape_id"] = shapeID
			f.Properties["route_ids"] = routeIDs
			if len(routeIDs) > 0 {
				if _, ok := g.routeShortNames[routeIDs[0]]; ok {
					f.Properties["route_short_name"] = g.routeShortNames[routeIDs[0]]
					f.Properties["route_long_name"] = g.routeLongNames[routeIDs[0]]
				}
				if t, ok := g.routeTypes[routeIDs[0]]; ok {
					f.Properties["route_type"] = t
				}
			}
			if len(trips) > 0 {
				f.Properties["trip_id"] = trips[0]
			}
			fc.Append(f)
		}
		return fc
	}

	for _, tripID := range g.TripIDs() {
		wps := g.TripStopWaypoints(tripID)
		if len(wps) < 2 {
			continue
		}
		routeID := g.tripToRoute[tripID]
		if !matches([]string{routeID}) {
			continue
		}
		ls := make(orb.LineString, 0, len(wps))
		for _, wp := range wps {
			ls = append(ls, orb.Point{wp.Longitude, wp.Latitude})
		}
		f := geojson.NewFeature(ls)
		f.Properties["trip_id"] = tripID
		if routeID != "" {
			f.Properties["route_id"] = routeID
		} else {
			f.Properties["route_id"] = nil
		}
		fc.Append(f)
	}
	return fc
}

// WriteLines writes a feature collection as indented GeoJSON, creating parent directories.
func WriteLines(fc *geojson.FeatureCollection, path string) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (g *GTFSIndex) routesForTrips(trips []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range trips {
		r := g.tripToRoute[t]
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func toLineString(pts [][2]float64) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{p[0], p[1]}
	}
	return ls
}
