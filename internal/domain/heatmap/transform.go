// Package heatmap converts loosely-typed clustered events from the spatial
// clustering service into strictly-valid GeoJSON point features.
package heatmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Drop reasons for per-event validation failures. Used as metrics labels.
const (
	DropNotMapping     = "not_mapping"
	DropBadCoordinates = "bad_coordinates"
	DropNotNumeric     = "not_numeric"
	DropOutOfRange     = "out_of_range"
)

// DropFunc is notified for every event discarded during transformation.
type DropFunc func(reason string)

// FeatureCollection transforms raw clustered events into a GeoJSON
// FeatureCollection. Events failing validation are dropped silently and
// reported through dropped (which may be nil); the output preserves the
// input order of the surviving events. An empty result is valid.
func FeatureCollection(events []any, dropped DropFunc) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(events))
	for _, raw := range events {
		f, reason := feature(raw)
		if reason != "" {
			if dropped != nil {
				dropped(reason)
			}
			continue
		}
		features = append(features, f)
	}
	return &geojson.FeatureCollection{Features: features}
}

// feature validates a single event and builds its GeoJSON feature.
// Returns a non-empty drop reason on the first failed check.
func feature(raw any) (*geojson.Feature, string) {
	event, ok := raw.(map[string]any)
	if !ok {
		return nil, DropNotMapping
	}

	coords, ok := event["coordinates"].([]any)
	if !ok || len(coords) != 2 {
		return nil, DropBadCoordinates
	}

	lon, ok := toFloat(coords[0])
	if !ok {
		return nil, DropNotNumeric
	}
	lat, ok := toFloat(coords[1])
	if !ok {
		return nil, DropNotNumeric
	}

	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return nil, DropOutOfRange
	}

	return &geojson.Feature{
		Geometry: geom.NewPointFlat(geom.XY, []float64{lon, lat}),
		Properties: map[string]any{
			"id":         stringProp(event, "id"),
			"text":       stringProp(event, "text"),
			"timestamp":  stringProp(event, "timestamp"),
			"location":   stringProp(event, "location"),
			"cluster_id": event["cluster_id"], // passthrough, null when absent
		},
	}, ""
}

// toFloat converts a JSON value to a float64. Numbers and numeric strings
// are accepted; booleans, nulls, and composites are not.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// stringProp returns the event field as a string. Absent and null values
// become the empty string; non-string scalars are stringified.
func stringProp(event map[string]any, key string) string {
	v, ok := event[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
