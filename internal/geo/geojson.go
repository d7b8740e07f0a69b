// Package geo decodes and validates the GeoJSON payloads users upload or
// draw. Decode is the only way geometry enters the rest of the system, so
// downstream code never holds an unvalidated shape.
package geo

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrInvalidFormat is returned when a payload is not a single GeoJSON
// Feature wrapping a polygon-family geometry.
var ErrInvalidFormat = errors.New("geo: invalid GeoJSON format")

// Geometry is the nested geometry object of a Feature. Coordinates stay raw:
// the upload contract only promises a superficially well-typed Feature, and
// deeper inspection happens lazily in the measurement helpers.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a validated GeoJSON Feature of polygon or multi-polygon type.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties,omitempty"`
}

var polygonFamily = map[string]bool{
	"Polygon":      true,
	"MultiPolygon": true,
}

// Decode parses raw bytes into a Feature. It requires the top-level type to
// be "Feature" and the nested geometry to be polygon-family; coordinate ring
// closure, winding, and self-intersection are not checked.
func Decode(data []byte) (Feature, error) {
	var f Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return Feature{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if f.Type != "Feature" {
		return Feature{}, fmt.Errorf("%w: top-level type %q is not \"Feature\"", ErrInvalidFormat, f.Type)
	}
	if !polygonFamily[f.Geometry.Type] {
		return Feature{}, fmt.Errorf("%w: geometry type %q is not polygon-family", ErrInvalidFormat, f.Geometry.Type)
	}
	return f, nil
}

// rings flattens the feature's coordinates into a list of linear rings,
// regardless of Polygon vs MultiPolygon nesting. Each ring is a sequence of
// [lon, lat] positions.
func (f Feature) rings() ([][][]float64, error) {
	switch f.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("geo: decode polygon coordinates: %w", err)
		}
		return rings, nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("geo: decode multipolygon coordinates: %w", err)
		}
		var rings [][][]float64
		for _, poly := range polys {
			rings = append(rings, poly...)
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("geo: unsupported geometry type %q", f.Geometry.Type)
	}
}

// outerRings returns only the first (outer) ring of each polygon.
func (f Feature) outerRings() ([][][]float64, error) {
	switch f.Geometry.Type {
	case "Polygon":
		rings, err := f.rings()
		if err != nil {
			return nil, err
		}
		if len(rings) == 0 {
			return nil, errors.New("geo: polygon has no rings")
		}
		return rings[:1], nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("geo: decode multipolygon coordinates: %w", err)
		}
		var outers [][][]float64
		for _, poly := range polys {
			if len(poly) > 0 {
				outers = append(outers, poly[0])
			}
		}
		if len(outers) == 0 {
			return nil, errors.New("geo: multipolygon has no rings")
		}
		return outers, nil
	default:
		return nil, fmt.Errorf("geo: unsupported geometry type %q", f.Geometry.Type)
	}
}
