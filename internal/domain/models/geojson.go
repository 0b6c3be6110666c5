package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
	ErrMalformedGeometry   = errors.New("malformed geometry coordinates")
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Geometry keeps coordinates undecoded until their nesting depth is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Position is [longitude, latitude] with an optional altitude.
type Position []float64

func (p Position) Lon() float64 { return p[0] }
func (p Position) Lat() float64 { return p[1] }

// Valid reports whether p has at least two members within WGS84 ranges.
func (p Position) Valid() bool {
	if len(p) < 2 {
		return false
	}
	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}

// DecodedGeometry flattens any geometry into paths of positions.
type DecodedGeometry struct {
	Type  string
	Paths [][]Position
}

func (d DecodedGeometry) PositionCount() int {
	n := 0
	for _, p := range d.Paths {
		n += len(p)
	}
	return n
}

// IsLine reports whether consecutive positions of each path form a track.
func (d DecodedGeometry) IsLine() bool {
	return d.Type == "LineString" || d.Type == "MultiLineString"
}

func (g *Geometry) Decode() (DecodedGeometry, error) {
	out := DecodedGeometry{Type: g.Type}

	switch g.Type {
	case "Point":
		var p Position
		if err := json.Unmarshal(g.Coordinates, &p); err != nil {
			return out, fmt.Errorf("%w: %s", ErrMalformedGeometry, g.Type)
		}
		out.Paths = [][]Position{{p}}
	case "MultiPoint", "LineString":
		var path []Position
		if err := json.Unmarshal(g.Coordinates, &path); err != nil {
			return out, fmt.Errorf("%w: %s", ErrMalformedGeometry, g.Type)
		}
		out.Paths = [][]Position{path}
	case "MultiLineString", "Polygon":
		if err := json.Unmarshal(g.Coordinates, &out.Paths); err != nil {
			return out, fmt.Errorf("%w: %s", ErrMalformedGeometry, g.Type)
		}
	case "MultiPolygon":
		var polys [][][]Position
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return out, fmt.Errorf("%w: %s", ErrMalformedGeometry, g.Type)
		}
		for _, rings := range polys {
			out.Paths = append(out.Paths, rings...)
		}
	default:
		return out, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, g.Type)
	}

	return out, nil
}
