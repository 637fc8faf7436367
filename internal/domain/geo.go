package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// pointTextRe matches the map picker's "lat, lon" text, e.g. "41.012345, 28.976543".
var pointTextRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[,;]\s*(-?\d+(?:\.\d+)?)\s*$`)

// GeoPoint is a WGS-84 latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Validate rejects non-finite and out-of-range coordinates. Values are never clamped.
func (p GeoPoint) Validate() error {
	switch {
	case math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0):
		return &InvalidInputError{Field: "latitude", Value: p.Lat, Reason: "not a finite number"}
	case math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0):
		return &InvalidInputError{Field: "longitude", Value: p.Lon, Reason: "not a finite number"}
	case p.Lat < -90 || p.Lat > 90:
		return &InvalidInputError{Field: "latitude", Value: p.Lat, Reason: "outside [-90, 90]"}
	case p.Lon < -180 || p.Lon > 180:
		return &InvalidInputError{Field: "longitude", Value: p.Lon, Reason: "outside [-180, 180]"}
	}
	return nil
}

// ValidatePoint is Validate for an optional point; nil is invalid.
func ValidatePoint(p *GeoPoint) error {
	if p == nil {
		return &InvalidInputError{Field: "coordinates", Value: nil, Reason: "missing"}
	}
	return p.Validate()
}

// planarDistance is the Euclidean distance in degrees.
func planarDistance(a, b GeoPoint) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

// ParseGeoPoint parses "lat, lon" text. The result is validated.
func ParseGeoPoint(s string) (GeoPoint, error) {
	matches := pointTextRe.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 3 {
		return GeoPoint{}, &InvalidInputError{Field: "location", Value: s, Reason: `expected "lat, lon"`}
	}
	lat, errLat := strconv.ParseFloat(matches[1], 64)
	lon, errLon := strconv.ParseFloat(matches[2], 64)
	if errLat != nil || errLon != nil {
		return GeoPoint{}, &InvalidInputError{Field: "location", Value: s, Reason: "unparseable number"}
	}
	p := GeoPoint{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// BoundingBox is an axis-aligned latitude/longitude rectangle. Edges are inclusive.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// BoxAround returns the zero-area box at p.
func BoxAround(p GeoPoint) BoundingBox {
	return BoundingBox{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
}

// Contains reports whether p lies inside the box or on its edge.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Extend returns the smallest box covering both b and p.
func (b BoundingBox) Extend(p GeoPoint) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(b.MinLat, p.Lat),
		MinLon: math.Min(b.MinLon, p.Lon),
		MaxLat: math.Max(b.MaxLat, p.Lat),
		MaxLon: math.Max(b.MaxLon, p.Lon),
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}
