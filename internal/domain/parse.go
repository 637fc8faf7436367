package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// millisThreshold separates Unix seconds from Unix milliseconds. Second
// timestamps stay below it until the year 33658.
const millisThreshold = 1e12

// maxUnixMagnitude bounds numeric timestamps before conversion; anything
// beyond it overflows int64 nanoseconds or lands outside years 0..9999.
const maxUnixMagnitude = 1e15

// localLayouts are accepted for timestamps without a zone offset, as written
// by datetime-local form inputs.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// knownKeys are interpreted by the parser; every other key is an attribute.
var knownKeys = map[string]struct{}{
	"id":                {},
	"coordinates":       {},
	"locationLatitude":  {},
	"locationLongitude": {},
	"location":          {},
	"timestamp":         {},
	"dateTime":          {},
	"captured_at":       {},
	"species":           {},
	"speciesLabel":      {},
	"species_label":     {},
	"attributes":        {},
}

// ParseCatchRecord decodes a catch document. Zone-less timestamps are read as UTC.
func ParseCatchRecord(data []byte) (CatchRecord, error) {
	return ParseCatchRecordIn(data, time.UTC)
}

// ParseCatchRecordIn decodes a catch document from the catch log.
//
// Coordinates come from locationLatitude/locationLongitude, a coordinates
// object, or "lat, lon" text in location, in that order of preference. They
// are not validated here; enrichment decides what to do with bad points.
// The capture time comes from timestamp, dateTime or captured_at and may be
// RFC 3339 text, Unix seconds or milliseconds, or a {seconds, nanoseconds}
// object. Zone-less text is interpreted in loc.
func ParseCatchRecordIn(data []byte, loc *time.Location) (CatchRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return CatchRecord{}, fmt.Errorf("parse catch record: %w", err)
	}
	if doc == nil {
		return CatchRecord{}, errors.New("parse catch record: document is null")
	}

	var rec CatchRecord
	var err error

	if rec.ID, err = scalarString(doc["id"]); err != nil {
		return CatchRecord{}, fmt.Errorf("parse catch record: id: %w", err)
	}
	if rec.Species, err = scalarString(doc["species"]); err != nil {
		return CatchRecord{}, fmt.Errorf("parse catch record %q: species: %w", rec.ID, err)
	}
	rec.SpeciesLabel = firstString(doc, "speciesLabel", "species_label")
	rec.Location = firstString(doc, "location")

	if rec.Coordinates, err = coordinatesOf(doc); err != nil {
		return CatchRecord{}, fmt.Errorf("parse catch record %q: %w", rec.ID, err)
	}
	if rec.Coordinates == nil && rec.Location != "" {
		if p, err := ParseGeoPoint(rec.Location); err == nil {
			rec.Coordinates = &p
		}
	}

	for _, key := range []string{"timestamp", "dateTime", "captured_at"} {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		if rec.CapturedAt, err = parseTimestamp(v, loc); err == nil {
			err = checkYear(rec.CapturedAt)
		}
		if err != nil {
			return CatchRecord{}, fmt.Errorf("parse catch record %q: %s: %w", rec.ID, key, err)
		}
		break
	}

	rec.Attributes = attributesOf(doc)
	return rec, nil
}

func coordinatesOf(doc map[string]any) (*GeoPoint, error) {
	lat, hasLat, err := numberOf(doc["locationLatitude"])
	if err != nil {
		return nil, fmt.Errorf("locationLatitude: %w", err)
	}
	lon, hasLon, err := numberOf(doc["locationLongitude"])
	if err != nil {
		return nil, fmt.Errorf("locationLongitude: %w", err)
	}
	if hasLat && hasLon {
		return &GeoPoint{Lat: lat, Lon: lon}, nil
	}

	obj, ok := doc["coordinates"].(map[string]any)
	if !ok {
		return nil, nil
	}
	lat, hasLat, err = firstNumber(obj, "lat", "latitude")
	if err != nil {
		return nil, fmt.Errorf("coordinates: %w", err)
	}
	lon, hasLon, err = firstNumber(obj, "lon", "lng", "longitude")
	if err != nil {
		return nil, fmt.Errorf("coordinates: %w", err)
	}
	if hasLat && hasLon {
		return &GeoPoint{Lat: lat, Lon: lon}, nil
	}
	return nil, nil
}

func parseTimestamp(v any, loc *time.Location) (time.Time, error) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, &InvalidInputError{Field: "timestamp", Value: s, Reason: "unrecognized format"}
	case json.Number:
		return unixTime(val)
	case map[string]any:
		secs, ok, err := firstNumber(val, "seconds", "_seconds")
		if err != nil || !ok {
			return time.Time{}, &InvalidInputError{Field: "timestamp", Value: val, Reason: "missing seconds"}
		}
		nanos, _, err := firstNumber(val, "nanoseconds", "_nanoseconds")
		if err != nil {
			return time.Time{}, err
		}
		if math.Abs(secs) >= maxUnixMagnitude {
			return time.Time{}, &InvalidInputError{Field: "timestamp", Value: val, Reason: "seconds out of range"}
		}
		return time.Unix(int64(secs), int64(nanos)).UTC(), nil
	default:
		return time.Time{}, &InvalidInputError{Field: "timestamp", Value: v, Reason: "unsupported type"}
	}
}

func unixTime(n json.Number) (time.Time, error) {
	if i, err := n.Int64(); err == nil {
		if i >= millisThreshold || i <= -millisThreshold {
			return time.UnixMilli(i).UTC(), nil
		}
		return time.Unix(i, 0).UTC(), nil
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}, &InvalidInputError{Field: "timestamp", Value: n.String(), Reason: "not a number"}
	}
	if math.Abs(f) >= maxUnixMagnitude {
		return time.Time{}, &InvalidInputError{Field: "timestamp", Value: n.String(), Reason: "out of range"}
	}
	if f >= millisThreshold || f <= -millisThreshold {
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	secs := int64(f)
	return time.Unix(secs, int64((f-float64(secs))*1e9)).UTC(), nil
}

// checkYear rejects capture times that cannot be written back as RFC 3339.
func checkYear(t time.Time) error {
	if t.IsZero() {
		return nil
	}
	for _, y := range []int{t.Year(), t.UTC().Year()} {
		if y < 0 || y > 9999 {
			return &InvalidInputError{Field: "timestamp", Value: t.UTC().Format(time.RFC3339), Reason: "year outside 0..9999"}
		}
	}
	return nil
}

// numberOf accepts JSON numbers and numeric strings. Absent, null and empty
// string values report ok=false. NaN and infinities are rejected.
func numberOf(v any) (float64, bool, error) {
	switch val := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false, &InvalidInputError{Field: "number", Value: val.String(), Reason: "not a number"}
		}
		return f, true, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, &InvalidInputError{Field: "number", Value: val, Reason: "not a number"}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, &InvalidInputError{Field: "number", Value: val, Reason: "not a finite number"}
		}
		return f, true, nil
	default:
		return 0, false, &InvalidInputError{Field: "number", Value: v, Reason: "unsupported type"}
	}
}

func firstNumber(obj map[string]any, keys ...string) (float64, bool, error) {
	for _, k := range keys {
		f, ok, err := numberOf(obj[k])
		if err != nil || ok {
			return f, ok, err
		}
	}
	return 0, false, nil
}

// scalarString renders string and numeric ids alike.
func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", &InvalidInputError{Field: "string", Value: v, Reason: "unsupported type"}
	}
}

func firstString(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func attributesOf(doc map[string]any) map[string]any {
	attrs := make(map[string]any)
	if nested, ok := doc["attributes"].(map[string]any); ok {
		for k, v := range nested {
			attrs[k] = v
		}
	}
	for k, v := range doc {
		if _, known := knownKeys[k]; known {
			continue
		}
		attrs[k] = v
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
