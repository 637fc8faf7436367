package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// CatchRecord is a single logged catch as stored by the catch log.
// Attributes carries every field the engine does not interpret (bait, gear,
// weight, notes, owner ...) and is passed through untouched.
type CatchRecord struct {
	ID           string         `json:"id"`
	Coordinates  *GeoPoint      `json:"coordinates"`
	CapturedAt   time.Time      `json:"captured_at"`
	Species      string         `json:"species,omitempty"`
	SpeciesLabel string         `json:"species_label,omitempty"`
	Location     string         `json:"location,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// EnvironmentalSnapshot holds the conditions at a point and instant. Every
// field is independently optional.
type EnvironmentalSnapshot struct {
	Condition        Optional[string]     `json:"condition"`
	AirTemperature   Optional[float64]    `json:"air_temperature_c"`
	WindSpeedKmh     Optional[int]        `json:"wind_speed_kmh"`
	PressureHpa      Optional[float64]    `json:"pressure_hpa"`
	WaveHeightMeters Optional[float64]    `json:"wave_height_m"`
	WaterTemperature Optional[float64]    `json:"water_temperature_c"`
	LunarPhase       Optional[LunarPhase] `json:"lunar_phase"`
}

// UnavailableSnapshot returns a snapshot with every field unavailable.
func UnavailableSnapshot() EnvironmentalSnapshot {
	return EnvironmentalSnapshot{}
}

// Degraded reports whether any field of the snapshot is unavailable.
func (s EnvironmentalSnapshot) Degraded() bool {
	return !s.Condition.IsSet() ||
		!s.AirTemperature.IsSet() ||
		!s.WindSpeedKmh.IsSet() ||
		!s.PressureHpa.IsSet() ||
		!s.WaveHeightMeters.IsSet() ||
		!s.WaterTemperature.IsSet() ||
		!s.LunarPhase.IsSet()
}

// EnrichedRecord is a CatchRecord plus everything the engine derived for it.
type EnrichedRecord struct {
	CatchRecord
	Region      string                   `json:"region"`
	Environment EnvironmentalSnapshot    `json:"environment"`
	Place       Optional[string]         `json:"place"`
	Daylight    Optional[DaylightPeriod] `json:"daylight"`
	EnrichedAt  time.Time                `json:"enriched_at"`
}
