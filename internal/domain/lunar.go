package domain

import (
	"fmt"
	"math"
	"time"
)

// LunarPhase is one of eight moon phases, numbered from New Moon.
type LunarPhase int

const (
	NewMoon LunarPhase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

const (
	synodicMonthDays = 29.5305882
	lunarEpochOffset = 694039.09
)

var lunarPhaseNames = [...]string{
	NewMoon:        "New Moon",
	WaxingCrescent: "Waxing Crescent",
	FirstQuarter:   "First Quarter",
	WaxingGibbous:  "Waxing Gibbous",
	FullMoon:       "Full Moon",
	WaningGibbous:  "Waning Gibbous",
	LastQuarter:    "Last Quarter",
	WaningCrescent: "Waning Crescent",
}

func (p LunarPhase) String() string {
	if p < 0 || int(p) >= len(lunarPhaseNames) {
		return fmt.Sprintf("LunarPhase(%d)", int(p))
	}
	return lunarPhaseNames[p]
}

// MarshalText encodes the phase by name.
func (p LunarPhase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(lunarPhaseNames) {
		return nil, fmt.Errorf("unknown lunar phase %d", int(p))
	}
	return []byte(lunarPhaseNames[p]), nil
}

// UnmarshalText decodes a phase name.
func (p *LunarPhase) UnmarshalText(text []byte) error {
	for i, name := range lunarPhaseNames {
		if name == string(text) {
			*p = LunarPhase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown lunar phase %q", text)
}

// PhaseFor returns the moon phase for a calendar date. Impossible dates such
// as February 30 are rejected rather than normalized.
func PhaseFor(year int, month time.Month, day int) (LunarPhase, error) {
	if month < time.January || month > time.December {
		return 0, &InvalidInputError{Field: "month", Value: int(month), Reason: "outside 1..12"}
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || d.Month() != month || d.Day() != day {
		return 0, &InvalidInputError{
			Field:  "date",
			Value:  fmt.Sprintf("%04d-%02d-%02d", year, int(month), day),
			Reason: "not a calendar date",
		}
	}
	return phaseOfDate(year, int(month), day), nil
}

// PhaseOf returns the moon phase for the calendar date of t in t's location.
func PhaseOf(t time.Time) LunarPhase {
	y, m, d := t.Date()
	return phaseOfDate(y, int(m), d)
}

// phaseOfDate shifts January and February to the end of the previous year,
// counts days since the reference new moon and maps the fraction of the
// current synodic month onto eight buckets.
func phaseOfDate(year, month, day int) LunarPhase {
	if month < 3 {
		year--
		month += 12
	}
	month++

	jd := 365.25*float64(year) + 30.6*float64(month) + float64(day) - lunarEpochOffset
	jd /= synodicMonthDays
	fraction := jd - math.Floor(jd)

	bucket := int(math.Round(fraction * 8))
	if bucket >= 8 {
		bucket = 0
	}
	return LunarPhase(bucket)
}
