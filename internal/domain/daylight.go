package domain

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// DaylightPeriod is the part of the solar day a catch fell into.
type DaylightPeriod string

const (
	Night DaylightPeriod = "night"
	Dawn  DaylightPeriod = "dawn"
	Day   DaylightPeriod = "day"
	Dusk  DaylightPeriod = "dusk"
)

// DaylightPeriodAt classifies at against civil twilight and sunrise/sunset at
// p. Sun events are computed for the calendar date of at in local mean solar
// time at p, so the events bracketing at belong to the observer's own day;
// polar days and nights, where the sun never crosses the horizon, return an
// error.
func DaylightPeriodAt(p GeoPoint, at time.Time) (DaylightPeriod, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if at.IsZero() {
		return "", &InvalidInputError{Field: "time", Value: at, Reason: "zero"}
	}

	observer := astral.Observer{Latitude: p.Lat, Longitude: p.Lon}
	y, m, dd := solarDate(p, at)
	date := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)

	civilDawn, err := astral.Dawn(observer, date, astral.DepressionCivil)
	if err != nil {
		return "", fmt.Errorf("civil dawn: %w", err)
	}
	sunrise, err := astral.Sunrise(observer, date)
	if err != nil {
		return "", fmt.Errorf("sunrise: %w", err)
	}
	sunset, err := astral.Sunset(observer, date)
	if err != nil {
		return "", fmt.Errorf("sunset: %w", err)
	}
	civilDusk, err := astral.Dusk(observer, date, astral.DepressionCivil)
	if err != nil {
		return "", fmt.Errorf("civil dusk: %w", err)
	}

	switch {
	case at.Before(civilDawn):
		return Night, nil
	case at.Before(sunrise):
		return Dawn, nil
	case at.Before(sunset):
		return Day, nil
	case at.Before(civilDusk):
		return Dusk, nil
	default:
		return Night, nil
	}
}

// solarDate shifts at by the observer's longitude (15 degrees per hour) and
// returns the resulting calendar date.
func solarDate(p GeoPoint, at time.Time) (int, time.Month, int) {
	offset := time.Duration(p.Lon / 15 * float64(time.Hour))
	return at.UTC().Add(offset).Date()
}
