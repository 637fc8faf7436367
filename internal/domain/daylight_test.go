package domain

import (
	"testing"
	"time"

	"github.com/sj14/astral/pkg/astral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaylightPeriodAt(t *testing.T) {
	istanbul := GeoPoint{Lat: 41.0082, Lon: 28.9784}
	observer := astral.Observer{Latitude: istanbul.Lat, Longitude: istanbul.Lon}
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

	sunrise, err := astral.Sunrise(observer, date)
	require.NoError(t, err)
	sunset, err := astral.Sunset(observer, date)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want DaylightPeriod
	}{
		{"local 03:00", time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC), Night},
		{"just before sunrise", sunrise.Add(-time.Minute), Dawn},
		{"noon", time.Date(2024, time.June, 21, 10, 0, 0, 0, time.UTC), Day},
		{"just after sunset", sunset.Add(time.Minute), Dusk},
		{"local 23:30", time.Date(2024, time.June, 21, 20, 30, 0, 0, time.UTC), Night},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaylightPeriodAt(istanbul, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaylightPeriodAt_FarFromGreenwich(t *testing.T) {
	tests := []struct {
		name  string
		point GeoPoint
		at    time.Time
		want  DaylightPeriod
	}{
		// UTC+10: the local morning falls on the previous UTC day.
		{"sydney 09:00", GeoPoint{Lat: -33.87, Lon: 151.21}, time.Date(2024, time.May, 1, 23, 0, 0, 0, time.UTC), Day},
		{"sydney 02:00", GeoPoint{Lat: -33.87, Lon: 151.21}, time.Date(2024, time.May, 1, 16, 0, 0, 0, time.UTC), Night},
		{"sydney 15:00", GeoPoint{Lat: -33.87, Lon: 151.21}, time.Date(2024, time.May, 2, 5, 0, 0, 0, time.UTC), Day},
		// UTC-10: the local afternoon falls on the next UTC day.
		{"honolulu 16:00", GeoPoint{Lat: 21.31, Lon: -157.86}, time.Date(2024, time.June, 22, 2, 0, 0, 0, time.UTC), Day},
		{"honolulu 23:00", GeoPoint{Lat: 21.31, Lon: -157.86}, time.Date(2024, time.June, 22, 9, 0, 0, 0, time.UTC), Night},
		{"honolulu 10:00", GeoPoint{Lat: 21.31, Lon: -157.86}, time.Date(2024, time.June, 21, 20, 0, 0, 0, time.UTC), Day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaylightPeriodAt(tt.point, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaylightPeriodAt_InvalidInput(t *testing.T) {
	_, err := DaylightPeriodAt(GeoPoint{Lat: 120}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = DaylightPeriodAt(GeoPoint{Lat: 41, Lon: 29}, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
