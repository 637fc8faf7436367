package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatchRecord(t *testing.T) {
	t.Run("store document", func(t *testing.T) {
		data := []byte(`{
			"id": "c-001",
			"species": "2374316",
			"speciesLabel": "Pomatomus saltatrix",
			"baitType": "live",
			"locationLatitude": 41.0213,
			"locationLongitude": "28.9749",
			"location": "Galata Bridge",
			"timestamp": "2024-10-12T05:40:00+03:00"
		}`)

		rec, err := ParseCatchRecord(data)
		require.NoError(t, err)
		assert.Equal(t, "c-001", rec.ID)
		assert.Equal(t, "2374316", rec.Species)
		assert.Equal(t, "Pomatomus saltatrix", rec.SpeciesLabel)
		assert.Equal(t, "Galata Bridge", rec.Location)
		require.NotNil(t, rec.Coordinates)
		assert.Equal(t, GeoPoint{Lat: 41.0213, Lon: 28.9749}, *rec.Coordinates)
		assert.True(t, rec.CapturedAt.Equal(time.Date(2024, 10, 12, 2, 40, 0, 0, time.UTC)))
		assert.Equal(t, map[string]any{"baitType": "live"}, rec.Attributes)
	})

	t.Run("map picker location text", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":"c-2","location":"40.98, 29.02","dateTime":"2024-06-01T21:15"}`))
		require.NoError(t, err)
		require.NotNil(t, rec.Coordinates)
		assert.Equal(t, GeoPoint{Lat: 40.98, Lon: 29.02}, *rec.Coordinates)
		assert.Equal(t, time.Date(2024, 6, 1, 21, 15, 0, 0, time.UTC), rec.CapturedAt)
	})

	t.Run("nested coordinates and numeric id", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":17,"coordinates":{"latitude":36.85,"longitude":30.76}}`))
		require.NoError(t, err)
		assert.Equal(t, "17", rec.ID)
		require.NotNil(t, rec.Coordinates)
		assert.Equal(t, GeoPoint{Lat: 36.85, Lon: 30.76}, *rec.Coordinates)
		assert.True(t, rec.CapturedAt.IsZero())
		assert.Nil(t, rec.Attributes)
	})

	t.Run("no coordinates", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":"c-3","location":"Sarıyer pier","locationLatitude":null}`))
		require.NoError(t, err)
		assert.Nil(t, rec.Coordinates)
	})

	t.Run("out of range coordinates are kept as given", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":"c-4","locationLatitude":95,"locationLongitude":10}`))
		require.NoError(t, err)
		require.NotNil(t, rec.Coordinates)
		assert.Equal(t, 95.0, rec.Coordinates.Lat)
	})

	t.Run("timestamp object", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":"c-5","timestamp":{"seconds":1718000000,"nanoseconds":500000000}}`))
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1718000000, 500000000).UTC(), rec.CapturedAt)
	})

	t.Run("unix seconds and millis", func(t *testing.T) {
		rec, err := ParseCatchRecord([]byte(`{"id":"s","timestamp":1718000000}`))
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1718000000, 0).UTC(), rec.CapturedAt)

		rec, err = ParseCatchRecord([]byte(`{"id":"ms","timestamp":1718000000123}`))
		require.NoError(t, err)
		assert.Equal(t, time.UnixMilli(1718000000123).UTC(), rec.CapturedAt)
	})

	t.Run("zone-less time in configured location", func(t *testing.T) {
		istanbul := time.FixedZone("TRT", 3*60*60)
		rec, err := ParseCatchRecordIn([]byte(`{"id":"c-6","dateTime":"2024-06-01T06:00"}`), istanbul)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC), rec.CapturedAt.UTC())
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := ParseCatchRecord([]byte(`{"id":"c-7","timestamp":"yesterday"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "c-7")
	})

	t.Run("bad latitude", func(t *testing.T) {
		_, err := ParseCatchRecord([]byte(`{"id":"c-8","locationLatitude":"north","locationLongitude":29}`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-finite coordinates", func(t *testing.T) {
		for _, doc := range []string{
			`{"id":"c-9","locationLatitude":"NaN","locationLongitude":28.9}`,
			`{"id":"c-9","locationLatitude":41,"locationLongitude":"-Inf"}`,
			`{"id":"c-9","coordinates":{"lat":"+Inf","lng":29}}`,
		} {
			_, err := ParseCatchRecord([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidInput, doc)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseCatchRecord([]byte("{invalid json"))
		assert.Error(t, err)
	})

	t.Run("null document", func(t *testing.T) {
		_, err := ParseCatchRecord([]byte("null"))
		assert.Error(t, err)
	})
}

func TestParseCatchRecord_TimestampYearRange(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"milliseconds far future", `{"id":"t-1","timestamp":9000000000000000}`},
		{"fractional far future", `{"id":"t-2","timestamp":9.5e15}`},
		{"seconds object far future", `{"id":"t-3","timestamp":{"seconds":900000000000}}`},
		{"seconds object overflow", `{"id":"t-4","timestamp":{"seconds":1e20}}`},
		{"negative milliseconds", `{"id":"t-5","timestamp":-90000000000000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatchRecord([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "timestamp", invalid.Field)
		})
	}

	rec, err := ParseCatchRecord([]byte(`{"id":"t-6","timestamp":253402300799}`))
	require.NoError(t, err)
	assert.Equal(t, 9999, rec.CapturedAt.Year())
}

func TestParseCatchRecord_RoundTripsOwnOutput(t *testing.T) {
	in := CatchRecord{
		ID:          "c-9",
		Coordinates: &GeoPoint{Lat: 40.1, Lon: 26.4},
		CapturedAt:  time.Date(2024, 5, 5, 4, 0, 0, 0, time.UTC),
		Species:     "Sparus aurata",
		Attributes:  map[string]any{"rod": "spinning"},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := ParseCatchRecord(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
