package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	g, err := DefaultGazetteer()
	require.NoError(t, err)
	return NewClassifier(g)
}

func TestClassify_DefaultGazetteer(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		name  string
		point GeoPoint
		want  string
	}{
		{"istanbul old city", GeoPoint{Lat: 41.01, Lon: 28.97}, "Türkiye - İstanbul"},
		{"izmir bay", GeoPoint{Lat: 38.45, Lon: 27.10}, "Türkiye - İzmir"},
		{"open marmara", GeoPoint{Lat: 40.70, Lon: 28.20}, "Marmara Sea"},
		{"open black sea", GeoPoint{Lat: 42.50, Lon: 34.00}, "Black Sea"},
		{"open aegean", GeoPoint{Lat: 38.50, Lon: 25.50}, "Aegean Sea"},
		{"south of antalya", GeoPoint{Lat: 35.50, Lon: 32.00}, "Mediterranean"},
		{"inland falls back to nearest city", GeoPoint{Lat: 39.93, Lon: 32.85}, "Türkiye - Kastamonu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.point)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_SeaBoxBeyondThreshold(t *testing.T) {
	g, err := DefaultGazetteer()
	require.NoError(t, err)
	c := NewClassifier(g)

	// Walk a grid over every sea box; wherever the point is farther than the
	// threshold from all centers it must get a sea label.
	for _, sea := range g.Seas {
		b := sea.Bounds
		for lat := b.MinLat; lat <= b.MaxLat; lat += 0.25 {
			for lon := b.MinLon; lon <= b.MaxLon; lon += 0.25 {
				p := GeoPoint{Lat: lat, Lon: lon}
				if nearestDistance(g, p) <= g.FallbackThresholdDegrees {
					continue
				}
				got, err := c.Classify(p)
				require.NoError(t, err)
				assert.True(t, c.IsSea(got), "point %v labeled %q", p, got)
			}
		}
	}
}

func TestClassify_NearCenterReturnsCity(t *testing.T) {
	g, err := DefaultGazetteer()
	require.NoError(t, err)
	c := NewClassifier(g)

	const epsilon = 0.001
	for _, r := range g.Regions {
		for _, d := range []GeoPoint{{Lat: epsilon}, {Lon: -epsilon}, {}} {
			p := GeoPoint{Lat: r.Center.Lat + d.Lat, Lon: r.Center.Lon + d.Lon}
			got, err := c.Classify(p)
			require.NoError(t, err)
			assert.Equal(t, "Türkiye - "+r.Name, got)
		}
	}
}

func TestClassify_TieBreakIsGazetteerOrder(t *testing.T) {
	east := Region{Name: "East", Center: GeoPoint{Lat: 0, Lon: 1}}
	west := Region{Name: "West", Center: GeoPoint{Lat: 0, Lon: -1}}
	origin := GeoPoint{}

	c := NewClassifier(Gazetteer{Country: "X", Regions: []Region{east, west}})
	for range 10 {
		got, err := c.Classify(origin)
		require.NoError(t, err)
		assert.Equal(t, "X - East", got)
	}

	c = NewClassifier(Gazetteer{Country: "X", Regions: []Region{west, east}})
	got, err := c.Classify(origin)
	require.NoError(t, err)
	assert.Equal(t, "X - West", got)
}

func TestClassify_EmptyGazetteer(t *testing.T) {
	c := NewClassifier(Gazetteer{Country: "Türkiye"})
	got, err := c.Classify(GeoPoint{Lat: 41, Lon: 29})
	require.NoError(t, err)
	assert.Equal(t, UnknownRegion, got)
}

func TestClassify_InvalidPoint(t *testing.T) {
	c := defaultClassifier(t)
	_, err := c.Classify(GeoPoint{Lat: 91, Lon: 29})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClassifyOrUnknown(t *testing.T) {
	c := defaultClassifier(t)

	assert.Equal(t, UnknownRegion, c.ClassifyOrUnknown(nil))
	assert.Equal(t, UnknownRegion, c.ClassifyOrUnknown(&GeoPoint{Lat: -200, Lon: 0}))
	assert.Equal(t, "Türkiye - Trabzon", c.ClassifyOrUnknown(&GeoPoint{Lat: 41.0, Lon: 39.72}))
}

func TestNewClassifier_CopiesGazetteer(t *testing.T) {
	regions := []Region{{Name: "Sinop", Center: GeoPoint{Lat: 42.0231, Lon: 35.1531}}}
	c := NewClassifier(Gazetteer{Country: "Türkiye", Regions: regions})

	regions[0].Name = "Mutated"

	got, err := c.Classify(GeoPoint{Lat: 42, Lon: 35})
	require.NoError(t, err)
	assert.Equal(t, "Türkiye - Sinop", got)
}

func TestClassify_NoCountry(t *testing.T) {
	c := NewClassifier(Gazetteer{Regions: []Region{{Name: "Harbor", Center: GeoPoint{Lat: 1, Lon: 1}}}})
	got, err := c.Classify(GeoPoint{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Equal(t, "Harbor", got)
}

func nearestDistance(g Gazetteer, p GeoPoint) float64 {
	best := -1.0
	for _, r := range g.Regions {
		if d := planarDistance(p, r.Center); best < 0 || d < best {
			best = d
		}
	}
	return best
}
