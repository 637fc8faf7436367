package nominatim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderates/fishub/internal/cache"
	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.PlaceResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.PlaceResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.PlaceResult{DisplayName: "Sarıyer, İstanbul"}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.ReverseGeocode(context.Background(), 41.16781, 29.05612)
	require.NoError(t, err)
	r2, err := cached.ReverseGeocode(context.Background(), 41.16779, 29.05608)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "points in the same ~11 m cell share an entry")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geocoder", "hit")))
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.PlaceResult{DisplayName: "Place"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 41.0, 29.0)
	_, _ = cached.ReverseGeocode(context.Background(), 38.4, 27.1)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 42.5, 34.0)
	_, _ = cached.ReverseGeocode(context.Background(), 42.5, 34.0)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("timeout")
	_, err := cached.ReverseGeocode(context.Background(), 42.5, 34.0)
	assert.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedGeocoder_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingGeocoder{result: domain.PlaceResult{DisplayName: "Kaş"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting(), cache.WithClock(clock))

	_, _ = cached.ReverseGeocode(context.Background(), 36.2, 29.64)
	clock.Advance(placeTTL + time.Second)
	_, _ = cached.ReverseGeocode(context.Background(), 36.2, 29.64)

	assert.Equal(t, 2, inner.calls)
}
