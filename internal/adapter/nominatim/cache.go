package nominatim

import (
	"context"
	"math"
	"time"

	"github.com/enderates/fishub/internal/cache"
	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/observability"
)

// placeTTL bounds how long a resolved place is reused. Place names change rarely.
const placeTTL = 7 * 24 * time.Hour

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by the
// point rounded to four decimals (about 11 m).
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cache.LRU[pointKey, domain.PlaceResult]
	metrics *observability.Metrics
}

type pointKey struct{ lat, lon int64 }

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics, opts ...cache.Option) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache.New[pointKey, domain.PlaceResult](maxEntries, placeTTL, opts...),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.PlaceResult, error) {
	key := pointKey{lat: int64(math.Round(lat * 1e4)), lon: int64(math.Round(lon * 1e4))}
	if result, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("geocoder", "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("geocoder", "miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.DisplayName != "" {
		c.cache.Put(key, result)
	}
	return result, nil
}
