// Package gbif resolves species keys to canonical names using the GBIF
// species API (https://www.gbif.org/developer/species).
package gbif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/enderates/fishub/internal/adapter/httpjson"
	"github.com/enderates/fishub/internal/observability"
)

const (
	DefaultBaseURL = "https://api.gbif.org"
	DefaultTTL     = 24 * time.Hour

	// ActinopterygiiKey is the GBIF taxon key for ray-finned fishes.
	ActinopterygiiKey = 204

	providerName = "gbif"
	cacheName    = "species"
)

// Getter performs a JSON GET request.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Client implements domain.SpeciesCatalog.
type Client struct {
	getter  Getter
	baseURL string
	cache   *gocache.Cache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a GBIF client whose lookups are cached for ttl. Keys GBIF
// does not know are cached too, as misses.
func NewClient(getter Getter, baseURL string, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		getter:  getter,
		baseURL: baseURL,
		cache:   gocache.New(ttl, ttl*2),
		metrics: metrics,
		logger:  logger,
	}
}

// SpeciesName returns the canonical name for a GBIF usage key.
func (c *Client) SpeciesName(ctx context.Context, key string) (string, bool, error) {
	if cached, found := c.cache.Get(key); found {
		c.metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
		name, _ := cached.(string)
		return name, name != "", nil
	}
	c.metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()

	if _, err := strconv.ParseInt(key, 10, 64); err != nil {
		// Free-text species values are not GBIF keys.
		c.cache.Set(key, "", gocache.DefaultExpiration)
		return "", false, nil
	}

	var usage nameUsage
	err := c.get(ctx, c.baseURL+"/v1/species/"+url.PathEscape(key), nil, &usage)
	var statusErr *httpjson.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		c.cache.Set(key, "", gocache.DefaultExpiration)
		return "", false, nil
	case err != nil:
		return "", false, err
	}

	name := usage.name()
	c.cache.Set(key, name, gocache.DefaultExpiration)
	return name, name != "", nil
}

// Preload fills the cache with the first limit species under taxonKey, the
// same list offered to users when they pick a species.
func (c *Client) Preload(ctx context.Context, taxonKey, limit int) (int, error) {
	params := url.Values{
		"taxon_key": {strconv.Itoa(taxonKey)},
		"limit":     {strconv.Itoa(limit)},
	}
	var page searchPage
	if err := c.get(ctx, c.baseURL+"/v1/species/search", params, &page); err != nil {
		return 0, err
	}

	loaded := 0
	for _, u := range page.Results {
		name := u.name()
		if u.Key == 0 || name == "" {
			continue
		}
		c.cache.Set(strconv.FormatInt(u.Key, 10), name, gocache.DefaultExpiration)
		loaded++
	}
	c.logger.Info("species catalog preloaded", "taxon_key", taxonKey, "species", loaded)
	return loaded, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	start := time.Now()
	err := c.getter.GetJSON(ctx, endpoint, params, out)
	c.metrics.ProviderDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return fmt.Errorf("gbif: %w", err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	return nil
}

// GBIF API response types.

type nameUsage struct {
	Key            int64  `json:"key"`
	CanonicalName  string `json:"canonicalName"`
	ScientificName string `json:"scientificName"`
}

func (u nameUsage) name() string {
	if u.CanonicalName != "" {
		return u.CanonicalName
	}
	return u.ScientificName
}

type searchPage struct {
	Results []nameUsage `json:"results"`
}
