// Package nominatim implements domain.Geocoder with the OpenStreetMap
// Nominatim reverse geocoding API.
package nominatim

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/observability"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	providerName   = "nominatim"
)

// Getter performs a JSON GET request.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Client implements domain.Geocoder.
type Client struct {
	getter   Getter
	baseURL  string
	language string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewClient creates a Nominatim client. Nominatim's usage policy requires an
// identifying User-Agent, which the getter is expected to send.
func NewClient(getter Getter, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		getter:   getter,
		baseURL:  baseURL,
		language: "en",
		metrics:  metrics,
		logger:   logger,
	}
}

// ReverseGeocode converts coordinates to place details. A point Nominatim
// cannot resolve (open sea, for example) yields an empty result, not an error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.PlaceResult, error) {
	params := url.Values{
		"format":          {"jsonv2"},
		"lat":             {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', 6, 64)},
		"zoom":            {"14"},
		"addressdetails":  {"1"},
		"accept-language": {c.language},
	}

	start := time.Now()
	var resp response
	err := c.getter.GetJSON(ctx, c.baseURL+"/reverse", params, &resp)
	c.metrics.ProviderDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return domain.PlaceResult{}, fmt.Errorf("nominatim reverse: %w", err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()

	if resp.Error != "" {
		c.logger.Debug("nominatim could not resolve point", "lat", lat, "lon", lon, "reason", resp.Error)
		return domain.PlaceResult{}, nil
	}

	return domain.PlaceResult{
		DisplayName: resp.DisplayName,
		Locality:    resp.Address.locality(),
		Country:     resp.Address.Country,
	}, nil
}

// Nominatim API response types.

type response struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	Village  string `json:"village"`
	Town     string `json:"town"`
	Suburb   string `json:"suburb"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
}

// locality picks the most specific populated place name.
func (a address) locality() string {
	for _, v := range []string{a.Village, a.Town, a.Suburb, a.City, a.Province} {
		if v != "" {
			return v
		}
	}
	return ""
}
