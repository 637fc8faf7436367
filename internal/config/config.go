package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	// Embedded zone database so ENRICH_TIMEZONE resolves on minimal images.
	_ "time/tzdata"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// GazetteerPath overrides the embedded gazetteer when set.
	GazetteerPath string

	// Environment providers.
	WeatherBaseURL  string
	MarineBaseURL   string
	ProviderTimeout time.Duration
	EnvCacheSize    int
	EnvCacheTTL     time.Duration

	// Location is the zone whose calendar drives the lunar phase and marine hour.
	Location    *time.Location
	Concurrency int

	// Nominatim reverse geocoding.
	NominatimEnabled   bool
	NominatimBaseURL   string
	NominatimUserAgent string
	GeocoderCacheSize  int

	// GBIF species catalog.
	GBIFEnabled  bool
	GBIFBaseURL  string
	GBIFCacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	envCacheTTL, err := parseDuration("ENV_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}
	gbifCacheTTL, err := parseDuration("GBIF_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	tzName := sharedcfg.EnvOrDefault("ENRICH_TIMEZONE", "Europe/Istanbul")
	// Local has no IANA name to pass on to the weather provider.
	if tzName == "Local" {
		return nil, fmt.Errorf("invalid ENRICH_TIMEZONE: %q is not an IANA zone name", tzName)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid ENRICH_TIMEZONE: %w", err)
	}

	concurrency, err := parsePositiveInt("ENRICH_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-catch-records"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "enriched-catch-records"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "catch-enricher"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		GazetteerPath:   os.Getenv("GAZETTEER_PATH"),
		WeatherBaseURL:  sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		MarineBaseURL:   sharedcfg.EnvOrDefault("MARINE_BASE_URL", "https://marine-api.open-meteo.com/v1/marine"),
		ProviderTimeout: providerTimeout,
		EnvCacheSize:    parseCacheSize("ENV_CACHE_SIZE", 1000),
		EnvCacheTTL:     envCacheTTL,
		Location:        loc,
		Concurrency:     concurrency,

		NominatimEnabled:   os.Getenv("NOMINATIM_ENABLED") == "true",
		NominatimBaseURL:   sharedcfg.EnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
		GeocoderCacheSize:  parseCacheSize("GEOCODER_CACHE_SIZE", 1000),

		GBIFEnabled:  os.Getenv("GBIF_ENABLED") == "true",
		GBIFBaseURL:  sharedcfg.EnvOrDefault("GBIF_BASE_URL", "https://api.gbif.org"),
		GBIFCacheTTL: gbifCacheTTL,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	// Nominatim's usage policy rejects anonymous clients.
	if cfg.NominatimEnabled && cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_ENABLED is true but NOMINATIM_USER_AGENT is not set")
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// parseCacheSize falls back to the default on bad input; a mis-sized cache is
// not worth refusing to start over.
func parseCacheSize(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
