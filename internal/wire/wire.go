// Package wire builds the enrichment engine and its upstream clients from
// configuration. The service and the report CLI share it.
package wire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enderates/fishub/internal/adapter/gbif"
	"github.com/enderates/fishub/internal/adapter/httpjson"
	"github.com/enderates/fishub/internal/adapter/nominatim"
	"github.com/enderates/fishub/internal/config"
	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/enrich"
	"github.com/enderates/fishub/internal/environment"
	"github.com/enderates/fishub/internal/observability"
)

// UserAgent identifies the service to upstream APIs that do not need a
// deployment-specific one.
const UserAgent = "fishub-catch-enricher/1.0"

// Gazetteer loads the file at cfg.GazetteerPath, or the embedded default.
func Gazetteer(cfg *config.Config) (domain.Gazetteer, error) {
	if cfg.GazetteerPath == "" {
		return domain.DefaultGazetteer()
	}
	g, err := domain.LoadGazetteerFile(cfg.GazetteerPath)
	if err != nil {
		return domain.Gazetteer{}, fmt.Errorf("load gazetteer %s: %w", cfg.GazetteerPath, err)
	}
	return g, nil
}

// Orchestrator wires the classifier, environment provider and the optional
// geocoder and species catalog into an enrich.Orchestrator. A failed species
// preload is logged and lookups fall back to per-key requests.
func Orchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*enrich.Orchestrator, error) {
	gaz, err := Gazetteer(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("gazetteer loaded", "version", gaz.Version, "regions", len(gaz.Regions), "seas", len(gaz.Seas))

	getter := httpjson.NewClient(cfg.ProviderTimeout, UserAgent)
	provider := environment.NewProvider(getter, environment.Config{
		WeatherURL: cfg.WeatherBaseURL,
		MarineURL:  cfg.MarineBaseURL,
		Timeout:    cfg.ProviderTimeout,
		Location:   cfg.Location,
	}, logger, metrics,
		environment.WithDiagnostics(observability.NewDiagnosticLogger(logger, metrics)),
		environment.WithCache(cfg.EnvCacheSize, cfg.EnvCacheTTL),
	)

	opts := []enrich.Option{
		enrich.WithConcurrency(cfg.Concurrency),
		enrich.WithLocation(cfg.Location),
	}

	if cfg.NominatimEnabled {
		client := nominatim.NewClient(
			httpjson.NewClient(cfg.ProviderTimeout, cfg.NominatimUserAgent),
			cfg.NominatimBaseURL, metrics, logger,
		)
		opts = append(opts, enrich.WithGeocoder(nominatim.NewCachedGeocoder(client, cfg.GeocoderCacheSize, metrics)))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("nominatim geocoding enabled", "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.ProviderTimeout)
	} else {
		logger.Info("nominatim geocoding disabled")
	}

	if cfg.GBIFEnabled {
		catalog := gbif.NewClient(getter, cfg.GBIFBaseURL, cfg.GBIFCacheTTL, metrics, logger)
		if _, err := catalog.Preload(ctx, gbif.ActinopterygiiKey, 50); err != nil {
			logger.Warn("species catalog preload failed", "error", err)
		}
		opts = append(opts, enrich.WithSpeciesCatalog(catalog))
	}

	return enrich.New(domain.NewClassifier(gaz), provider, logger, metrics, opts...), nil
}
