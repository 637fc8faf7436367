// Package environment fetches weather and sea state for a catch and turns the
// provider responses into an EnvironmentalSnapshot.
package environment

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/enderates/fishub/internal/cache"
	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/observability"
)

// Provider names used in diagnostics and metrics.
const (
	ProviderWeather = "weather"
	ProviderMarine  = "marine"
)

const (
	DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"
	DefaultMarineURL  = "https://marine-api.open-meteo.com/v1/marine"
	DefaultTimeout    = 5 * time.Second

	// waterOffsetCelsius is subtracted from air temperature to estimate water temperature.
	waterOffsetCelsius = 2.0
	msToKmh            = 3.6
)

// Getter performs a GET with query parameters and decodes the JSON body into out.
// Non-2xx responses and undecodable bodies must be returned as errors.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Config describes the upstream endpoints.
type Config struct {
	WeatherURL string
	MarineURL  string
	// Timeout bounds each upstream request on its own.
	Timeout time.Duration
	// Location is the zone used for the marine day and hour lookup. Defaults to
	// UTC; time.Local is replaced by UTC since it has no name to send upstream.
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.WeatherURL == "" {
		c.WeatherURL = DefaultWeatherURL
	}
	if c.MarineURL == "" {
		c.MarineURL = DefaultMarineURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Location == nil || c.Location == time.Local {
		c.Location = time.UTC
	}
	return c
}

// Option configures a Provider.
type Option func(*Provider)

// WithDiagnostics routes upstream failures to sink.
func WithDiagnostics(sink domain.DiagnosticSink) Option {
	return func(p *Provider) { p.sink = sink }
}

// WithCache enables a bounded cache of complete snapshots keyed by point
// (rounded to 0.01°) and hour.
func WithCache(size int, ttl time.Duration, opts ...cache.Option) Option {
	return func(p *Provider) {
		p.cache = cache.New[cacheKey, domain.EnvironmentalSnapshot](size, ttl, opts...)
	}
}

// Provider is the environmental data provider. It is safe for concurrent use.
type Provider struct {
	getter  Getter
	cfg     Config
	logger  *slog.Logger
	metrics *observability.Metrics
	sink    domain.DiagnosticSink
	cache   *cache.LRU[cacheKey, domain.EnvironmentalSnapshot]
}

// NewProvider creates a provider that issues requests through getter.
func NewProvider(getter Getter, cfg Config, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Provider {
	p := &Provider{
		getter:  getter,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		metrics: metrics,
		sink:    domain.DiscardDiagnostics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type cacheKey struct {
	lat, lon int64 // hundredths of a degree
	hour     int64 // unix hour
}

func keyFor(p domain.GeoPoint, at time.Time) cacheKey {
	return cacheKey{
		lat:  int64(math.Round(p.Lat * 100)),
		lon:  int64(math.Round(p.Lon * 100)),
		hour: at.Unix() / 3600,
	}
}

// Fetch returns the conditions at point around at. Only invalid input is an
// error; an upstream failure leaves that provider's fields unavailable and is
// reported as a Diagnostic. The lunar phase is not set here.
func (p *Provider) Fetch(ctx context.Context, point domain.GeoPoint, at time.Time) (domain.EnvironmentalSnapshot, error) {
	if err := point.Validate(); err != nil {
		return domain.UnavailableSnapshot(), err
	}
	if at.IsZero() {
		return domain.UnavailableSnapshot(), &domain.InvalidInputError{Field: "time", Value: at, Reason: "zero"}
	}

	key := keyFor(point, at)
	if p.cache != nil {
		if snap, ok := p.cache.Get(key); ok {
			p.metrics.CacheLookups.WithLabelValues("environment", "hit").Inc()
			return snap, nil
		}
		p.metrics.CacheLookups.WithLabelValues("environment", "miss").Inc()
	}

	var (
		snap      domain.EnvironmentalSnapshot
		weatherOK bool
		marineOK  bool
	)

	// The two requests write disjoint fields and never fail the group, so one
	// provider's failure cannot cancel or discard the other's result.
	var g errgroup.Group
	g.Go(func() error {
		weatherOK = p.fetchWeather(ctx, point, &snap)
		return nil
	})
	g.Go(func() error {
		snap.WaveHeightMeters, marineOK = p.fetchMarine(ctx, point, at)
		return nil
	})
	_ = g.Wait()

	if p.cache != nil && weatherOK && marineOK {
		p.cache.Put(key, snap)
	}
	return snap, nil
}

// fetchWeather fills the atmospheric fields of snap and reports whether the
// request succeeded.
func (p *Provider) fetchWeather(ctx context.Context, point domain.GeoPoint, snap *domain.EnvironmentalSnapshot) bool {
	params := pointParams(point)
	params.Set("current", "temperature_2m,wind_speed_10m,weather_code,pressure_msl")
	params.Set("wind_speed_unit", "ms")
	params.Set("timezone", p.cfg.Location.String())

	var resp forecastResponse
	if err := p.get(ctx, ProviderWeather, p.cfg.WeatherURL, params, &resp); err != nil {
		return false
	}

	cur := resp.Current
	if cur.WeatherCode != nil {
		snap.Condition = domain.Some(ConditionLabel(*cur.WeatherCode))
	}
	if cur.Temperature != nil {
		snap.AirTemperature = domain.Some(*cur.Temperature)
	}
	snap.WaterTemperature = EstimateWaterTemperature(snap.AirTemperature)
	if cur.WindSpeed != nil {
		snap.WindSpeedKmh = domain.Some(WindSpeedKmh(*cur.WindSpeed))
	}
	if cur.Pressure != nil {
		snap.PressureHpa = domain.Some(*cur.Pressure)
	}
	return true
}

func (p *Provider) fetchMarine(ctx context.Context, point domain.GeoPoint, at time.Time) (domain.Optional[float64], bool) {
	local := at.In(p.cfg.Location)
	day := local.Format(time.DateOnly)

	params := pointParams(point)
	params.Set("hourly", "wave_height")
	params.Set("timezone", p.cfg.Location.String())
	params.Set("start_date", day)
	params.Set("end_date", day)

	var resp marineResponse
	if err := p.get(ctx, ProviderMarine, p.cfg.MarineURL, params, &resp); err != nil {
		return domain.None[float64](), false
	}
	return waveHeightAt(resp, local), true
}

// get runs one upstream request under its own timeout and turns any failure
// into a diagnostic.
func (p *Provider) get(ctx context.Context, provider, endpoint string, params url.Values, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := p.getter.GetJSON(reqCtx, endpoint, params, out)
	p.metrics.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.ProviderRequests.WithLabelValues(provider, "error").Inc()
		p.sink.Report(ctx, domain.Diagnostic{
			Provider: provider,
			RecordID: domain.RecordIDFromContext(ctx),
			Cause:    &domain.UpstreamError{Provider: provider, Err: err},
		})
		return err
	}
	p.metrics.ProviderRequests.WithLabelValues(provider, "success").Inc()
	return nil
}

func pointParams(p domain.GeoPoint) url.Values {
	return url.Values{
		"latitude":  {strconv.FormatFloat(p.Lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(p.Lon, 'f', -1, 64)},
	}
}

// waveHeightAt picks the series entry for the local hour of at. The time
// column is preferred when present; otherwise the series is indexed by hour.
func waveHeightAt(resp marineResponse, local time.Time) domain.Optional[float64] {
	series := resp.Hourly.WaveHeight
	idx := local.Hour()

	if len(resp.Hourly.Time) == len(series) && len(series) > 0 {
		want := local.Format("2006-01-02T15") + ":00"
		for i, ts := range resp.Hourly.Time {
			if ts == want {
				idx = i
				break
			}
		}
	}

	if idx < 0 || idx >= len(series) || series[idx] == nil {
		return domain.None[float64]()
	}
	return domain.Some(*series[idx])
}

// WindSpeedKmh converts m/s to km/h rounded to the nearest integer.
func WindSpeedKmh(ms float64) int {
	return int(math.Round(ms * msToKmh))
}

// EstimateWaterTemperature derives water temperature from air temperature,
// rounded to one decimal. It is unavailable when air temperature is.
func EstimateWaterTemperature(air domain.Optional[float64]) domain.Optional[float64] {
	v, ok := air.Get()
	if !ok {
		return domain.None[float64]()
	}
	return domain.Some(math.Round((v-waterOffsetCelsius)*10) / 10)
}

// Open-Meteo response types.

type forecastResponse struct {
	Current struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
		Pressure    *float64 `json:"pressure_msl"`
	} `json:"current"`
}

type marineResponse struct {
	Hourly struct {
		Time       []string   `json:"time"`
		WaveHeight []*float64 `json:"wave_height"`
	} `json:"hourly"`
}
