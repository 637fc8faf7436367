// Package enrich attaches region, environment, lunar phase and optional
// place/species/daylight details to catch records, one at a time or in
// concurrent batches.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/observability"
)

// DefaultConcurrency bounds in-flight records in EnrichAll.
const DefaultConcurrency = 8

// EnvironmentFetcher returns the conditions at a point and instant. Upstream
// failures must be reported as unavailable fields, not errors.
type EnvironmentFetcher interface {
	Fetch(ctx context.Context, point domain.GeoPoint, at time.Time) (domain.EnvironmentalSnapshot, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGeocoder enables reverse geocoding into EnrichedRecord.Place.
func WithGeocoder(g domain.Geocoder) Option {
	return func(o *Orchestrator) { o.geocoder = g }
}

// WithSpeciesCatalog enables species label lookup for records without one.
func WithSpeciesCatalog(c domain.SpeciesCatalog) Option {
	return func(o *Orchestrator) { o.species = c }
}

// WithConcurrency sets the EnrichAll worker limit.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLocation sets the zone whose calendar date drives the lunar phase.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.location = loc
		}
	}
}

// Orchestrator merges classifier, provider and calculator results onto records.
type Orchestrator struct {
	classifier  *domain.Classifier
	env         EnvironmentFetcher
	geocoder    domain.Geocoder
	species     domain.SpeciesCatalog
	concurrency int
	location    *time.Location
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates an orchestrator.
func New(classifier *domain.Classifier, env EnvironmentFetcher, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier:  classifier,
		env:         env,
		concurrency: DefaultConcurrency,
		location:    time.UTC,
		logger:      logger,
		metrics:     metrics,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich returns rec with its enrichment. The record is always returned.
// Missing or invalid coordinates are not an error: the record gets the
// Unknown region and a fully unavailable snapshot. A panic or unexpected
// error is reported as *domain.PartialEnrichmentError alongside the record
// downgraded to fully unavailable enrichment.
func (o *Orchestrator) Enrich(ctx context.Context, rec domain.CatchRecord) (out domain.EnrichedRecord, err error) {
	rec = ownedCopy(rec)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			out = unavailable(rec)
			err = &domain.PartialEnrichmentError{RecordID: rec.ID, Err: err}
			o.metrics.EnrichmentFailures.Inc()
			o.logger.Error("record enrichment failed", "record_id", rec.ID, "error", err)
		}
	}()

	return o.enrich(domain.WithRecordID(ctx, rec.ID), rec)
}

// EnrichAll enriches records concurrently. The result has one entry per input
// in input order. The error joins every *domain.PartialEnrichmentError and is
// nil when all records succeeded; one record's failure never affects another.
func (o *Orchestrator) EnrichAll(ctx context.Context, records []domain.CatchRecord) ([]domain.EnrichedRecord, error) {
	out := make([]domain.EnrichedRecord, len(records))
	errs := make([]error, len(records))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, rec := range records {
		g.Go(func() error {
			out[i], errs[i] = o.Enrich(ctx, rec)
			// Failures stay per record; returning them would stop the batch.
			return nil
		})
	}
	_ = g.Wait()

	return out, errors.Join(errs...)
}

func (o *Orchestrator) enrich(ctx context.Context, rec domain.CatchRecord) (domain.EnrichedRecord, error) {
	rec.SpeciesLabel = domain.ResolveSpeciesLabel(ctx, rec, o.species, o.logger)

	out := unavailable(rec)
	if domain.ValidatePoint(rec.Coordinates) != nil {
		o.metrics.RegionsClassified.WithLabelValues("unknown").Inc()
		return out, nil
	}
	point := *rec.Coordinates

	region, err := o.classifier.Classify(point)
	if err != nil {
		return out, fmt.Errorf("classify: %w", err)
	}
	out.Region = region
	o.metrics.RegionsClassified.WithLabelValues(o.regionKind(region)).Inc()

	out.Place = domain.ResolvePlace(ctx, &point, o.geocoder, o.logger)

	if rec.CapturedAt.IsZero() {
		o.logger.Debug("record has no capture time", "record_id", rec.ID)
		return out, nil
	}

	snap, err := o.env.Fetch(ctx, point, rec.CapturedAt)
	if err != nil {
		return out, fmt.Errorf("fetch environment: %w", err)
	}
	snap.LunarPhase = domain.Some(domain.PhaseOf(rec.CapturedAt.In(o.location)))
	out.Environment = snap

	if period, err := domain.DaylightPeriodAt(point, rec.CapturedAt); err != nil {
		o.logger.Debug("daylight period unavailable", "record_id", rec.ID, "error", err)
	} else {
		out.Daylight = domain.Some(period)
	}

	return out, nil
}

func (o *Orchestrator) regionKind(label string) string {
	switch {
	case label == domain.UnknownRegion:
		return "unknown"
	case o.classifier.IsSea(label):
		return "sea"
	default:
		return "city"
	}
}

// unavailable returns rec with the Unknown region and nothing else derived.
func unavailable(rec domain.CatchRecord) domain.EnrichedRecord {
	return domain.EnrichedRecord{
		CatchRecord: rec,
		Region:      domain.UnknownRegion,
		Environment: domain.UnavailableSnapshot(),
		EnrichedAt:  domain.Now(),
	}
}

// ownedCopy detaches rec from the caller's pointer and map.
func ownedCopy(rec domain.CatchRecord) domain.CatchRecord {
	if rec.Coordinates != nil {
		p := *rec.Coordinates
		rec.Coordinates = &p
	}
	rec.Attributes = maps.Clone(rec.Attributes)
	return rec
}
