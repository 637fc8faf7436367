package domain

import (
	"context"
	"log/slog"
)

// ResolvePlace reverse geocodes p into a place label. A nil geocoder, missing
// or invalid coordinates, a failed lookup or an empty answer all yield an
// unavailable value; failures are logged and never returned.
func ResolvePlace(ctx context.Context, p *GeoPoint, geocoder Geocoder, logger *slog.Logger) Optional[string] {
	if geocoder == nil || ValidatePoint(p) != nil {
		return None[string]()
	}

	result, err := geocoder.ReverseGeocode(ctx, p.Lat, p.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"record_id", RecordIDFromContext(ctx),
			"lat", p.Lat,
			"lon", p.Lon,
			"error", err,
		)
		return None[string]()
	}

	switch {
	case result.DisplayName != "":
		return Some(result.DisplayName)
	case result.Locality != "" && result.Country != "":
		return Some(result.Locality + ", " + result.Country)
	case result.Locality != "":
		return Some(result.Locality)
	default:
		return None[string]()
	}
}

// ResolveSpeciesLabel returns the label to show for rec's species. An existing
// label always wins; otherwise the catalog is consulted for the species key.
// Lookup failures leave the label empty.
func ResolveSpeciesLabel(ctx context.Context, rec CatchRecord, catalog SpeciesCatalog, logger *slog.Logger) string {
	if rec.SpeciesLabel != "" || rec.Species == "" || catalog == nil {
		return rec.SpeciesLabel
	}

	name, ok, err := catalog.SpeciesName(ctx, rec.Species)
	if err != nil {
		logger.Warn("species lookup failed",
			"record_id", rec.ID,
			"species", rec.Species,
			"error", err,
		)
		return ""
	}
	if !ok {
		return ""
	}
	return name
}
