package domain

import "context"

// PlaceResult contains place details returned by a reverse geocoding provider.
type PlaceResult struct {
	DisplayName string
	Locality    string
	Country     string
}

// Geocoder resolves coordinates to a human-readable place.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (PlaceResult, error)
}

// SpeciesCatalog resolves a species key (for example a GBIF taxon key) to its
// canonical name. ok is false when the key is not in the catalog.
type SpeciesCatalog interface {
	SpeciesName(ctx context.Context, key string) (name string, ok bool, err error)
}
