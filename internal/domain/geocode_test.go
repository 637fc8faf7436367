package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock collaborators ---

type mockGeocoder struct {
	result PlaceResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (PlaceResult, error) {
	m.calls++
	return m.result, m.err
}

type mockCatalog struct {
	names map[string]string
	err   error
	calls int
}

func (m *mockCatalog) SpeciesName(_ context.Context, key string) (string, bool, error) {
	m.calls++
	if m.err != nil {
		return "", false, m.err
	}
	name, ok := m.names[key]
	return name, ok, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolvePlace_NilGeocoder(t *testing.T) {
	got := ResolvePlace(context.Background(), &GeoPoint{Lat: 41, Lon: 29}, nil, discardLogger())
	assert.False(t, got.IsSet())
}

func TestResolvePlace_DisplayName(t *testing.T) {
	geo := &mockGeocoder{result: PlaceResult{DisplayName: "Karaköy, Beyoğlu, İstanbul", Locality: "Beyoğlu"}}

	got := ResolvePlace(context.Background(), &GeoPoint{Lat: 41.02, Lon: 28.97}, geo, discardLogger())

	assert.Equal(t, Some("Karaköy, Beyoğlu, İstanbul"), got)
	assert.Equal(t, 1, geo.calls)
}

func TestResolvePlace_LocalityFallback(t *testing.T) {
	geo := &mockGeocoder{result: PlaceResult{Locality: "Kaş", Country: "Türkiye"}}

	got := ResolvePlace(context.Background(), &GeoPoint{Lat: 36.2, Lon: 29.64}, geo, discardLogger())

	assert.Equal(t, Some("Kaş, Türkiye"), got)
}

func TestResolvePlace_Error_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("rate limited")}

	got := ResolvePlace(WithRecordID(context.Background(), "c-1"), &GeoPoint{Lat: 41, Lon: 29}, geo, discardLogger())

	assert.False(t, got.IsSet())
	assert.Equal(t, 1, geo.calls)
}

func TestResolvePlace_SkipsMissingCoordinates(t *testing.T) {
	geo := &mockGeocoder{}

	assert.False(t, ResolvePlace(context.Background(), nil, geo, discardLogger()).IsSet())
	assert.False(t, ResolvePlace(context.Background(), &GeoPoint{Lat: 99}, geo, discardLogger()).IsSet())
	assert.Equal(t, 0, geo.calls)
}

func TestResolvePlace_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}
	got := ResolvePlace(context.Background(), &GeoPoint{Lat: 41, Lon: 29}, geo, discardLogger())
	assert.False(t, got.IsSet())
}

func TestResolveSpeciesLabel(t *testing.T) {
	catalog := &mockCatalog{names: map[string]string{"2374316": "Pomatomus saltatrix"}}
	ctx := context.Background()

	t.Run("existing label wins", func(t *testing.T) {
		rec := CatchRecord{Species: "2374316", SpeciesLabel: "Lüfer"}
		assert.Equal(t, "Lüfer", ResolveSpeciesLabel(ctx, rec, catalog, discardLogger()))
	})

	t.Run("catalog lookup", func(t *testing.T) {
		rec := CatchRecord{Species: "2374316"}
		assert.Equal(t, "Pomatomus saltatrix", ResolveSpeciesLabel(ctx, rec, catalog, discardLogger()))
	})

	t.Run("unknown key", func(t *testing.T) {
		rec := CatchRecord{Species: "1"}
		assert.Empty(t, ResolveSpeciesLabel(ctx, rec, catalog, discardLogger()))
	})

	t.Run("nil catalog", func(t *testing.T) {
		rec := CatchRecord{Species: "2374316"}
		assert.Empty(t, ResolveSpeciesLabel(ctx, rec, nil, discardLogger()))
	})

	t.Run("lookup error", func(t *testing.T) {
		failing := &mockCatalog{err: errors.New("gbif down")}
		rec := CatchRecord{ID: "c-1", Species: "2374316"}
		assert.Empty(t, ResolveSpeciesLabel(ctx, rec, failing, discardLogger()))
		assert.Equal(t, 1, failing.calls)
	})
}
