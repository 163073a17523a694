package query_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = "was it rainy in Paris in March 2015?"

// --- mock geocoder ---

type mockGeocoder struct {
	result    domain.GeometryResult
	err       error
	calls     int
	locations []string
}

func (m *mockGeocoder) Resolve(_ context.Context, location string) (domain.GeometryResult, error) {
	m.calls++
	m.locations = append(m.locations, location)
	return m.result, m.err
}

func parisGeometry() domain.GeometryResult {
	return domain.GeometryResult{
		PlaceName:        "Paris",
		FormattedAddress: "Paris, France",
		Confidence:       0.98,
		Center:           domain.Geo{Lat: 48.85, Lon: 2.35},
		Viewport: &domain.GeoBoundingBox{
			Lat: domain.CoordinateRange{Min: 48.8, Max: 48.9},
			Lon: domain.CoordinateRange{Min: 2.3, Max: 2.4},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBuilder(geo domain.Geocoder) *query.Builder {
	return query.NewBuilder(geo, domain.NewVariableClassifier(domain.DefaultVocabulary), discardLogger())
}

func entityList() []domain.ExtractedEntity {
	return []domain.ExtractedEntity{
		{Type: domain.EntityLocation, Text: "Paris", Confidence: 0.9},
		{Type: domain.EntityDate, Text: "2015-03-01", Confidence: 0.8},
	}
}

// --- tests ---

func TestBuilder_Build_HappyPath(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	q, err := b.Build(context.Background(), testInput, entityList())

	require.NoError(t, err)
	assert.Equal(t, domain.VariableTotalPrecipitation, q.Variable)
	assert.Equal(t, "Paris", q.Geometry.PlaceName)
	assert.Equal(t, 48.9, q.Bounds.Lat.Max)
	assert.Equal(t, 2.3, q.Bounds.Lon.Min)
	assert.Equal(t, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), q.DateRange.Min)
	assert.Equal(t, q.DateRange.Min, q.DateRange.Max)
	assert.Equal(t, 1, geo.calls)
}

func TestBuilder_Build_UsesHighestConfidenceLocation(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	entities := []domain.ExtractedEntity{
		{Type: domain.EntityLocation, Text: "London", Confidence: 0.4},
		{Type: domain.EntityLocation, Text: "Paris", Confidence: 0.9},
		{Type: domain.EntityDate, Text: "2015-03-01", Confidence: 0.8},
	}

	_, err := b.Build(context.Background(), testInput, entities)

	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, geo.locations)
}

func TestBuilder_Build_DateRangeFromConfidenceOrder(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	// The higher-confidence date is chronologically later; the range
	// endpoints follow confidence order.
	entities := []domain.ExtractedEntity{
		{Type: domain.EntityLocation, Text: "Paris", Confidence: 0.9},
		{Type: domain.EntityDate, Text: "2016-08-20", Confidence: 0.8},
		{Type: domain.EntityDate, Text: "2015-03-01", Confidence: 0.7},
	}

	q, err := b.Build(context.Background(), testInput, entities)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 8, 20, 0, 0, 0, 0, time.UTC), q.DateRange.Min)
	assert.Equal(t, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), q.DateRange.Max)
}

func TestBuilder_Build_NoLocations(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	entities := []domain.ExtractedEntity{
		{Type: domain.EntityDate, Text: "2015-03-01", Confidence: 0.8},
		{Type: domain.EntityDate, Text: "2016-06-01", Confidence: 0.7},
	}

	_, err := b.Build(context.Background(), testInput, entities)

	assert.ErrorIs(t, err, domain.ErrNoLocationsFound)
	assert.Equal(t, 0, geo.calls)
}

func TestBuilder_Build_NoDates(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	entities := []domain.ExtractedEntity{
		{Type: domain.EntityLocation, Text: "Paris", Confidence: 0.9},
		{Type: domain.EntityDate, Text: "2005-01-01", Confidence: 0.8},
	}

	_, err := b.Build(context.Background(), testInput, entities)

	assert.ErrorIs(t, err, domain.ErrNoDatesFound)
	assert.Equal(t, 0, geo.calls)
}

func TestBuilder_Build_NoVariable(t *testing.T) {
	geo := &mockGeocoder{result: parisGeometry()}
	b := newBuilder(geo)

	_, err := b.Build(context.Background(), "nothing relevant here", entityList())

	assert.ErrorIs(t, err, domain.ErrNoVariableFound)
	assert.Equal(t, 0, geo.calls, "geocoder should not be called when classification fails")
}

func TestBuilder_Build_GeocoderErrorPropagatesUntranslated(t *testing.T) {
	geoErr := errors.New("rate limited")
	geo := &mockGeocoder{err: geoErr}
	b := newBuilder(geo)

	_, err := b.Build(context.Background(), testInput, entityList())

	assert.ErrorIs(t, err, geoErr)
	code, ok := domain.ClassificationErrorCode(err)
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestBuilder_Build_PointGeometryGetsDegenerateBox(t *testing.T) {
	geo := &mockGeocoder{result: domain.GeometryResult{
		PlaceName: "Paris",
		Center:    domain.Geo{Lat: 48.85, Lon: 2.35},
	}}
	b := newBuilder(geo)

	q, err := b.Build(context.Background(), testInput, entityList())

	require.NoError(t, err)
	assert.Equal(t, q.Bounds.Lat.Min, q.Bounds.Lat.Max)
	assert.Equal(t, q.Bounds.Lon.Min, q.Bounds.Lon.Max)
}
