// Package query assembles validated climate queries from raw text and
// extracted entities.
package query

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/climate-query-service/internal/domain"
)

// Builder orchestrates entity classification, variable classification, and
// the geocoding lookup into a fully populated domain.Query. The geocoding
// call is the only suspension point; everything else is pure.
type Builder struct {
	geocoder  domain.Geocoder
	variables *domain.VariableClassifier
	logger    *slog.Logger
}

// NewBuilder creates a Builder around the given geocoder.
func NewBuilder(geocoder domain.Geocoder, variables *domain.VariableClassifier, logger *slog.Logger) *Builder {
	return &Builder{
		geocoder:  geocoder,
		variables: variables,
		logger:    logger,
	}
}

// Build interprets one user query. Classification failures surface as the
// domain sentinel errors; geocoder failures propagate untranslated. A Query
// is only returned when every ingredient resolved — there are no partial
// results.
func (b *Builder) Build(ctx context.Context, inputText string, entities []domain.ExtractedEntity) (domain.Query, error) {
	classified, err := domain.ClassifyEntities(entities)
	if err != nil {
		return domain.Query{}, err
	}

	variable, err := b.variables.Classify(inputText)
	if err != nil {
		return domain.Query{}, err
	}

	// Highest-confidence location wins; ClassifyEntities guarantees at
	// least one.
	location := classified.Locations[0]
	geometry, err := b.geocoder.Resolve(ctx, location)
	if err != nil {
		return domain.Query{}, err
	}

	query := domain.Query{
		DateRange: domain.SelectDateRange(classified.Dates),
		Geometry:  geometry,
		Bounds:    geometry.BoundingBox(),
		Variable:  variable,
	}

	b.logger.Debug("query built",
		"location", location,
		"place", geometry.PlaceName,
		"variable", variable,
		"dates", len(classified.Dates),
		"span_km", query.Bounds.DiagonalKm(),
	)

	return query, nil
}
