// Package service exposes the query interpretation use case to the HTTP
// server and the streaming pipeline.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/observability"
	"github.com/couchcryptid/climate-query-service/internal/query"
	"github.com/google/uuid"
)

// Interpreter runs the full interpretation flow: entity extraction, query
// building, and data request construction. Submission to the data provider
// is optional and controlled by whether a DataService is wired in.
type Interpreter struct {
	extractor   domain.Extractor
	builder     *query.Builder
	dataService domain.DataService // nil when CDS submission is disabled
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewInterpreter creates the interpretation service. dataService may be nil;
// interpretations are then built but never submitted.
func NewInterpreter(
	extractor domain.Extractor,
	builder *query.Builder,
	dataService domain.DataService,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Interpreter {
	return &Interpreter{
		extractor:   extractor,
		builder:     builder,
		dataService: dataService,
		metrics:     metrics,
		logger:      logger,
	}
}

// Interpret converts one free-text climate question into an Interpretation.
// Classification failures carry the domain sentinel errors so callers can
// distinguish user error from infrastructure failure.
func (s *Interpreter) Interpret(ctx context.Context, text string) (domain.Interpretation, error) {
	start := time.Now()

	entities, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.metrics.InterpretationErrors.WithLabelValues("extraction").Inc()
		return domain.Interpretation{}, fmt.Errorf("extract entities: %w", err)
	}

	q, err := s.builder.Build(ctx, text, entities)
	if err != nil {
		s.metrics.InterpretationErrors.WithLabelValues(errorReason(err)).Inc()
		return domain.Interpretation{}, err
	}

	in := domain.Interpretation{
		ID:               uuid.NewString(),
		InputText:        text,
		Variable:         q.Variable,
		PlaceName:        q.Geometry.PlaceName,
		FormattedAddress: q.Geometry.FormattedAddress,
		DateRange:        q.DateRange,
		Bounds:           q.Bounds,
		SpanKm:           q.Bounds.DiagonalKm(),
		Request:          domain.BuildDataRequest(q),
		ProcessedAt:      domain.Now(),
	}

	s.metrics.InterpretationsTotal.Inc()
	s.metrics.InterpretationDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("query interpreted",
		"id", in.ID,
		"variable", in.Variable,
		"place", in.PlaceName,
		"span_km", in.SpanKm)

	return in, nil
}

// Retrieve submits an interpretation's data request to the provider, waits
// for completion, and downloads the payload. Requires a wired DataService.
func (s *Interpreter) Retrieve(ctx context.Context, in domain.Interpretation) ([]byte, error) {
	if s.dataService == nil {
		return nil, fmt.Errorf("data retrieval is not configured")
	}

	link, err := s.dataService.Submit(ctx, in.Request)
	if err != nil {
		return nil, fmt.Errorf("submit data request: %w", err)
	}
	s.metrics.DataRequestsSubmitted.Inc()
	s.logger.Info("data request submitted", "id", in.ID, "request_id", link.RequestID)

	url, err := s.dataService.Resolve(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("resolve data request: %w", err)
	}

	payload, err := s.dataService.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	s.logger.Info("data retrieved", "id", in.ID, "bytes", len(payload))
	return payload, nil
}

// RetrievalEnabled reports whether a data provider is wired in.
func (s *Interpreter) RetrievalEnabled() bool {
	return s.dataService != nil
}

// CheckReadiness reports whether the service can serve interpretation
// traffic. The HTTP path has no warm-up phase; a constructed Interpreter has
// all collaborators wired.
func (s *Interpreter) CheckReadiness(_ context.Context) error {
	return nil
}

// errorReason maps an interpretation error to a metrics label. Classification
// errors use their stable codes; everything else at this stage came from the
// geocoder.
func errorReason(err error) string {
	if code, ok := domain.ClassificationErrorCode(err); ok {
		return code
	}
	return "geocoding"
}
