// Command interpret runs a single query through the interpretation flow and
// prints the resulting data request as JSON. Entities normally come from the
// NER service; pass -date / -location flags to bypass it.
//
// Usage:
//
//	MAPBOX_TOKEN=... go run ./cmd/interpret -query "was it rainy in Paris in March 2015?"
//	MAPBOX_TOKEN=... go run ./cmd/interpret -query "how cold was it" \
//	  -location Paris -date 2015-03-01 -date 2015-03-08
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/climate-query-service/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-query-service/internal/adapter/ner"
	"github.com/couchcryptid/climate-query-service/internal/config"
	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/observability"
	"github.com/couchcryptid/climate-query-service/internal/query"
	"github.com/couchcryptid/climate-query-service/internal/service"
)

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// staticExtractor serves entities supplied on the command line instead of
// calling the NER service. Flag order stands in for confidence: earlier
// flags rank higher.
type staticExtractor struct {
	entities []domain.ExtractedEntity
}

func (e staticExtractor) Extract(_ context.Context, _ string) ([]domain.ExtractedEntity, error) {
	return e.entities, nil
}

func buildStaticEntities(dates, locations []string) []domain.ExtractedEntity {
	entities := make([]domain.ExtractedEntity, 0, len(dates)+len(locations))
	confidence := 1.0
	for _, loc := range locations {
		entities = append(entities, domain.ExtractedEntity{Type: domain.EntityLocation, Text: loc, Confidence: confidence})
		confidence -= 0.01
	}
	for _, d := range dates {
		entities = append(entities, domain.ExtractedEntity{Type: domain.EntityDate, Text: d, Confidence: confidence})
		confidence -= 0.01
	}
	return entities
}

func main() {
	var dates, locations stringList
	queryText := flag.String("query", "", "free-text climate question")
	flag.Var(&dates, "date", "date entity (repeatable, skips NER)")
	flag.Var(&locations, "location", "location entity (repeatable, skips NER)")
	flag.Parse()

	if *queryText == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*queryText, dates, locations); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(queryText string, dates, locations []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	// The CLI never serves /metrics; an unregistered set keeps the default
	// registry untouched.
	metrics := observability.NewMetricsForTesting()

	if !cfg.MapboxEnabled {
		return fmt.Errorf("geocoding is required: set MAPBOX_TOKEN")
	}
	geocoder := mapbox.NewCachedGeocoder(
		mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger),
		cfg.MapboxCacheSize, metrics)

	var extractor domain.Extractor
	if len(dates) > 0 || len(locations) > 0 {
		extractor = staticExtractor{entities: buildStaticEntities(dates, locations)}
	} else {
		extractor = ner.NewClient(cfg.NERBaseURL, cfg.NERTimeout, logger)
	}

	builder := query.NewBuilder(geocoder, domain.NewVariableClassifier(domain.DefaultVocabulary), logger)
	interpreter := service.NewInterpreter(extractor, builder, nil, metrics, logger)

	in, err := interpreter.Interpret(context.Background(), queryText)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}
