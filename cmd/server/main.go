// Command server runs the climate query interpretation service: an HTTP API
// plus an optional Kafka pipeline that interprets free-text climate questions
// into ERA5 data requests.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-query-service/internal/adapter/cds"
	httpadapter "github.com/couchcryptid/climate-query-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-query-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-query-service/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-query-service/internal/adapter/ner"
	"github.com/couchcryptid/climate-query-service/internal/config"
	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/observability"
	"github.com/couchcryptid/climate-query-service/internal/pipeline"
	"github.com/couchcryptid/climate-query-service/internal/query"
	"github.com/couchcryptid/climate-query-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geocoder is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN. Without
	// it the service cannot resolve locations, so interpretation is refused.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		geocoder = disabledGeocoder{}
		logger.Warn("mapbox geocoding disabled, interpretation requests will fail")
	}

	extractor := ner.NewClient(cfg.NERBaseURL, cfg.NERTimeout, logger)

	var dataService domain.DataService
	if cfg.CDSEnabled {
		dataService = cds.NewClient(cfg.CDSBaseURL, cfg.CDSKey, cfg.CDSPollInterval, cfg.CDSPollTimeout, logger)
		logger.Info("cds data retrieval enabled", "base_url", cfg.CDSBaseURL)
	} else {
		logger.Info("cds data retrieval disabled")
	}

	builder := query.NewBuilder(geocoder, domain.NewVariableClassifier(domain.DefaultVocabulary), logger)
	interpreter := service.NewInterpreter(extractor, builder, dataService, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// When the pipeline runs, readiness follows its first processed message;
	// otherwise the HTTP path is ready as soon as it is wired.
	var ready httpadapter.ReadinessChecker = interpreter

	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(interpreter, logger)

		p := pipeline.New(reader, transformer, writer, logger, metrics)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, interpreter, ready, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// disabledGeocoder fails every lookup with a clear configuration error.
type disabledGeocoder struct{}

func (disabledGeocoder) Resolve(_ context.Context, _ string) (domain.GeometryResult, error) {
	return domain.GeometryResult{}, errors.New("geocoding is not configured (set MAPBOX_TOKEN)")
}
