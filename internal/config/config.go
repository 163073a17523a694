package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NER entity extraction sidecar.
	NERBaseURL string
	NERTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Copernicus CDS data provider.
	CDSBaseURL      string
	CDSKey          string
	CDSEnabled      bool
	CDSPollInterval time.Duration
	CDSPollTimeout  time.Duration

	// Streaming pipeline (optional).
	PipelineEnabled  bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nerTimeout, err := parsePositiveDuration("NER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cdsPollInterval, err := parsePositiveDuration("CDS_POLL_INTERVAL", "2s")
	if err != nil {
		return nil, err
	}
	cdsPollTimeout, err := parsePositiveDuration("CDS_POLL_TIMEOUT", "5m")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cdsKey := os.Getenv("CDS_KEY")
	cdsEnabled := cdsKey != ""
	if v := os.Getenv("CDS_ENABLED"); v != "" {
		cdsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NERBaseURL: envOrDefault("NER_URL", "http://localhost:8000"),
		NERTimeout: nerTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		CDSBaseURL:      envOrDefault("CDS_URL", "https://cds.climate.copernicus.eu/api/v2"),
		CDSKey:          cdsKey,
		CDSEnabled:      cdsEnabled,
		CDSPollInterval: cdsPollInterval,
		CDSPollTimeout:  cdsPollTimeout,

		PipelineEnabled:  os.Getenv("PIPELINE_ENABLED") == "true",
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "climate-queries"),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "climate-data-requests"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "climate-query-service"),
	}

	if cfg.NERBaseURL == "" {
		return nil, errors.New("NER_URL is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.CDSEnabled && cfg.CDSKey == "" {
		return nil, errors.New("CDS_ENABLED is true but CDS_KEY is not set")
	}
	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("PIPELINE_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSourceTopic == "" || cfg.KafkaSinkTopic == "" {
			return nil, errors.New("PIPELINE_ENABLED is true but source or sink topic is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
