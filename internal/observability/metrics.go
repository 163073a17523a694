package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// query interpretation service.
type Metrics struct {
	InterpretationsTotal   prometheus.Counter
	InterpretationErrors   *prometheus.CounterVec // labels: reason={no_dates_found,no_locations_found,no_variable_found,geocoding,extraction}
	InterpretationDuration prometheus.Histogram
	DataRequestsSubmitted  prometheus.Counter

	// Streaming pipeline metrics.
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		InterpretationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "interpretations_total",
			Help:      "Total queries successfully interpreted into data requests.",
		}),
		InterpretationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "interpretation_errors_total",
			Help:      "Interpretation failures by reason.",
		}, []string{"reason"}),
		InterpretationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_query",
			Name:      "interpretation_duration_seconds",
			Help:      "Duration of a complete extract-classify-geocode-build cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DataRequestsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "data_requests_submitted_total",
			Help:      "Total requests submitted to the climate data provider.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "messages_consumed_total",
			Help:      "Total query messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "messages_produced_total",
			Help:      "Total interpretations written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "transform_errors_total",
			Help:      "Total pipeline messages skipped due to interpretation failure.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_query",
			Name:      "pipeline_running",
			Help:      "1 when the streaming pipeline is active, 0 when shut down.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_query",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_query",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_query",
			Name:      "geocode_enabled",
			Help:      "1 when the geocoding provider is configured, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.InterpretationsTotal,
		m.InterpretationErrors,
		m.InterpretationDuration,
		m.DataRequestsSubmitted,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		InterpretationsTotal:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_query", Name: "interpretations_total"}),
		InterpretationErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_query", Name: "interpretation_errors_total"}, []string{"reason"}),
		InterpretationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_query", Name: "interpretation_duration_seconds"}),
		DataRequestsSubmitted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_query", Name: "data_requests_submitted_total"}),
		MessagesConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_query", Name: "messages_consumed_total"}),
		MessagesProduced:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_query", Name: "messages_produced_total"}),
		TransformErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_query", Name: "transform_errors_total"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_query", Name: "pipeline_running"}),
		GeocodeRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_query", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_query", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_query", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_query", Name: "geocode_enabled"}),
	}
}
