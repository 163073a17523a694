// Package mapbox implements domain.Geocoder using the Mapbox Geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/observability"
)

// Client resolves free-text locations via the Mapbox forward geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve converts a location string to a geometry. The feature bbox becomes
// the viewport when Mapbox returns one; point-only features yield a geometry
// with just a center. An empty (zero-value) result with a nil error means
// the provider found nothing.
func (c *Client) Resolve(ctx context.Context, location string) (domain.GeometryResult, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(location))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality,region,country"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case result.FormattedAddress == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("no geocoding results", "location", location)
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}

	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeometryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeometryResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeometryResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeometryResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeometryResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeometryResult{}, nil
	}

	return mapFeature(mapboxResp.Features[0]), nil
}

// mapFeature converts a Mapbox feature into the domain geometry.
func mapFeature(f feature) domain.GeometryResult {
	result := domain.GeometryResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		result.Center = domain.Geo{Lon: f.Center[0], Lat: f.Center[1]}
	}
	// Mapbox bbox order is [west, south, east, north].
	if len(f.BBox) == 4 {
		result.Viewport = &domain.GeoBoundingBox{
			Lat: domain.CoordinateRange{Min: f.BBox[1], Max: f.BBox[3]},
			Lon: domain.CoordinateRange{Min: f.BBox[0], Max: f.BBox[2]},
		}
	}
	return result
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	BBox      []float64 `json:"bbox"`   // [west, south, east, north]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
