package domain

import "time"

// EntityType identifies the kind of extraction the NER service produced.
// The extractor may emit further types (PERSON, ORGANIZATION, ...); the
// interpretation pipeline only consumes dates and locations and ignores
// the rest.
type EntityType string

const (
	EntityDate     EntityType = "DATE"
	EntityLocation EntityType = "LOCATION"
)

// ExtractedEntity is a scored text extraction from the NER service.
// Confidence is used for ranking only; it is never validated against a
// threshold.
type ExtractedEntity struct {
	Type       EntityType `json:"type"`
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
}

// ClimateVariable is one of the ERA5 single-levels variables this service
// can request. The values are the CDS API variable names.
type ClimateVariable string

const (
	VariableTemperature        ClimateVariable = "2m_temperature"
	VariableTotalCloudCover    ClimateVariable = "total_cloud_cover"
	VariableTotalPrecipitation ClimateVariable = "total_precipitation"
	VariableWindSpeed          ClimateVariable = "10m_wind_speed"
)

// DatasetERA5SingleLevels is the single dataset this service requests from.
const DatasetERA5SingleLevels = "reanalysis-era5-single-levels"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CoordinateRange is a min/max span over a single axis, in decimal degrees.
// Invariant: Min <= Max.
type CoordinateRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GeoBoundingBox is a rectangular region over latitude and longitude.
type GeoBoundingBox struct {
	Lat CoordinateRange `json:"latitude"`
	Lon CoordinateRange `json:"longitude"`
}

// DateRange is the temporal extent of a query. Endpoints are picked by
// SelectDateRange; both years lie in the supported 2008–2017 window.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Query is a fully specified, validated climate question. It is built once
// per user query, never mutated, and consumed exactly once to produce a
// DataRequest. No partially populated Query is ever returned to a caller.
type Query struct {
	DateRange DateRange
	Geometry  GeometryResult
	Bounds    GeoBoundingBox
	Variable  ClimateVariable
}

// RequestOptions is the option block of a CDS retrieve call.
// Area is [north, west, south, east] and Grid is [lat, lon] degrees per
// cell, both as decimal-degree strings per the CDS convention.
type RequestOptions struct {
	Variable    ClimateVariable `json:"variable"`
	ProductType string          `json:"product_type"`
	Grid        []string        `json:"grid"`
	Area        []string        `json:"area"`
	Year        string          `json:"year"`
	Month       string          `json:"month"`
	Day         string          `json:"day"`
	Format      string          `json:"format"`
}

// DataRequest describes exactly what to fetch from the climate data
// provider. Built once from a Query and never mutated.
type DataRequest struct {
	DatasetName string         `json:"dataset_name"`
	Options     RequestOptions `json:"options"`
}

// DownloadLink is the provider's handle for a submitted data request.
type DownloadLink struct {
	RequestID string `json:"request_id"`
	State     string `json:"state"`
	Location  string `json:"location,omitempty"`
}

// Interpretation is the full result of interpreting one user query: the
// structured reading of the text plus the concrete provider request.
type Interpretation struct {
	ID               string          `json:"id"`
	InputText        string          `json:"input_text"`
	Variable         ClimateVariable `json:"variable"`
	PlaceName        string          `json:"place_name,omitempty"`
	FormattedAddress string          `json:"formatted_address,omitempty"`
	DateRange        DateRange       `json:"date_range"`
	Bounds           GeoBoundingBox  `json:"bounds"`
	SpanKm           float64         `json:"span_km"`
	Request          DataRequest     `json:"request"`
	ProcessedAt      time.Time       `json:"processed_at"`
}
