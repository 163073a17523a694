// Package domain models the interpretation of free-text climate questions
// into bounded ERA5 reanalysis data requests.
//
// # Pipeline
//
// Raw text is run through an external named-entity-recognition service which
// produces scored DATE and LOCATION entities. This package classifies those
// entities, picks a climate variable from the raw text, and turns the
// resulting Query into a DataRequest a Copernicus-CDS-style provider accepts:
//
//	text → entities → ClassifyEntities + VariableClassifier → Query → DataRequest
//
// # Supported period
//
// Only dates in the years 2008–2017 are accepted; that is the slice of the
// ERA5 single-levels dataset this service is provisioned for. Entities whose
// parsed date falls outside the window are dropped during classification.
//
// # Variable vocabulary
//
// A query maps to exactly one of four ERA5 variables via keyword prefix
// matching against a fixed stem vocabulary:
//
//	2m_temperature      ← hot, cold, warm, freeze
//	total_cloud_cover   ← sun, cloud, clear, overcast
//	total_precipitation ← dry, wet, rain, moist
//	10m_wind_speed      ← wind, storm, calm
//
// The vocabulary is evaluated in that fixed order and the first variable with
// a matching keyword wins. Callers depend on this tie-break: "cold and windy"
// is always a temperature query.
//
// # Request conventions
//
// The CDS API expects area as [north, west, south, east] in decimal degrees
// and grid as degrees-per-cell strings. Grid resolution is the ceiling of the
// bounding-box span per axis, so larger regions are requested at a coarser
// resolution instead of as a single point. Requests carry year/month/day of
// the range midpoint only; the dataset is fetched at daily granularity.
package domain
