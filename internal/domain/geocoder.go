package domain

import (
	"context"

	"github.com/umahmood/haversine"
)

// GeometryResult is the geometry a geocoding provider resolved for a
// location string. Viewport is the provider's bounding box when it returns
// one; Center is always populated.
type GeometryResult struct {
	PlaceName        string
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
	Center           Geo
	Viewport         *GeoBoundingBox
}

// Geocoder resolves a free-text location to a geometry.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (GeometryResult, error)
}

// BoundingBox derives the query bounding box from the geometry: the
// provider viewport when present, otherwise a degenerate box at the center
// point (min == max on both axes).
func (g GeometryResult) BoundingBox() GeoBoundingBox {
	if g.Viewport != nil {
		return *g.Viewport
	}
	return GeoBoundingBox{
		Lat: CoordinateRange{Min: g.Center.Lat, Max: g.Center.Lat},
		Lon: CoordinateRange{Min: g.Center.Lon, Max: g.Center.Lon},
	}
}

// DiagonalKm is the great-circle distance between the box's southwest and
// northeast corners. Reported alongside interpretations so operators can
// spot suspiciously large geocoding viewports.
func (b GeoBoundingBox) DiagonalKm() float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: b.Lat.Min, Lon: b.Lon.Min},
		haversine.Coord{Lat: b.Lat.Max, Lon: b.Lon.Max},
	)
	return km
}
