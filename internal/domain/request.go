package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// BuildDataRequest converts a validated Query into the concrete provider
// request. Pure and idempotent: the same Query always yields an identical
// DataRequest, and since every ingredient was validated upstream this stage
// cannot fail.
//
// The representative instant is the millisecond midpoint of the date range.
// Its hour is deliberately not part of the options; the dataset is fetched
// at daily granularity.
func BuildDataRequest(query Query) DataRequest {
	midpoint := rangeMidpointUTC(query.DateRange)
	bounds := query.Bounds

	return DataRequest{
		DatasetName: DatasetERA5SingleLevels,
		Options: RequestOptions{
			Variable:    query.Variable,
			ProductType: "reanalysis",
			Grid: []string{
				gridCells(bounds.Lat),
				gridCells(bounds.Lon),
			},
			// North, west, south, east per the CDS area convention.
			Area: []string{
				formatDegrees(bounds.Lat.Max),
				formatDegrees(bounds.Lon.Min),
				formatDegrees(bounds.Lat.Min),
				formatDegrees(bounds.Lon.Max),
			},
			Year:   strconv.Itoa(midpoint.Year()),
			Month:  fmt.Sprintf("%02d", int(midpoint.Month())),
			Day:    fmt.Sprintf("%02d", midpoint.Day()),
			Format: "grib",
		},
	}
}

// rangeMidpointUTC returns the arithmetic midpoint of the range in
// millisecond precision, as a UTC calendar time.
func rangeMidpointUTC(r DateRange) time.Time {
	minMs := r.Min.UnixMilli()
	maxMs := r.Max.UnixMilli()
	return time.UnixMilli(minMs + (maxMs-minMs)/2).UTC()
}

// gridCells is the requested resolution for one axis: the ceiling of the
// box span in degrees. Larger boxes get a coarser grid rather than a
// single-point request.
func gridCells(r CoordinateRange) string {
	return strconv.Itoa(int(math.Ceil(r.Max - r.Min)))
}

// formatDegrees renders a coordinate with the shortest exact decimal form.
func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
