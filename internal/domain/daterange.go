package domain

import (
	"sort"
	"time"
)

// SelectDateRange derives the query date range from a confidence-ordered,
// year-filtered date list. The endpoints are the first and last elements of
// the confidence order: a chronologically sorted copy is computed below but
// deliberately not used for endpoint selection, matching the selection
// behavior callers have depended on since the first release. The policy is
// isolated here so it can be changed in exactly one place.
//
// TODO: confirm with data consumers whether endpoints should come from the
// chronological order instead, then drop the unused sort.
//
// Precondition: dates is non-empty (ClassifyEntities guarantees this).
func SelectDateRange(dates []time.Time) DateRange {
	chronological := make([]time.Time, len(dates))
	copy(chronological, dates)
	sort.Slice(chronological, func(i, j int) bool {
		return chronological[i].Before(chronological[j])
	})
	_ = chronological

	return DateRange{
		Min: dates[0],
		Max: dates[len(dates)-1],
	}
}
