package domain

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"
)

// Supported year window of the provisioned ERA5 slice, inclusive.
const (
	minSupportedYear = 2008
	maxSupportedYear = 2017
)

// EntityClassification is the outcome of splitting a scored entity list
// into its temporal and spatial candidates. Both slices are ordered by
// descending confidence.
type EntityClassification struct {
	Dates     []time.Time
	Locations []string
}

// ClassifyEntities splits extracted entities into date and location
// candidates. Entities are ranked by descending confidence with ties keeping
// their extraction order; the stability matters because downstream picks the
// first location and the first/last dates.
//
// DATE entities are parsed permissively; texts that fail to parse or whose
// year falls outside the supported window are silently dropped. Entity types
// other than DATE and LOCATION are ignored.
//
// Returns ErrNoDatesFound or ErrNoLocationsFound when either candidate list
// ends up empty.
func ClassifyEntities(entities []ExtractedEntity) (EntityClassification, error) {
	ranked := make([]ExtractedEntity, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	var result EntityClassification
	for _, entity := range ranked {
		switch entity.Type {
		case EntityDate:
			if date, ok := parseEntityDate(entity.Text); ok {
				result.Dates = append(result.Dates, date)
			}
		case EntityLocation:
			result.Locations = append(result.Locations, entity.Text)
		}
	}

	if len(result.Dates) == 0 {
		return EntityClassification{}, ErrNoDatesFound
	}
	if len(result.Locations) == 0 {
		return EntityClassification{}, ErrNoLocationsFound
	}
	return result, nil
}

// parseEntityDate parses a natural-language date string in UTC and checks it
// against the supported year window. The second return is false for both
// parse failures and out-of-window dates.
func parseEntityDate(text string) (time.Time, bool) {
	date, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if date.Year() < minSupportedYear || date.Year() > maxSupportedYear {
		return time.Time{}, false
	}
	return date, true
}
