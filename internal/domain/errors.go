package domain

import "errors"

// Classification failures are distinct, named conditions so callers can
// present a targeted message ("I couldn't find a date in your query").
// They are terminal for the current query; nothing in this package retries.
var (
	// ErrNoDatesFound means no extracted entity was both typed as a date
	// and inside the supported 2008–2017 window.
	ErrNoDatesFound = errors.New("no usable date found in query")

	// ErrNoLocationsFound means no extracted entity was typed as a location.
	ErrNoLocationsFound = errors.New("no location found in query")

	// ErrNoVariableFound means no vocabulary term matched the query keywords.
	ErrNoVariableFound = errors.New("no climate variable found in query")
)

// ClassificationErrorCode maps a classification failure to its stable wire
// code, used in HTTP responses and metric labels. The second return is false
// for errors that are not classification failures (geocoding, provider, ...).
func ClassificationErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNoDatesFound):
		return "no_dates_found", true
	case errors.Is(err, ErrNoLocationsFound):
		return "no_locations_found", true
	case errors.Is(err, ErrNoVariableFound):
		return "no_variable_found", true
	default:
		return "", false
	}
}
