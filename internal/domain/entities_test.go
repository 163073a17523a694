package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testParis  = "Paris"
	testLondon = "London"
)

func dateEntity(text string, confidence float64) ExtractedEntity {
	return ExtractedEntity{Type: EntityDate, Text: text, Confidence: confidence}
}

func locationEntity(text string, confidence float64) ExtractedEntity {
	return ExtractedEntity{Type: EntityLocation, Text: text, Confidence: confidence}
}

func TestClassifyEntities(t *testing.T) {
	t.Run("splits dates and locations", func(t *testing.T) {
		entities := []ExtractedEntity{
			locationEntity(testParis, 0.9),
			dateEntity("2015-03-01", 0.8),
			dateEntity("May 12, 2016", 0.7),
		}

		result, err := ClassifyEntities(entities)

		require.NoError(t, err)
		require.Len(t, result.Dates, 2)
		assert.Equal(t, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), result.Dates[0])
		assert.Equal(t, time.Date(2016, 5, 12, 0, 0, 0, 0, time.UTC), result.Dates[1])
		assert.Equal(t, []string{testParis}, result.Locations)
	})

	t.Run("orders by descending confidence", func(t *testing.T) {
		entities := []ExtractedEntity{
			locationEntity(testLondon, 0.4),
			dateEntity("2016-06-01", 0.5),
			locationEntity(testParis, 0.9),
			dateEntity("2015-03-01", 0.8),
		}

		result, err := ClassifyEntities(entities)

		require.NoError(t, err)
		assert.Equal(t, []string{testParis, testLondon}, result.Locations)
		assert.Equal(t, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), result.Dates[0])
		assert.Equal(t, time.Date(2016, 6, 1, 0, 0, 0, 0, time.UTC), result.Dates[1])
	})

	t.Run("equal confidence keeps extraction order", func(t *testing.T) {
		entities := []ExtractedEntity{
			locationEntity(testLondon, 0.5),
			locationEntity(testParis, 0.5),
			dateEntity("2015-03-01", 0.5),
		}

		result, err := ClassifyEntities(entities)

		require.NoError(t, err)
		assert.Equal(t, []string{testLondon, testParis}, result.Locations)
	})

	t.Run("ignores unrecognized entity types", func(t *testing.T) {
		entities := []ExtractedEntity{
			{Type: "PERSON", Text: "Ada", Confidence: 0.99},
			dateEntity("2015-03-01", 0.8),
			locationEntity(testParis, 0.7),
		}

		result, err := ClassifyEntities(entities)

		require.NoError(t, err)
		assert.Len(t, result.Dates, 1)
		assert.Len(t, result.Locations, 1)
	})

	t.Run("drops unparseable date texts", func(t *testing.T) {
		entities := []ExtractedEntity{
			dateEntity("sometime nice", 0.9),
			dateEntity("2015-03-01", 0.8),
			locationEntity(testParis, 0.7),
		}

		result, err := ClassifyEntities(entities)

		require.NoError(t, err)
		require.Len(t, result.Dates, 1)
		assert.Equal(t, 2015, result.Dates[0].Year())
	})

	t.Run("no dates found when all years outside window", func(t *testing.T) {
		entities := []ExtractedEntity{
			dateEntity("2005-06-01", 0.9),
			dateEntity("2020-01-15", 0.8),
			locationEntity(testParis, 0.7),
		}

		_, err := ClassifyEntities(entities)

		assert.ErrorIs(t, err, ErrNoDatesFound)
	})

	t.Run("no locations found regardless of dates", func(t *testing.T) {
		entities := []ExtractedEntity{
			dateEntity("2015-03-01", 0.9),
			dateEntity("2016-06-01", 0.8),
		}

		_, err := ClassifyEntities(entities)

		assert.ErrorIs(t, err, ErrNoLocationsFound)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ClassifyEntities(nil)
		assert.ErrorIs(t, err, ErrNoDatesFound)
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		entities := []ExtractedEntity{
			locationEntity(testLondon, 0.1),
			dateEntity("2015-03-01", 0.9),
		}

		_, err := ClassifyEntities(entities)

		require.NoError(t, err)
		assert.Equal(t, testLondon, entities[0].Text)
	})
}

func TestParseEntityDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
		year int
	}{
		{"ISO date", "2015-03-01", true, 2015},
		{"written date", "March 1, 2015", true, 2015},
		{"window lower bound", "2008-01-01", true, 2008},
		{"window upper bound", "2017-12-31", true, 2017},
		{"below window", "2007-12-31", false, 0},
		{"above window", "2018-01-01", false, 0},
		{"garbage", "definitely not a date", false, 0},
		{"empty", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := parseEntityDate(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.year, date.Year())
				assert.Equal(t, time.UTC, date.Location())
			}
		})
	}
}
