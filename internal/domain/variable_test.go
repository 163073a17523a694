package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClassifier() *VariableClassifier {
	return NewVariableClassifier(DefaultVocabulary)
}

func TestVariableClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ClimateVariable
		err      error
	}{
		{"temperature from cold", "was it cold in Oslo?", VariableTemperature, nil},
		{"temperature from freeze", "did the lake freeze over", VariableTemperature, nil},
		{"cloud cover from sunny", "how sunny was the coast", VariableTotalCloudCover, nil},
		{"precipitation from rainy", "was it rainy in Paris in March 2015?", VariableTotalPrecipitation, nil},
		{"wind from windy", "how windy was it", VariableWindSpeed, nil},
		{"wind from storms", "any storms that month", VariableWindSpeed, nil},
		{"enumeration order breaks ties", "It was so cold and windy", VariableTemperature, nil},
		{"precipitation beats wind in order", "wet and stormy evening", VariableTotalPrecipitation, nil},
		{"case insensitive", "COLD AND DARK", VariableTemperature, nil},
		{"no match", "nothing relevant here", "", ErrNoVariableFound},
		{"empty input", "", "", ErrNoVariableFound},
		{"digits only", "2015 03 01", "", ErrNoVariableFound},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variable, err := c.Classify(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, variable)
		})
	}
}

func TestVariableClassifier_Classify_FirstMatchIsDeterministic(t *testing.T) {
	c := testClassifier()

	// Both temperature and wind vocabularies match; enumeration order places
	// temperature first, so the result must never flap.
	for range 50 {
		variable, err := c.Classify("It was so cold and windy")
		require.NoError(t, err)
		assert.Equal(t, VariableTemperature, variable)
	}
}

func TestVariableClassifier_Keywords(t *testing.T) {
	c := testClassifier()

	t.Run("lowercases and strips digits", func(t *testing.T) {
		keywords := c.Keywords("Rainy Paris March 2015")

		texts := keywordTexts(keywords)
		assert.Equal(t, []string{"rainy", "paris", "march"}, texts)
	})

	t.Run("deduplicates preserving first occurrence", func(t *testing.T) {
		keywords := c.Keywords("rain rain wind rain")

		texts := keywordTexts(keywords)
		assert.Equal(t, []string{"rain", "wind"}, texts)
	})

	t.Run("stems each keyword", func(t *testing.T) {
		keywords := c.Keywords("raining")

		require.Len(t, keywords, 1)
		assert.Equal(t, "raining", keywords[0].Text)
		assert.Equal(t, "rain", keywords[0].Stem)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, c.Keywords(""))
	})
}

func keywordTexts(keywords []Keyword) []string {
	texts := make([]string, len(keywords))
	for i, kw := range keywords {
		texts[i] = kw.Text
	}
	return texts
}
