package domain

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// VariableVocabulary binds one climate variable to the stem terms that
// select it.
type VariableVocabulary struct {
	Variable ClimateVariable
	Terms    []string
}

// DefaultVocabulary is the ordered variable vocabulary. Order is load
// bearing: classification returns the first variable with a matching
// keyword, so an input matching both temperature and wind terms is always a
// temperature query. Treat as read-only.
var DefaultVocabulary = []VariableVocabulary{
	{Variable: VariableTemperature, Terms: []string{"hot", "cold", "warm", "freeze"}},
	{Variable: VariableTotalCloudCover, Terms: []string{"sun", "cloud", "clear", "overcast"}},
	{Variable: VariableTotalPrecipitation, Terms: []string{"dry", "wet", "rain", "moist"}},
	{Variable: VariableWindSpeed, Terms: []string{"wind", "storm", "calm"}},
}

// Keyword is a normalized token from the input text together with its
// snowball stem. Stems are surfaced for audit events and debug logging;
// vocabulary matching tests the raw keyword, not the stem (the stemmer
// output proved too aggressive for prefix matching).
type Keyword struct {
	Text string `json:"text"`
	Stem string `json:"stem"`
}

// VariableClassifier picks exactly one climate variable from raw input text.
// The vocabulary is injected at construction and never mutated.
type VariableClassifier struct {
	vocabulary []VariableVocabulary
}

// NewVariableClassifier creates a classifier over the given ordered
// vocabulary, typically DefaultVocabulary.
func NewVariableClassifier(vocabulary []VariableVocabulary) *VariableClassifier {
	return &VariableClassifier{vocabulary: vocabulary}
}

// Classify returns the first variable, in vocabulary order, for which any
// term is a prefix of any extracted keyword. Returns ErrNoVariableFound when
// nothing matches.
func (c *VariableClassifier) Classify(input string) (ClimateVariable, error) {
	keywords := c.Keywords(input)
	for _, vocab := range c.vocabulary {
		for _, term := range vocab.Terms {
			for _, kw := range keywords {
				if strings.HasPrefix(kw.Text, term) {
					return vocab.Variable, nil
				}
			}
		}
	}
	return "", ErrNoVariableFound
}

// Keywords tokenizes the input into lowercase letter-only keywords, dropping
// digits and duplicates while preserving first-occurrence order, and stems
// each one.
func (c *VariableClassifier) Keywords(input string) []Keyword {
	tokens := strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]Keyword, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, Keyword{
			Text: token,
			Stem: english.Stem(token, false),
		})
	}
	return keywords
}
