// Package sentiment derives a three-way polarity label from short texts such as book titles.
//
// Scores come from a fixed word lexicon: each sentiment-bearing word contributes its
// polarity, scaled by a preceding intensifier and inverted by a preceding negation,
// and the text's polarity is the mean of those contributions clamped to [-1, 1].
// Texts without sentiment-bearing words score exactly 0.
package sentiment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aluiziolira/book-insights/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Polarity scores text in [-1, 1]. It is a pure function of its input.
func Polarity(text string) float64 {
	var (
		sum       float64
		count     int
		intensity = 1.0
		negated   bool
	)

	for _, token := range tokenize(text) {
		if factor, ok := intensifiers[token]; ok {
			intensity *= factor
			continue
		}
		if _, ok := negations[token]; ok || strings.HasSuffix(token, "n't") {
			negated = true
			continue
		}

		if polarity, ok := lexicon[token]; ok {
			score := clamp(polarity * intensity)
			if negated {
				score *= negationFactor
			}
			sum += score
			count++
		}
		intensity = 1.0
		negated = false
	}

	if count == 0 {
		return 0
	}
	return clamp(sum / float64(count))
}

// Label maps a polarity score to its sentiment. Exactly zero is Neutral.
func Label(score float64) models.Sentiment {
	switch {
	case score > 0:
		return models.SentimentPositive
	case score < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Classifier memoises polarity scores for repeated texts.
type Classifier struct {
	cache *lru.Cache[string, float64]
}

// NewClassifier builds a classifier holding up to cacheSize scores.
func NewClassifier(cacheSize int) (*Classifier, error) {
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create sentiment cache: %w", err)
	}
	return &Classifier{cache: cache}, nil
}

// Polarity returns the cached or freshly computed score for text.
// A nil Classifier computes without caching.
func (c *Classifier) Polarity(text string) float64 {
	if c == nil || c.cache == nil {
		return Polarity(text)
	}
	if score, ok := c.cache.Get(text); ok {
		return score
	}
	score := Polarity(text)
	c.cache.Add(text, score)
	return score
}

// Classify returns the sentiment label for text.
func (c *Classifier) Classify(text string) models.Sentiment {
	return Label(c.Polarity(text))
}

// Cached reports how many scores are currently memoised.
func (c *Classifier) Cached() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
