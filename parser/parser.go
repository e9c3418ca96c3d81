// Package parser turns catalogue markup into normalised book records.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aluiziolira/book-insights/models"
)

// ValidateRecord ensures a record satisfies the result set invariants.
func ValidateRecord(b *models.BookRecord) error {
	if b == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("record missing title")
	}
	if b.Price != nil && (*b.Price < 0 || math.IsNaN(*b.Price) || math.IsInf(*b.Price, 0)) {
		return fmt.Errorf("record %q has invalid price %v", b.Title, *b.Price)
	}
	if strings.TrimSpace(b.Availability) == "" {
		return fmt.Errorf("record %q missing availability", b.Title)
	}
	if strings.TrimSpace(b.Rating) == "" {
		return fmt.Errorf("record %q missing rating", b.Title)
	}
	if !b.Sentiment.Valid() {
		return fmt.Errorf("record %q has unknown sentiment %q", b.Title, b.Sentiment)
	}
	return nil
}

// plainAmount is a decimal amount, optionally grouped by thousands commas.
var plainAmount = regexp.MustCompile(`^(?:[0-9]+|[0-9]{1,3}(?:,[0-9]{3})+)(?:\.[0-9]+)?$`)

// ParsePrice strips currency symbols and parses the remaining amount.
// It returns nil unless what remains is a plain non-negative decimal.
func ParsePrice(text string) *float64 {
	text = strings.ReplaceAll(text, "Â", "")
	text = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if !plainAmount.MatchString(text) {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// NormalizeAvailability collapses whitespace and falls back to AvailabilityUnknown.
func NormalizeAvailability(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return models.AvailabilityUnknown
	}
	return text
}

// RatingFromClasses reads the rating word from a star-rating class list.
// The word is the second token; anything else yields RatingNotRated.
func RatingFromClasses(classes []string) string {
	if len(classes) < 2 {
		return models.RatingNotRated
	}
	word := strings.TrimSpace(classes[1])
	if _, ok := ratingValues[word]; !ok {
		return models.RatingNotRated
	}
	return word
}

var ratingValues = map[string]int{
	"Zero":  0,
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// RatingToNumeric converts the textual rating to a numeric scale.
// The second result is false for RatingNotRated and unknown words.
func RatingToNumeric(rating string) (int, bool) {
	value, ok := ratingValues[strings.TrimSpace(rating)]
	return value, ok
}
