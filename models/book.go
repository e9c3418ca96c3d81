// Package models defines data structures for the book insights pipeline.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Sentiment is the three-way polarity label attached to every record.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Placeholders used instead of empty values for display fields.
const (
	AvailabilityUnknown = "Unknown"
	RatingNotRated      = "Not Rated"
)

// Column names shared by the CSV header and the JSON object keys.
const (
	ColumnTitle        = "Title"
	ColumnPrice        = "Price (£)"
	ColumnAvailability = "Availability"
	ColumnRating       = "Rating"
	ColumnSentiment    = "Sentiment"
)

// Columns lists the export columns in their fixed order.
var Columns = []string{ColumnTitle, ColumnPrice, ColumnAvailability, ColumnRating, ColumnSentiment}

// BookRecord is one normalised catalogue entry.
type BookRecord struct {
	Title        string
	Price        *float64
	Availability string
	Rating       string
	Sentiment    Sentiment
}

// PriceString renders the price as a plain decimal, or "" when absent.
func (b BookRecord) PriceString() string {
	if b.Price == nil {
		return ""
	}
	return strconv.FormatFloat(*b.Price, 'f', -1, 64)
}

// Row returns the record as CSV cells in Columns order.
func (b BookRecord) Row() []string {
	return []string{b.Title, b.PriceString(), b.Availability, b.Rating, string(b.Sentiment)}
}

// MarshalJSON encodes the record as an object whose keys follow Columns order.
// Struct tags cannot carry the "£" key, so the object is assembled by hand.
func (b BookRecord) MarshalJSON() ([]byte, error) {
	values := []any{b.Title, b.Price, b.Availability, b.Rating, b.Sentiment}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, column := range Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(values[i])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", column, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object produced by MarshalJSON.
func (b *BookRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out BookRecord
	targets := map[string]any{
		ColumnTitle:        &out.Title,
		ColumnPrice:        &out.Price,
		ColumnAvailability: &out.Availability,
		ColumnRating:       &out.Rating,
		ColumnSentiment:    &out.Sentiment,
	}
	for column, target := range targets {
		value, ok := raw[column]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("decode %s: %w", column, err)
		}
	}
	*b = out
	return nil
}

// ScrapeStats summarises a single scrape attempt.
type ScrapeStats struct {
	URL             string
	StartTime       time.Time
	EndTime         time.Time
	BytesFetched    int
	ContainersFound int
	RecordCount     int
	SkippedCount    int
}

// Duration returns the wall time of the scrape.
func (s ScrapeStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
