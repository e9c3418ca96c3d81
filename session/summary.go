package session

import (
	"math"
	"sort"

	"github.com/aluiziolira/book-insights/models"
	"github.com/aluiziolira/book-insights/parser"
)

// HistogramBins is the number of equal-width price buckets.
const HistogramBins = 10

// Bucket is one price histogram bin. The last bin includes its upper bound.
type Bucket struct {
	Lower float64
	Upper float64
	Count int
}

// Count pairs a label with its frequency.
type Count struct {
	Label string
	Count int
}

// Summary aggregates a view for charting.
type Summary struct {
	Total          int
	Priced         int
	MinPrice       float64
	MaxPrice       float64
	MeanPrice      float64
	Rated          int
	MeanRating     float64
	PriceHistogram []Bucket
	Sentiments     map[models.Sentiment]int
	Ratings        map[string]int
	Availability   map[string]int
}

// Summary computes distribution data over the view.
func (v View) Summary() Summary {
	s := Summary{
		Total:        len(v),
		Sentiments:   make(map[models.Sentiment]int),
		Ratings:      make(map[string]int),
		Availability: make(map[string]int),
	}

	var (
		prices    []float64
		priceSum  float64
		ratingSum int
	)
	for _, record := range v {
		s.Sentiments[record.Sentiment]++
		s.Ratings[record.Rating]++
		s.Availability[record.Availability]++

		if value, ok := parser.RatingToNumeric(record.Rating); ok {
			s.Rated++
			ratingSum += value
		}
		if record.Price != nil {
			prices = append(prices, *record.Price)
			priceSum += *record.Price
		}
	}

	if s.Rated > 0 {
		s.MeanRating = float64(ratingSum) / float64(s.Rated)
	}
	if len(prices) == 0 {
		return s
	}

	s.Priced = len(prices)
	s.MinPrice, s.MaxPrice = math.Inf(1), math.Inf(-1)
	for _, p := range prices {
		s.MinPrice = math.Min(s.MinPrice, p)
		s.MaxPrice = math.Max(s.MaxPrice, p)
	}
	s.MeanPrice = priceSum / float64(len(prices))
	s.PriceHistogram = histogram(prices, s.MinPrice, s.MaxPrice, HistogramBins)
	return s
}

func histogram(values []float64, lo, hi float64, bins int) []Bucket {
	if hi == lo {
		return []Bucket{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Lower = lo + float64(i)*width
		buckets[i].Upper = lo + float64(i+1)*width
	}
	buckets[bins-1].Upper = hi

	for _, value := range values {
		idx := int((value - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// Sorted returns counts ordered by frequency, then label.
func Sorted[K ~string](counts map[K]int) []Count {
	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: string(label), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
