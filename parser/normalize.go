package parser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/book-insights/models"
)

// Skip reasons reported for containers that do not yield a record.
const (
	ReasonMissingTitle = "missing title"
	ReasonEmptyBlock   = "empty container"
	ReasonUnexpected   = "unexpected structure"
)

// ItemSkipped describes a container that was dropped from the batch.
type ItemSkipped struct {
	Index  int
	Reason string
	Err    error
}

func (e *ItemSkipped) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("item %d skipped: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("item %d skipped: %s", e.Index, e.Reason)
}

func (e *ItemSkipped) Unwrap() error { return e.Err }

// Outcome is the per-container result: either a record or a skip.
type Outcome struct {
	Index  int
	Record models.BookRecord
	Skip   *ItemSkipped
}

// OK reports whether the outcome carries a record.
func (o Outcome) OK() bool { return o.Skip == nil }

// Normalize converts a container into a record without a sentiment label.
// Absent optional fields fall back to their placeholders; only a missing
// title or a structural panic skips the item.
func Normalize(block Block) (out Outcome) {
	out.Index = block.Index
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Index: block.Index,
				Skip:  &ItemSkipped{Index: block.Index, Reason: ReasonUnexpected, Err: fmt.Errorf("%v", r)},
			}
		}
	}()

	sel := block.Selection
	if sel == nil || sel.Length() == 0 {
		out.Skip = &ItemSkipped{Index: block.Index, Reason: ReasonEmptyBlock}
		return out
	}

	title, ok := sel.Find("h3 a").First().Attr("title")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		out.Skip = &ItemSkipped{Index: block.Index, Reason: ReasonMissingTitle}
		return out
	}

	record := models.BookRecord{
		Title:        title,
		Availability: models.AvailabilityUnknown,
		Rating:       models.RatingNotRated,
	}

	if price := sel.Find("p.price_color").First(); price.Length() > 0 {
		record.Price = ParsePrice(price.Text())
	}

	availability := sel.Find("p.instock.availability").First()
	if availability.Length() == 0 {
		availability = sel.Find("p.availability").First()
	}
	if availability.Length() > 0 {
		record.Availability = NormalizeAvailability(availability.Text())
	}

	if rating := sel.Find("p.star-rating").First(); rating.Length() > 0 {
		class, _ := rating.Attr("class")
		record.Rating = RatingFromClasses(strings.Fields(class))
	}

	out.Record = record
	return out
}
