// Package session holds the scraped result set for one interactive session.
package session

import (
	"io"
	"strings"

	"github.com/aluiziolira/book-insights/export"
	"github.com/aluiziolira/book-insights/models"
)

// ResultSet is the ordered collection of records from the latest successful scrape.
// It has a single writer and needs no locking.
type ResultSet struct {
	records []models.BookRecord
	loaded  bool
}

// NewResultSet returns an empty, unloaded result set.
func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// Replace swaps the whole set for records, keeping their order.
func (r *ResultSet) Replace(records []models.BookRecord) {
	next := make([]models.BookRecord, len(records))
	copy(next, records)
	r.records = next
	r.loaded = true
}

// Clear resets the set to its unloaded state.
func (r *ResultSet) Clear() {
	r.records = nil
	r.loaded = false
}

// Loaded reports whether a scrape has populated the set since the last Clear.
func (r *ResultSet) Loaded() bool {
	return r.loaded
}

// Len returns the number of records held.
func (r *ResultSet) Len() int {
	return len(r.records)
}

// Records returns a copy of every record in order.
func (r *ResultSet) Records() View {
	out := make(View, len(r.records))
	copy(out, r.records)
	return out
}

// Filter returns the records whose title contains query, ignoring case.
// A blank query returns every record.
func (r *ResultSet) Filter(query string) View {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.Records()
	}

	out := make(View, 0, len(r.records))
	for _, record := range r.records {
		if strings.Contains(strings.ToLower(record.Title), query) {
			out = append(out, record)
		}
	}
	return out
}

// View is a filtered, read-only snapshot of a result set.
type View []models.BookRecord

// Export writes the view as csv or json.
func (v View) Export(w io.Writer, format export.Format) error {
	return export.Encode(w, format, v)
}

// ExportFile writes the view to filename; dual writes both encodings.
func (v View) ExportFile(filename string, format export.Format) error {
	writer, err := export.NewFileWriter(format, filename)
	if err != nil {
		return err
	}
	if err := writer.Write(v); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
