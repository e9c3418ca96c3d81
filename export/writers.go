// Package export serialises book records as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aluiziolira/book-insights/models"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatDual Format = "dual"
)

// DefaultBasename is the export file name used when none is given.
const DefaultBasename = "book_data"

// DefaultFilename returns book_data with the extension of format.
// Dual output uses the csv name; the json file is derived from it.
func DefaultFilename(format Format) string {
	if format == FormatJSON {
		return DefaultBasename + ".json"
	}
	return DefaultBasename + ".csv"
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatJSON, FormatDual:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Writer receives records and finalises the output on Close.
type Writer interface {
	Write(records []models.BookRecord) error
	Close() error
}

// CSVWriter writes records as CSV rows under a fixed header.
type CSVWriter struct {
	closer io.Closer
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter writes the header row to w.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	cw := &CSVWriter{writer: writer}
	if c, ok := w.(io.Closer); ok {
		cw.closer = c
	}
	return cw, nil
}

// NewCSVFileWriter creates filename and writes the header row.
func NewCSVFileWriter(filename string) (*CSVWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cw, nil
}

// Write appends records to the CSV output.
func (cw *CSVWriter) Write(records []models.BookRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, record := range records {
		if err := cw.writer.Write(record.Row()); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the destination when it is closable.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	if cw.closer != nil {
		return cw.closer.Close()
	}
	return nil
}

// JSONWriter buffers records and writes them as one JSON array on Close.
type JSONWriter struct {
	w       io.Writer
	records []models.BookRecord
	mu      sync.Mutex
}

// NewJSONWriter returns a writer that encodes to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{
		w:       w,
		records: make([]models.BookRecord, 0),
	}
}

// NewJSONFileWriter creates filename for JSON output.
func NewJSONFileWriter(filename string) (*JSONWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}
	return NewJSONWriter(f), nil
}

// Write buffers records until Close.
func (jw *JSONWriter) Write(records []models.BookRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.records = append(jw.records, records...)
	return nil
}

// Close encodes the buffered array and closes the destination when it is closable.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	encodeErr := enc.Encode(jw.records)

	if c, ok := jw.w.(io.Closer); ok {
		if err := c.Close(); err != nil && encodeErr == nil {
			return fmt.Errorf("close json output: %w", err)
		}
	}
	if encodeErr != nil {
		return fmt.Errorf("encode json records: %w", encodeErr)
	}
	return nil
}

// NewFileWriter opens a writer for format at filename.
// Dual output writes filename with .csv and .json extensions.
func NewFileWriter(format Format, filename string) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVFileWriter(filename)
	case FormatJSON:
		return NewJSONFileWriter(filename)
	case FormatDual:
		base := strings.TrimSuffix(strings.TrimSuffix(filename, ".csv"), ".json")
		return NewDualWriter(base+".csv", base+".json")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Encode writes records to w in a single-stream format (csv or json).
func Encode(w io.Writer, format Format, records []models.BookRecord) error {
	var writer Writer
	switch format {
	case FormatCSV:
		cw, err := NewCSVWriter(nopCloser{w})
		if err != nil {
			return err
		}
		writer = cw
	case FormatJSON:
		writer = NewJSONWriter(nopCloser{w})
	default:
		return fmt.Errorf("format %q cannot be encoded to a single stream", format)
	}

	if err := writer.Write(records); err != nil {
		return err
	}
	return writer.Close()
}

// nopCloser hides any Close method of the caller's writer.
type nopCloser struct {
	io.Writer
}

func createFile(filename string) (*os.File, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	return os.Create(filename)
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
